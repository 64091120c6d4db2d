package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	"buynest/internal/models"
	"buynest/internal/repositories"
	"buynest/pkg/rabbitmq"
)

// Mailer is the outbound email collaborator. The implementation owns
// transport, authentication and the plain-text fallback; a non-nil error
// means the message was not accepted for delivery.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// NotificationReceipt records a successfully dispatched low-stock alert.
type NotificationReceipt struct {
	SupplierID string    `json:"supplierId"`
	ProductID  string    `json:"productId"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	SentAt     time.Time `json:"sentAt"`
}

// lowStockTemplate renders the alert sent to a supplier when a product needs
// restocking. The inline styling keeps the message readable in clients that
// strip external stylesheets.
var lowStockTemplate = template.Must(template.New("lowStock").Parse(`
<div style="font-family: 'Segoe UI', Roboto, sans-serif; background-color: #f8fafc; padding: 20px; border-radius: 10px; color: #333; max-width: 600px; margin: auto;">
  <div style="text-align: center; margin-bottom: 20px;">
    <h2 style="color: #059669; margin: 0;">BuyNest Inventory Alert</h2>
    <p style="color: #64748b; font-size: 14px; margin-top: 4px;">Automated Supplier Notification</p>
  </div>
  <p>Dear <strong>{{.SupplierName}}</strong>,</p>
  <p style="font-size: 15px; line-height: 1.6;">
    This is an automated notice from the <b>BuyNest Inventory System</b>.
    The following product has reached a low stock level:
  </p>
  <div style="background-color: #ecfdf5; border-left: 4px solid #10b981; padding: 12px 16px; margin: 16px 0; border-radius: 6px;">
    <p style="margin: 4px 0;"><b>Product Name:</b> {{.ProductName}}</p>
    <p style="margin: 4px 0;"><b>Product ID:</b> {{.ProductID}}</p>
    <p style="margin: 4px 0; color: #b91c1c;"><b>Current Stock:</b> {{.Stock}}</p>
  </div>
  <p style="font-size: 15px; line-height: 1.6;">
    Please arrange a <b>resupply</b> at the earliest convenience to avoid stock-out situations.
  </p>
  <div style="margin-top: 24px; text-align: center; font-size: 13px; color: #64748b;">
    <p style="margin: 0;">Thank you,</p>
    <p style="font-weight: 600; color: #059669; margin: 4px 0;">BuyNest Inventory Management System</p>
  </div>
</div>
`))

type lowStockAlert struct {
	SupplierName string
	ProductName  string
	ProductID    string
	Stock        int
}

// NotificationService resolves a product's linked supplier and dispatches the
// low-stock alert through the email collaborator.
type NotificationService struct {
	productRepo  repositories.ProductRepository
	supplierRepo repositories.SupplierRepository
	mailer       Mailer
	mqClient     *rabbitmq.Client // RabbitMQ client, optional
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(productRepo repositories.ProductRepository, supplierRepo repositories.SupplierRepository, mailer Mailer, mqClient *rabbitmq.Client) *NotificationService {
	return &NotificationService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		mailer:       mailer,
		mqClient:     mqClient,
	}
}

// NotifySupplier resolves the product and its most recently linked supplier,
// renders the alert and sends exactly one email. Both lookups must succeed
// before anything is sent; a delivery failure is surfaced as ErrDeliveryFailed
// and is not retried here.
func (s *NotificationService) NotifySupplier(productID string) (*NotificationReceipt, error) {
	product, err := s.productRepo.GetByProductID(productID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to look up product %s: %w", productID, err)
	}

	supplier, err := s.supplierRepo.LatestByProductID(productID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrSupplierNotFound)
		}
		return nil, fmt.Errorf("failed to look up supplier for product %s: %w", productID, err)
	}

	htmlBody, err := renderLowStockAlert(supplier, product)
	if err != nil {
		return nil, fmt.Errorf("failed to render alert for product %s: %w", productID, err)
	}

	subject := "Resupply Request: " + product.Name
	if err := s.mailer.Send(supplier.Email, subject, htmlBody); err != nil {
		return nil, fmt.Errorf("supplier %s, product %s: %w: %v",
			supplier.SupplierID, productID, ErrDeliveryFailed, err)
	}

	receipt := &NotificationReceipt{
		SupplierID: supplier.SupplierID,
		ProductID:  product.ProductID,
		Email:      supplier.Email,
		Subject:    subject,
		SentAt:     time.Now(),
	}

	if s.mqClient != nil {
		event := map[string]interface{}{
			"supplierId": supplier.SupplierID,
			"productId":  product.ProductID,
			"stock":      product.Stock,
		}
		if err := s.mqClient.PublishInventoryEvent("supplier.notified", event); err != nil {
			log.Printf("Warning: failed to publish supplier.notified for %s: %v", supplier.SupplierID, err)
		}
	}

	return receipt, nil
}

// renderLowStockAlert renders the HTML body of the alert. Pure: data in,
// markup out.
func renderLowStockAlert(supplier *models.Supplier, product *models.Product) (string, error) {
	var buf bytes.Buffer
	err := lowStockTemplate.Execute(&buf, lowStockAlert{
		SupplierName: supplier.Name,
		ProductName:  product.Name,
		ProductID:    product.ProductID,
		Stock:        product.Stock,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

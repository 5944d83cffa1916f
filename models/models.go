package models

import (
	"time"
)

// Payment status values stored on an order.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Order status values. Delivered and cancelled are terminal: the reconciler
// never transitions an order out of them.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ShipmentProviderShiprocket is the only carrier integration.
const ShipmentProviderShiprocket = "shiprocket"

// Order is the GORM model for the orders table. Payment and order status are
// the fields the reconciler mutates; everything else is written at checkout.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_number"`

	CustomerName   string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail  string `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerMobile string `gorm:"type:varchar(20);not null" json:"customer_mobile"`

	AddressLine1 string `gorm:"type:varchar(512)" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(512)" json:"address_line2,omitempty"`
	City         string `gorm:"type:varchar(128)" json:"city"`
	State        string `gorm:"type:varchar(128)" json:"state"`
	Pincode      string `gorm:"type:varchar(6)" json:"pincode"`

	ProductName  string  `gorm:"type:varchar(255)" json:"product_name"`
	PhoneModel   string  `gorm:"type:varchar(255)" json:"phone_model"`
	Quantity     int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice    float64 `gorm:"not null" json:"unit_price"`
	ShippingCost float64 `gorm:"not null;default:0" json:"shipping_cost"`
	Subtotal     float64 `gorm:"not null" json:"subtotal"`
	TotalAmount  float64 `gorm:"not null" json:"total_amount"`

	PaymentStatus string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	OrderStatus   string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"order_status"`
	PaymentID     *string `gorm:"type:varchar(128)" json:"payment_id,omitempty"`
	PaymentMethod *string `gorm:"type:varchar(64)" json:"payment_method,omitempty"`

	// CustomizationData holds the checkout line-item blob: either the legacy
	// single-item shape or the newer {"items":[...]} shape.
	CustomizationData *string `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Shipment is the GORM model for the shipments table. One row per dispatched
// order; created by fulfillment, only read and updated here.
type Shipment struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"not null;index" json:"order_id"`
	Provider    string  `gorm:"type:varchar(32);not null;default:'shiprocket'" json:"provider"`
	AWB         *string `gorm:"column:awb;type:varchar(64);index" json:"awb,omitempty"`
	CourierName *string `gorm:"type:varchar(128)" json:"courier_name,omitempty"`
	TrackingURL *string `gorm:"type:varchar(1024)" json:"tracking_url,omitempty"`
	// Status is the last known human-readable carrier status.
	Status string `gorm:"type:varchar(255)" json:"status"`
	// RawResponse is the latest carrier payload, kept for audit/debug.
	RawResponse *string   `gorm:"type:jsonb" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Product is the subset of the catalog the reconciler reads when resolving a
// representative image for order emails.
type Product struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(255);index" json:"name"`
	Image string `gorm:"type:varchar(1024)" json:"image"`
}

// LineItem is a purchased item reconstructed from an order's customization
// blob (or synthesized from the order's flat columns when the blob is absent).
type LineItem struct {
	Name       string  `json:"name"`
	PhoneModel string  `json:"phone_model"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
}

// Payment gateway webhook event types.
const (
	WebhookPaymentSuccess = "PAYMENT_SUCCESS_WEBHOOK"
	WebhookPaymentFailed  = "PAYMENT_FAILED_WEBHOOK"
)

// PaymentWebhook is the inbound gateway webhook payload.
type PaymentWebhook struct {
	Type string             `json:"type"`
	Data PaymentWebhookData `json:"data"`
}

// PaymentWebhookData wraps the order block of a webhook payload.
type PaymentWebhookData struct {
	Order GatewayOrder `json:"order"`
}

// GatewayOrder is the gateway's view of an order inside a webhook payload.
// OrderID follows the "order_<internalId>_<timestamp>" convention.
type GatewayOrder struct {
	OrderID       string `json:"order_id"`
	PaymentGroup  string `json:"payment_group"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// ConfirmPaymentRequest triggers the pull/verify fallback for one order.
type ConfirmPaymentRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

// ConfirmPaymentResult is the structured outcome of a confirmation attempt.
type ConfirmPaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// SyncRequest selects the shipment batch to reconcile.
type SyncRequest struct {
	Limit   int  `json:"limit"`
	OrderID uint `json:"orderId"`
}

// SyncResult is the per-shipment outcome of a sync batch.
type SyncResult struct {
	OrderID        uint   `json:"orderId"`
	ShipmentID     uint   `json:"shipmentId"`
	AWB            string `json:"awb"`
	ShipStatus     string `json:"shipStatus,omitempty"`
	OrderUpdatedTo string `json:"orderUpdatedTo,omitempty"`
	Error          string `json:"error,omitempty"`
}

// OrderStatusChangedEvent is published to SNS after the reconciler applies a
// status transition.
type OrderStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	OrderID       uint      `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	PaymentStatus string    `json:"payment_status"`
	OrderStatus   string    `json:"order_status"`
	Source        string    `json:"source"` // webhook | confirm | shipment_sync
	Timestamp     time.Time `json:"timestamp"`
}

package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amrahulsaini/casebuddy-sub000/events"
	"github.com/amrahulsaini/casebuddy-sub000/mailer"
	"github.com/amrahulsaini/casebuddy-sub000/models"
	"github.com/amrahulsaini/casebuddy-sub000/providers"
	"github.com/amrahulsaini/casebuddy-sub000/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Gateway order statuses returned by the confirmation endpoint.
const (
	gatewayStatusPaid   = "PAID"
	gatewayStatusActive = "ACTIVE"
)

// PaymentService applies payment-result transitions to orders, from webhook
// push events and from the pull/verify fallback.
type PaymentService interface {
	SignatureConfigured() bool
	SignatureValid(rawBody []byte, signature string) bool
	ProcessWebhook(ctx context.Context, rawBody []byte) *ServiceError
	ConfirmPayment(ctx context.Context, orderID uint) (models.ConfirmPaymentResult, *ServiceError)
}

type paymentServiceImpl struct {
	orders        repository.OrderRepository
	products      repository.ProductRepository
	gateway       providers.PaymentGateway
	mail          mailer.EmailSender
	sns           events.SNSPublisher
	snsTopicArn   string
	webhookSecret string
	adminEmail    string
	logger        *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	gateway providers.PaymentGateway,
	mail mailer.EmailSender,
	sns events.SNSPublisher,
	snsTopicArn string,
	webhookSecret string,
	adminEmail string,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		orders:        orders,
		products:      products,
		gateway:       gateway,
		mail:          mail,
		sns:           sns,
		snsTopicArn:   snsTopicArn,
		webhookSecret: webhookSecret,
		adminEmail:    adminEmail,
		logger:        logger,
	}
}

// ParseGatewayOrderID extracts the internal order id from the gateway's
// composite "order_<id>_<timestamp>" identifier. The format is a naming
// convention shared with checkout; a stored mapping would be sturdier.
func ParseGatewayOrderID(gatewayID string) (uint, error) {
	parts := strings.Split(gatewayID, "_")
	if len(parts) < 3 || parts[0] != "order" {
		return 0, fmt.Errorf("unexpected gateway order id format: %q", gatewayID)
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("non-numeric order id in %q: %w", gatewayID, err)
	}
	return uint(id), nil
}

func (s *paymentServiceImpl) SignatureConfigured() bool {
	return s.webhookSecret != ""
}

// SignatureValid checks the gateway's HMAC-SHA256-base64 signature over the
// raw request body with a constant-time compare.
func (s *paymentServiceImpl) SignatureValid(rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook applies a verified gateway event. Gateways retry delivery,
// so re-applying the same transition must land on the same end state; emails
// may be re-sent on replay, which is a known gap.
func (s *paymentServiceImpl) ProcessWebhook(ctx context.Context, rawBody []byte) *ServiceError {
	var wh models.PaymentWebhook
	if err := json.Unmarshal(rawBody, &wh); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Invalid webhook payload", Details: err.Error()}
	}

	switch wh.Type {
	case models.WebhookPaymentSuccess:
		return s.handlePaymentSuccess(ctx, wh.Data.Order)
	case models.WebhookPaymentFailed:
		return s.handlePaymentFailed(ctx, wh.Data.Order)
	default:
		s.logger.Info("Ignoring unhandled webhook event type", zap.String("type", wh.Type))
		return nil
	}
}

func (s *paymentServiceImpl) handlePaymentSuccess(ctx context.Context, gw models.GatewayOrder) *ServiceError {
	orderID, err := ParseGatewayOrderID(gw.OrderID)
	if err != nil {
		return &ServiceError{StatusCode: 500, Message: "Invalid order reference", Details: err.Error()}
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"order_status":   models.OrderStatusConfirmed,
	}
	if gw.PaymentGroup != "" {
		updates["payment_method"] = gw.PaymentGroup
	}
	if err := s.orders.UpdateStatus(ctx, orderID, updates); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to update order", Details: err.Error()}
	}

	s.logger.Info("Order marked paid",
		zap.Uint("order_id", orderID),
		zap.String("gateway_order_id", gw.OrderID),
	)

	// The state change above is the durable fact; everything below is
	// best-effort notification.
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("Paid order not found for notification", zap.Uint("order_id", orderID), zap.Error(err))
		return nil
	}

	items := BuildLineItems(order)
	s.attachImages(ctx, items)

	s.sendQuiet(ctx, order.CustomerEmail, mailer.OrderConfirmationSubject(order), mailer.OrderConfirmationBody(order, items), "customer confirmation")
	if s.adminEmail != "" {
		s.sendQuiet(ctx, s.adminEmail, mailer.AdminOrderNotificationSubject(order), mailer.AdminOrderNotificationBody(order, items), "admin notification")
	}

	publishOrderStatusEvent(ctx, s.sns, s.snsTopicArn, s.logger, order, "webhook")
	return nil
}

func (s *paymentServiceImpl) handlePaymentFailed(ctx context.Context, gw models.GatewayOrder) *ServiceError {
	orderID, err := ParseGatewayOrderID(gw.OrderID)
	if err != nil {
		return &ServiceError{StatusCode: 500, Message: "Invalid order reference", Details: err.Error()}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, map[string]interface{}{
		"payment_status": models.PaymentStatusFailed,
		"order_status":   models.OrderStatusCancelled,
	}); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to update order", Details: err.Error()}
	}

	s.logger.Info("Order marked failed",
		zap.Uint("order_id", orderID),
		zap.String("reason", gw.FailureReason),
	)

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("Failed order not found for notification", zap.Uint("order_id", orderID), zap.Error(err))
		return nil
	}

	s.sendQuiet(ctx, order.CustomerEmail, mailer.PaymentFailedSubject(order), mailer.PaymentFailedBody(order, gw.FailureReason), "customer failure notice")
	if s.adminEmail != "" {
		s.sendQuiet(ctx, s.adminEmail, mailer.AdminPaymentFailedSubject(order), mailer.AdminPaymentFailedBody(order, gw.FailureReason), "admin failure notice")
	}

	publishOrderStatusEvent(ctx, s.sns, s.snsTopicArn, s.logger, order, "webhook")
	return nil
}

// ConfirmPayment queries the gateway for the authoritative status of an order
// and applies the same transitions as the webhook path. Used by the storefront
// when the webhook may not have arrived yet.
func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, orderID uint) (models.ConfirmPaymentResult, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ConfirmPaymentResult{Success: false, Message: "Order not found"}, nil
		}
		return models.ConfirmPaymentResult{}, &ServiceError{StatusCode: 500, Message: "Failed to load order", Details: err.Error()}
	}

	if order.PaymentID == nil || *order.PaymentID == "" {
		return models.ConfirmPaymentResult{Success: false, Message: "No payment reference recorded for order"}, nil
	}

	gwStatus, err := s.gateway.GetOrderStatus(ctx, *order.PaymentID)
	if err != nil {
		s.logger.Error("Gateway status lookup failed", zap.Uint("order_id", orderID), zap.Error(err))
		return models.ConfirmPaymentResult{}, &ServiceError{StatusCode: 500, Message: "Failed to verify payment with gateway", Details: err.Error()}
	}

	switch gwStatus {
	case gatewayStatusPaid:
		if err := s.orders.UpdateStatus(ctx, orderID, map[string]interface{}{
			"payment_status": models.PaymentStatusCompleted,
			"order_status":   models.OrderStatusProcessing,
		}); err != nil {
			return models.ConfirmPaymentResult{}, &ServiceError{StatusCode: 500, Message: "Failed to update order", Details: err.Error()}
		}

		if updated, ferr := s.orders.FindByID(ctx, orderID); ferr == nil {
			items := BuildLineItems(updated)
			s.attachImages(ctx, items)
			s.sendQuiet(ctx, updated.CustomerEmail, mailer.OrderConfirmationSubject(updated), mailer.OrderConfirmationBody(updated, items), "customer confirmation")
			if s.adminEmail != "" {
				s.sendQuiet(ctx, s.adminEmail, mailer.AdminOrderNotificationSubject(updated), mailer.AdminOrderNotificationBody(updated, items), "admin notification")
			}
			publishOrderStatusEvent(ctx, s.sns, s.snsTopicArn, s.logger, updated, "confirm")
		}

		return models.ConfirmPaymentResult{Success: true, Message: "Payment verified", PaymentStatus: gwStatus}, nil

	case gatewayStatusActive:
		if err := s.orders.UpdateStatus(ctx, orderID, map[string]interface{}{
			"payment_status": models.PaymentStatusPending,
			"order_status":   models.OrderStatusPending,
		}); err != nil {
			return models.ConfirmPaymentResult{}, &ServiceError{StatusCode: 500, Message: "Failed to update order", Details: err.Error()}
		}
		return models.ConfirmPaymentResult{Success: false, Message: "Payment not completed yet", PaymentStatus: gwStatus}, nil

	default:
		if err := s.orders.UpdateStatus(ctx, orderID, map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
			"order_status":   models.OrderStatusCancelled,
		}); err != nil {
			return models.ConfirmPaymentResult{}, &ServiceError{StatusCode: 500, Message: "Failed to update order", Details: err.Error()}
		}
		if updated, ferr := s.orders.FindByID(ctx, orderID); ferr == nil {
			publishOrderStatusEvent(ctx, s.sns, s.snsTopicArn, s.logger, updated, "confirm")
		}
		return models.ConfirmPaymentResult{Success: false, Message: "Payment failed", PaymentStatus: gwStatus}, nil
	}
}

// attachImages fills in a representative product image per line item.
// Lookup failures are ignored; a missing image never blocks an email.
func (s *paymentServiceImpl) attachImages(ctx context.Context, items []models.LineItem) {
	if s.products == nil {
		return
	}
	for i := range items {
		if items[i].Image != "" || items[i].Name == "" {
			continue
		}
		if img, err := s.products.FindImageByName(ctx, items[i].Name); err == nil {
			items[i].Image = img
		}
	}
}

func (s *paymentServiceImpl) sendQuiet(ctx context.Context, to, subject, body, kind string) {
	if s.mail == nil || to == "" {
		return
	}
	if _, err := s.mail.SendEmail(ctx, to, subject, body); err != nil {
		s.logger.Error("Email send failed",
			zap.String("kind", kind),
			zap.String("to", to),
			zap.Error(err),
		)
	}
}

// publishOrderStatusEvent publishes an order_status_changed event to SNS,
// best-effort.
func publishOrderStatusEvent(ctx context.Context, pub events.SNSPublisher, topicArn string, logger *zap.Logger, order *models.Order, source string) {
	if pub == nil || topicArn == "" {
		return
	}
	event := models.OrderStatusChangedEvent{
		EventType:     "order_status_changed",
		EventID:       uuid.NewString(),
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.OrderStatus,
		Source:        source,
		Timestamp:     time.Now().UTC(),
	}
	b, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal status event", zap.Error(err))
		return
	}
	if err := pub.Publish(ctx, topicArn, b); err != nil {
		logger.Error("Failed to publish status event", zap.Error(err))
		return
	}
	logger.Info("Published order status event",
		zap.Uint("order_id", order.ID),
		zap.String("order_status", order.OrderStatus),
		zap.String("source", source),
	)
}

package services

import (
	"context"

	"github.com/amrahulsaini/casebuddy-sub000/events"
	"github.com/amrahulsaini/casebuddy-sub000/mailer"
	"github.com/amrahulsaini/casebuddy-sub000/models"
	"github.com/amrahulsaini/casebuddy-sub000/providers"
	"github.com/amrahulsaini/casebuddy-sub000/repository"

	"go.uber.org/zap"
)

const (
	defaultSyncLimit = 20
	maxSyncLimit     = 50
)

// SyncService polls the carrier for tracking updates across a batch of
// shipments and advances the parent orders through the delivery state machine.
type SyncService interface {
	SyncShipments(ctx context.Context, req models.SyncRequest) ([]models.SyncResult, *ServiceError)
}

type syncServiceImpl struct {
	shipments   repository.ShipmentRepository
	orders      repository.OrderRepository
	carrier     providers.CarrierTracker
	mail        mailer.EmailSender
	sns         events.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	shipments repository.ShipmentRepository,
	orders repository.OrderRepository,
	carrier providers.CarrierTracker,
	mail mailer.EmailSender,
	sns events.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) SyncService {
	return &syncServiceImpl{
		shipments:   shipments,
		orders:      orders,
		carrier:     carrier,
		mail:        mail,
		sns:         sns,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// SyncShipments processes the batch strictly sequentially. One shipment's
// failure is recorded in its result entry and never aborts the rest of the
// batch.
func (s *syncServiceImpl) SyncShipments(ctx context.Context, req models.SyncRequest) ([]models.SyncResult, *ServiceError) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSyncLimit
	}
	if limit > maxSyncLimit {
		limit = maxSyncLimit
	}

	batch, err := s.shipments.FindSyncBatch(ctx, limit, req.OrderID)
	if err != nil {
		s.logger.Error("Failed to load sync batch", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load shipments", Details: err.Error()}
	}

	results := make([]models.SyncResult, 0, len(batch))
	for i := range batch {
		results = append(results, s.syncOne(ctx, &batch[i]))
	}
	return results, nil
}

func (s *syncServiceImpl) syncOne(ctx context.Context, shipment *models.Shipment) models.SyncResult {
	result := models.SyncResult{
		OrderID:    shipment.OrderID,
		ShipmentID: shipment.ID,
	}
	if shipment.AWB != nil {
		result.AWB = *shipment.AWB
	}

	snap, err := s.carrier.TrackByAWB(ctx, result.AWB)
	if err != nil {
		s.logger.Warn("Carrier tracking call failed",
			zap.Uint("shipment_id", shipment.ID),
			zap.String("awb", result.AWB),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result
	}

	resolved := ResolveCarrierStatus(snap, shipment.Status)
	verdict := ClassifyStatus(resolved)
	result.ShipStatus = resolved

	order, err := s.orders.FindByID(ctx, shipment.OrderID)
	if err != nil {
		result.Error = "order lookup failed: " + err.Error()
		return result
	}

	// Shipment row first: courier/tracking URL only fill gaps, the raw blob
	// is always the latest call.
	if snap.CourierName != "" && (shipment.CourierName == nil || *shipment.CourierName == "") {
		shipment.CourierName = &snap.CourierName
	}
	if snap.TrackingURL != "" && (shipment.TrackingURL == nil || *shipment.TrackingURL == "") {
		shipment.TrackingURL = &snap.TrackingURL
	}
	if resolved != "" {
		shipment.Status = resolved
	}
	raw := string(snap.Raw)
	shipment.RawResponse = &raw

	if err := s.shipments.Update(ctx, shipment); err != nil {
		result.Error = "shipment update failed: " + err.Error()
		return result
	}

	if verdict == VerdictNone || !AllowTransition(order.OrderStatus, verdict) {
		return result
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, map[string]interface{}{
		"order_status": string(verdict),
	}); err != nil {
		result.Error = "order update failed: " + err.Error()
		return result
	}
	result.OrderUpdatedTo = string(verdict)

	s.logger.Info("Order status advanced from tracking",
		zap.Uint("order_id", order.ID),
		zap.String("from", order.OrderStatus),
		zap.String("to", string(verdict)),
		zap.String("carrier_status", resolved),
	)

	if verdict == VerdictDelivered {
		s.sendDeliveredQuiet(ctx, order)
	}

	order.OrderStatus = string(verdict)
	publishOrderStatusEvent(ctx, s.sns, s.snsTopicArn, s.logger, order, "shipment_sync")

	return result
}

func (s *syncServiceImpl) sendDeliveredQuiet(ctx context.Context, order *models.Order) {
	if s.mail == nil || order.CustomerEmail == "" {
		return
	}
	if _, err := s.mail.SendEmail(ctx, order.CustomerEmail, mailer.OrderDeliveredSubject(order), mailer.OrderDeliveredBody(order)); err != nil {
		s.logger.Error("Delivered email send failed",
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
	}
}

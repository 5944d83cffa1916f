package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amrahulsaini/casebuddy-sub000/mailer"
	"github.com/amrahulsaini/casebuddy-sub000/models"
	"github.com/amrahulsaini/casebuddy-sub000/providers"
	"github.com/amrahulsaini/casebuddy-sub000/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- fakes ----

type fakeOrderRepo struct {
	orders    map[uint]*models.Order
	updates   []map[string]interface{}
	updateErr error
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uint) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uint, updates map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, updates)
	o, ok := f.orders[id]
	if !ok {
		return nil
	}
	if v, ok := updates["payment_status"].(string); ok {
		o.PaymentStatus = v
	}
	if v, ok := updates["order_status"].(string); ok {
		o.OrderStatus = v
	}
	if v, ok := updates["payment_method"].(string); ok {
		o.PaymentMethod = &v
	}
	return nil
}

type fakeShipmentRepo struct {
	batch     []models.Shipment
	gotLimit  int
	gotOrder  uint
	updated   []models.Shipment
	updateErr error
}

func (f *fakeShipmentRepo) FindByID(_ context.Context, id uint) (*models.Shipment, error) {
	for i := range f.batch {
		if f.batch[i].ID == id {
			cp := f.batch[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShipmentRepo) FindByOrderID(_ context.Context, _ uint) ([]models.Shipment, error) {
	return nil, nil
}

func (f *fakeShipmentRepo) FindSyncBatch(_ context.Context, limit int, orderID uint) ([]models.Shipment, error) {
	f.gotLimit = limit
	f.gotOrder = orderID
	return f.batch, nil
}

func (f *fakeShipmentRepo) Update(_ context.Context, s *models.Shipment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, *s)
	return nil
}

type fakeCarrier struct {
	snaps map[string]*providers.TrackingSnapshot
	errs  map[string]error
}

func (f *fakeCarrier) TrackByAWB(_ context.Context, awb string) (*providers.TrackingSnapshot, error) {
	if err, ok := f.errs[awb]; ok {
		return nil, err
	}
	if snap, ok := f.snaps[awb]; ok {
		return snap, nil
	}
	return &providers.TrackingSnapshot{}, nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

func (f *fakeMailer) SendEmail(_ context.Context, to, subject, _ string) (mailer.SendResult, error) {
	if f.sendErr != nil {
		return mailer.SendResult{}, f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return mailer.SendResult{MessageID: "m1"}, nil
}

type fakeSNS struct {
	published [][]byte
	err       error
}

func (f *fakeSNS) Publish(_ context.Context, _ string, msg []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

// ---- helpers ----

func shipmentFor(id, orderID uint, awb, status string) models.Shipment {
	return models.Shipment{
		ID:       id,
		OrderID:  orderID,
		Provider: models.ShipmentProviderShiprocket,
		AWB:      strPtr(awb),
		Status:   status,
	}
}

func newSyncFixture(orders map[uint]*models.Order, batch []models.Shipment, carrier *fakeCarrier) (services.SyncService, *fakeOrderRepo, *fakeShipmentRepo, *fakeMailer, *fakeSNS) {
	logger, _ := zap.NewDevelopment()
	orderRepo := &fakeOrderRepo{orders: orders}
	shipRepo := &fakeShipmentRepo{batch: batch}
	mail := &fakeMailer{}
	sns := &fakeSNS{}
	svc := services.NewSyncService(shipRepo, orderRepo, carrier, mail, sns, "arn:aws:sns:ap-south-1:000000000000:orders", logger)
	return svc, orderRepo, shipRepo, mail, sns
}

// ---- tests ----

func TestSyncShipments_TerminalOrderNeverResurrected(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderNumber: "CB-1", OrderStatus: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "a@b.in"},
		2: {ID: 2, OrderNumber: "CB-2", OrderStatus: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "c@d.in"},
	}
	batch := []models.Shipment{
		shipmentFor(10, 1, "AWB1", "Cancelled"),
		shipmentFor(11, 2, "AWB2", "Delivered"),
	}
	carrier := &fakeCarrier{snaps: map[string]*providers.TrackingSnapshot{
		// stale carrier data after manual cancellation
		"AWB1": {LatestEventStatus: "In Transit"},
		"AWB2": {LatestEventStatus: "Out For Delivery"},
	}}

	svc, orderRepo, _, mail, _ := newSyncFixture(orders, batch, carrier)

	results, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Len(t, results, 2)

	for _, r := range results {
		assert.Empty(t, r.OrderUpdatedTo)
		assert.Empty(t, r.Error)
	}
	assert.Empty(t, orderRepo.updates)
	assert.Empty(t, mail.sent)
	assert.Equal(t, models.OrderStatusCancelled, orders[1].OrderStatus)
	assert.Equal(t, models.OrderStatusDelivered, orders[2].OrderStatus)
}

func TestSyncShipments_RepeatedShippedIsNoOp(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderNumber: "CB-1", OrderStatus: models.OrderStatusShipped, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "a@b.in"},
	}
	batch := []models.Shipment{shipmentFor(10, 1, "AWB1", "Shipped")}
	carrier := &fakeCarrier{snaps: map[string]*providers.TrackingSnapshot{
		"AWB1": {LatestEventStatus: "In Transit"},
	}}

	svc, orderRepo, shipRepo, mail, sns := newSyncFixture(orders, batch, carrier)

	results, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Len(t, results, 1)
	assert.Empty(t, results[0].OrderUpdatedTo)
	assert.Equal(t, "In Transit", results[0].ShipStatus)

	// shipment row still refreshed, order untouched
	assert.Len(t, shipRepo.updated, 1)
	assert.Empty(t, orderRepo.updates)
	assert.Empty(t, mail.sent)
	assert.Empty(t, sns.published)
}

func TestSyncShipments_RTOCancelsOrder(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderNumber: "CB-1", OrderStatus: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "a@b.in"},
	}
	batch := []models.Shipment{shipmentFor(10, 1, "AWB1", "In Transit")}
	carrier := &fakeCarrier{snaps: map[string]*providers.TrackingSnapshot{
		"AWB1": {LatestEventStatus: "RTO Initiated"},
	}}

	svc, _, _, mail, sns := newSyncFixture(orders, batch, carrier)

	results, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusCancelled, results[0].OrderUpdatedTo)
	assert.Equal(t, models.OrderStatusCancelled, orders[1].OrderStatus)
	assert.Empty(t, mail.sent) // delivered email only
	assert.Len(t, sns.published, 1)
}

func TestSyncShipments_DeliveredSendsEmail(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderNumber: "CB-1", CustomerName: "Asha", OrderStatus: models.OrderStatusShipped, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "asha@example.in"},
	}
	batch := []models.Shipment{shipmentFor(10, 1, "AWB1", "Out For Delivery")}
	carrier := &fakeCarrier{snaps: map[string]*providers.TrackingSnapshot{
		"AWB1": {LatestEventStatus: "Delivered", CourierName: "Delhivery"},
	}}

	svc, _, _, mail, sns := newSyncFixture(orders, batch, carrier)

	results, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusDelivered, results[0].OrderUpdatedTo)
	assert.Equal(t, models.OrderStatusDelivered, orders[1].OrderStatus)
	if assert.Len(t, mail.sent, 1) {
		assert.Equal(t, "asha@example.in", mail.sent[0].to)
	}
	assert.Len(t, sns.published, 1)
}

func TestSyncShipments_EmailFailureDoesNotFailSync(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderNumber: "CB-1", OrderStatus: models.OrderStatusShipped, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "a@b.in"},
	}
	batch := []models.Shipment{shipmentFor(10, 1, "AWB1", "Out For Delivery")}
	carrier := &fakeCarrier{snaps: map[string]*providers.TrackingSnapshot{
		"AWB1": {LatestEventStatus: "Delivered"},
	}}

	svc, orderRepo, shipRepo, mail, _ := newSyncFixture(orders, batch, carrier)
	mail.sendErr = errors.New("smtp down")

	results, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, models.OrderStatusDelivered, results[0].OrderUpdatedTo)
	assert.Len(t, orderRepo.updates, 1)
	assert.Len(t, shipRepo.updated, 1)
}

func TestSyncShipments_NumericCodeKeepsHumanStatus(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderNumber: "CB-1", OrderStatus: models.OrderStatusShipped, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "a@b.in"},
	}
	batch := []models.Shipment{shipmentFor(10, 1, "AWB1", "Out for Delivery")}
	carrier := &fakeCarrier{snaps: map[string]*providers.TrackingSnapshot{
		// unmapped bare code, an information regression
		"AWB1": {ShipmentStatus: "99"},
	}}

	svc, _, shipRepo, _, _ := newSyncFixture(orders, batch, carrier)

	results, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Equal(t, "Out for Delivery", results[0].ShipStatus)
	if assert.Len(t, shipRepo.updated, 1) {
		assert.Equal(t, "Out for Delivery", shipRepo.updated[0].Status)
	}
}

func TestSyncShipments_BatchIsolation(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderStatus: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "a@b.in"},
		2: {ID: 2, OrderStatus: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "c@d.in"},
		3: {ID: 3, OrderStatus: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "e@f.in"},
	}
	batch := []models.Shipment{
		shipmentFor(10, 1, "AWB1", ""),
		shipmentFor(11, 2, "AWB2", ""),
		shipmentFor(12, 3, "AWB3", ""),
	}
	carrier := &fakeCarrier{
		snaps: map[string]*providers.TrackingSnapshot{
			"AWB1": {LatestEventStatus: "In Transit"},
			"AWB3": {LatestEventStatus: "Delivered"},
		},
		errs: map[string]error{
			"AWB2": errors.New("carrier timeout"),
		},
	}

	svc, _, _, _, _ := newSyncFixture(orders, batch, carrier)

	results, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Len(t, results, 3)

	assert.Equal(t, "In Transit", results[0].ShipStatus)
	assert.Empty(t, results[0].Error)

	assert.Contains(t, results[1].Error, "carrier timeout")
	assert.Empty(t, results[1].ShipStatus)

	assert.Equal(t, "Delivered", results[2].ShipStatus)
	assert.Empty(t, results[2].Error)
	assert.Equal(t, models.OrderStatusDelivered, orders[3].OrderStatus)
}

func TestSyncShipments_CourierNeverOverwritten(t *testing.T) {
	orders := map[uint]*models.Order{
		1: {ID: 1, OrderStatus: models.OrderStatusShipped, PaymentStatus: models.PaymentStatusPaid, CustomerEmail: "a@b.in"},
	}
	sh := shipmentFor(10, 1, "AWB1", "In Transit")
	sh.CourierName = strPtr("Delhivery")
	batch := []models.Shipment{sh}
	carrier := &fakeCarrier{snaps: map[string]*providers.TrackingSnapshot{
		"AWB1": {LatestEventStatus: "In Transit", CourierName: "BlueDart", TrackingURL: "https://track.example/AWB1"},
	}}

	svc, _, shipRepo, _, _ := newSyncFixture(orders, batch, carrier)

	_, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	if assert.Len(t, shipRepo.updated, 1) {
		assert.Equal(t, "Delhivery", *shipRepo.updated[0].CourierName)
		// gaps still get filled
		assert.Equal(t, "https://track.example/AWB1", *shipRepo.updated[0].TrackingURL)
		assert.NotNil(t, shipRepo.updated[0].RawResponse)
	}
}

func TestSyncShipments_LimitClamping(t *testing.T) {
	carrier := &fakeCarrier{}
	svc, _, shipRepo, _, _ := newSyncFixture(map[uint]*models.Order{}, nil, carrier)

	_, svcErr := svc.SyncShipments(context.Background(), models.SyncRequest{})
	assert.Nil(t, svcErr)
	assert.Equal(t, 20, shipRepo.gotLimit)

	_, svcErr = svc.SyncShipments(context.Background(), models.SyncRequest{Limit: 500})
	assert.Nil(t, svcErr)
	assert.Equal(t, 50, shipRepo.gotLimit)

	_, svcErr = svc.SyncShipments(context.Background(), models.SyncRequest{Limit: 5, OrderID: 77})
	assert.Nil(t, svcErr)
	assert.Equal(t, 5, shipRepo.gotLimit)
	assert.Equal(t, uint(77), shipRepo.gotOrder)
}

package providers

import "context"

// TrackingSnapshot holds the carrier's view of a shipment after one tracking
// call. Status candidates are kept separately because carrier responses are
// inconsistent about which field carries the meaningful value; resolution
// order is the service's concern.
type TrackingSnapshot struct {
	// LatestEventStatus is the status of the most recent tracking activity.
	LatestEventStatus string
	// CurrentStatus is the response's top-level current-status field.
	CurrentStatus string
	// ShipmentStatus is the shipment-level status field, often a bare
	// numeric code.
	ShipmentStatus string
	CourierName    string
	TrackingURL    string
	// Raw is the unmodified response body, persisted for audit.
	Raw []byte
}

// CarrierTracker is the shipping-carrier integration used by the sync loop.
type CarrierTracker interface {
	TrackByAWB(ctx context.Context, awb string) (*TrackingSnapshot, error)
}

// PaymentGateway is the payment-provider integration used by the pull/verify
// confirmation path.
type PaymentGateway interface {
	// GetOrderStatus returns the gateway's live status for one of its order
	// ids, e.g. "PAID", "ACTIVE", "EXPIRED".
	GetOrderStatus(ctx context.Context, gatewayOrderID string) (string, error)
}

package services

import (
	"fmt"
	"strings"

	"github.com/amrahulsaini/casebuddy-sub000/models"
	"github.com/amrahulsaini/casebuddy-sub000/providers"
)

// Verdict is the coarse order-status classification derived from a free-text
// carrier status.
type Verdict string

const (
	VerdictNone      Verdict = ""
	VerdictShipped   Verdict = models.OrderStatusShipped
	VerdictDelivered Verdict = models.OrderStatusDelivered
	VerdictCancelled Verdict = models.OrderStatusCancelled
)

// shiprocketStatusLabels maps Shiprocket's numeric shipment status codes to
// their human-readable labels.
var shiprocketStatusLabels = map[string]string{
	"6":  "Shipped",
	"7":  "Delivered",
	"8":  "Cancelled",
	"9":  "RTO Initiated",
	"10": "RTO Delivered",
	"12": "Lost",
	"13": "Pickup Error",
	"15": "Pickup Rescheduled",
	"16": "Cancellation Requested",
	"17": "Out For Delivery",
	"18": "In Transit",
	"19": "Out For Pickup",
	"20": "Pickup Exception",
	"21": "Undelivered",
	"38": "Reached Destination Hub",
	"42": "Picked Up",
}

// ResolveCarrierStatus picks the most meaningful status string from a
// tracking snapshot. Carrier responses are inconsistent: the useful value may
// sit on the latest activity, the shipment track, or arrive as a bare numeric
// code. A numeric code never replaces a previously stored human-readable
// status; an unmapped numeric code is wrapped in a generic placeholder rather
// than stored as-is.
func ResolveCarrierStatus(snap *providers.TrackingSnapshot, previous string) string {
	candidate := firstNonEmpty(
		snap.LatestEventStatus,
		snap.CurrentStatus,
		snap.ShipmentStatus,
		previous,
	)
	if candidate == "" {
		return ""
	}

	if isNumeric(candidate) {
		if previous != "" && !isNumeric(previous) {
			return previous
		}
		if label, ok := shiprocketStatusLabels[candidate]; ok {
			return label
		}
		return fmt.Sprintf("Tracking in progress (code %s)", candidate)
	}

	return candidate
}

var shippedKeywords = []string{
	"in transit",
	"out for delivery",
	"shipped",
	"picked",
	"pickup",
	"manifest",
	"dispatched",
}

// ClassifyStatus maps a human-readable carrier status to an order-status
// verdict by case-insensitive substring matching. Return-to-origin counts as
// cancellation for storefront purposes. An unrecognized status yields
// VerdictNone and leaves the order untouched.
func ClassifyStatus(raw string) Verdict {
	s := strings.ToLower(raw)

	switch {
	case strings.Contains(s, "delivered"):
		return VerdictDelivered
	case strings.Contains(s, "rto"), strings.Contains(s, "return"):
		return VerdictCancelled
	case strings.Contains(s, "cancel"):
		return VerdictCancelled
	}

	for _, kw := range shippedKeywords {
		if strings.Contains(s, kw) {
			return VerdictShipped
		}
	}

	return VerdictNone
}

// AllowTransition decides whether a verdict may change the current order
// status. Delivered and cancelled orders are terminal no matter what the
// carrier reports later; a shipped verdict on an already-shipped order is a
// no-op so repeated polls cause no redundant writes.
func AllowTransition(current string, verdict Verdict) bool {
	if current == models.OrderStatusCancelled || current == models.OrderStatusDelivered {
		return false
	}

	switch verdict {
	case VerdictDelivered:
		return true
	case VerdictCancelled:
		return true
	case VerdictShipped:
		return current != models.OrderStatusShipped
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

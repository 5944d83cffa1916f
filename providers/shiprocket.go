package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ShiprocketProvider implements CarrierTracker using the Shiprocket API.
type ShiprocketProvider struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewShiprocketProvider creates a new ShiprocketProvider.
func NewShiprocketProvider(baseURL, apiToken string) *ShiprocketProvider {
	return &ShiprocketProvider{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- Shiprocket API response structs ----

type shiprocketTrackActivity struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

type shiprocketShipmentTrack struct {
	CurrentStatus string `json:"current_status"`
	CourierName   string `json:"courier_name"`
	AWBCode       string `json:"awb_code"`
}

type shiprocketTrackResponse struct {
	TrackingData struct {
		TrackStatus             int                       `json:"track_status"`
		ShipmentStatus          json.Number               `json:"shipment_status"`
		ShipmentTrack           []shiprocketShipmentTrack `json:"shipment_track"`
		ShipmentTrackActivities []shiprocketTrackActivity `json:"shipment_track_activities"`
		TrackURL                string                    `json:"track_url"`
	} `json:"tracking_data"`
}

// TrackByAWB fetches the current tracking state for an AWB.
func (p *ShiprocketProvider) TrackByAWB(ctx context.Context, awb string) (*TrackingSnapshot, error) {
	path := fmt.Sprintf("/v1/external/courier/track/awb/%s", awb)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("shiprocket API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var parsed shiprocketTrackResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	snapshot := &TrackingSnapshot{
		TrackingURL: parsed.TrackingData.TrackURL,
		Raw:         respBytes,
	}

	if acts := parsed.TrackingData.ShipmentTrackActivities; len(acts) > 0 {
		snapshot.LatestEventStatus = acts[0].Status
		if snapshot.LatestEventStatus == "" {
			snapshot.LatestEventStatus = acts[0].Activity
		}
	}
	if tracks := parsed.TrackingData.ShipmentTrack; len(tracks) > 0 {
		snapshot.CurrentStatus = tracks[0].CurrentStatus
		snapshot.CourierName = tracks[0].CourierName
	}
	snapshot.ShipmentStatus = parsed.TrackingData.ShipmentStatus.String()

	return snapshot, nil
}

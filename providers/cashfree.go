package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const cashfreeAPIVersion = "2023-08-01"

// CashfreeProvider implements PaymentGateway using the Cashfree PG API.
type CashfreeProvider struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewCashfreeProvider creates a new CashfreeProvider. baseURL selects the
// sandbox or production environment.
func NewCashfreeProvider(baseURL, clientID, clientSecret string) *CashfreeProvider {
	return &CashfreeProvider{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type cashfreeOrderResponse struct {
	OrderID     string `json:"order_id"`
	OrderStatus string `json:"order_status"`
}

// GetOrderStatus fetches the gateway's live order status.
func (p *CashfreeProvider) GetOrderStatus(ctx context.Context, gatewayOrderID string) (string, error) {
	url := fmt.Sprintf("%s/pg/orders/%s", p.baseURL, gatewayOrderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-client-id", p.clientID)
	req.Header.Set("x-client-secret", p.clientSecret)
	req.Header.Set("x-api-version", cashfreeAPIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("cashfree API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var parsed cashfreeOrderResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return parsed.OrderStatus, nil
}

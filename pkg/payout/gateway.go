package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/google/uuid"
)

const statusCompleted = "COMPLETED"

// Gateway moves funds through a remote payments API
type Gateway struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

type transferRequest struct {
	Reference string         `json:"reference"`
	To        models.Address `json:"to"`
	Amount    uint64         `json:"amount"`
}

type transferResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// NewGateway creates a new payments gateway client
func NewGateway(baseURL, apiKey string) *Gateway {
	return &Gateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Transfer succeeds only when the gateway reports the transfer completed
func (g *Gateway) Transfer(ctx context.Context, to models.Address, amount uint64) error {
	jsonBody, err := json.Marshal(transferRequest{
		Reference: uuid.NewString(),
		To:        to,
		Amount:    amount,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/transfers", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response transferResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Status != statusCompleted {
		return fmt.Errorf("transfer %s ended as %s", response.Reference, response.Status)
	}
	return nil
}

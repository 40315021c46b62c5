package oracleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/google/uuid"
)

// Client requests randomness from a remote oracle service. The service
// answers later by calling the lottery's oracle callback endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	address models.Address
	client  *http.Client
}

type requestBody struct {
	Reference string `json:"reference"`
}

type requestResponse struct {
	RequestID string `json:"requestId"`
}

// NewClient creates a new oracle API client. address is the identity the
// remote oracle fulfils as.
func NewClient(baseURL, apiKey string, address models.Address) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		address: address,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Address() models.Address {
	return c.address
}

// RequestRandomness registers a new request and returns its id without
// waiting for the value
func (c *Client) RequestRandomness(ctx context.Context) (string, error) {
	jsonBody, err := json.Marshal(requestBody{Reference: uuid.NewString()})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/requests", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response requestResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if response.RequestID == "" {
		return "", errors.New("oracle returned an empty request id")
	}
	return response.RequestID, nil
}

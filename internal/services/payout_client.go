package services

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"marketplace-api/internal/config"
	"marketplace-api/pkg/logging"

	"github.com/shopspring/decimal"
)

// PayoutProvider executes a stablecoin transfer and returns the transaction
// reference. The claim workflow only depends on this interface; tests inject
// a fake.
type PayoutProvider interface {
	Transfer(address string, amount decimal.Decimal) (string, error)
}

// PayoutClient calls the external payout/transfer service
type PayoutClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewPayoutClient creates a payout client from the app configuration
func NewPayoutClient() *PayoutClient {
	return &PayoutClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: config.AppConfig.PayoutAPIURL,
		apiKey:  config.AppConfig.PayoutAPIKey,
	}
}

// transferRequest is the payload sent to the payout service
type transferRequest struct {
	Address  string `json:"address"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// transferResponse is the payout service's reply
type transferResponse struct {
	TxReference string `json:"tx_reference"`
}

// Transfer sends amount to address and returns the transaction reference.
// No retry: a failed transfer surfaces to the caller and nothing is marked
// claimed. With no PAYOUT_API_URL configured the transfer is simulated with a
// locally generated reference (development mode).
func (pc *PayoutClient) Transfer(address string, amount decimal.Decimal) (string, error) {
	if pc.baseURL == "" {
		ref, err := simulatedTxReference()
		if err != nil {
			return "", err
		}
		logging.Infof("Payout simulated - address: %s, amount: %s, reference: %s",
			address, amount.String(), ref)
		return ref, nil
	}

	payload := transferRequest{
		Address:  address,
		Amount:   amount.String(),
		Currency: "USDC",
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", pc.baseURL+"/transfers", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if pc.apiKey != "" {
		httpReq.Header.Set("api-key", pc.apiKey)
	}

	resp, err := pc.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payout service error: status %d", resp.StatusCode)
	}

	var transfer transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&transfer); err != nil {
		return "", fmt.Errorf("failed to decode transfer response: %w", err)
	}
	if transfer.TxReference == "" {
		return "", fmt.Errorf("payout service returned empty tx reference")
	}

	return transfer.TxReference, nil
}

// simulatedTxReference generates an EVM-shaped transaction hash
func simulatedTxReference() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(buf), nil
}

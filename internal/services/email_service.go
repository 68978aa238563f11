package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"marketplace-api/internal/config"
	"marketplace-api/internal/models"
	"marketplace-api/pkg/logging"
)

// EmailService sends receipt emails via the Brevo API.
// All sends are best effort: a failure is logged and never fails the workflow
// that triggered it.
type EmailService struct {
	APIKey    string
	FromEmail string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	return &EmailService{
		APIKey:    config.AppConfig.BrevoAPIKey,
		FromEmail: config.AppConfig.BrevoFromEmail,
	}
}

// EmailRequest represents Brevo email request structure
type EmailRequest struct {
	Sender      EmailSender `json:"sender"`
	To          []EmailTo   `json:"to"`
	Subject     string      `json:"subject"`
	TextContent string      `json:"textContent"`
}

type EmailSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmailTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendSettlementReceipt emails the buyer a settlement confirmation
func (s *EmailService) SendSettlementReceipt(account *models.Account, result *SettlementResult, reference string) {
	if account.Email == "" || s.APIKey == "" {
		return
	}

	subject := fmt.Sprintf("Credit settled - %s", config.AppConfig.ServiceName)
	textContent := fmt.Sprintf(
		"Your credit usage has been settled.\n\nSettled purchases: %d\nSettled total: %s\nTransaction: %s\nCredit balance: %s\n",
		result.SettledPurchaseCount, result.TotalAmount.String(), reference, result.NewBalance.String())

	if err := s.sendEmail(account.Email, subject, textContent); err != nil {
		logging.Warnf("Failed to send settlement receipt to %s: %v", account.Email, err)
	}
}

// SendClaimReceipt emails the creator a payout confirmation
func (s *EmailService) SendClaimReceipt(account *models.Account, result *ClaimResult) {
	if account.Email == "" || s.APIKey == "" {
		return
	}

	subject := fmt.Sprintf("Earnings paid out - %s", config.AppConfig.ServiceName)
	textContent := fmt.Sprintf(
		"Your earnings claim has been paid out.\n\nClaimed amount: %s\nPayout transaction: %s\nRemaining pending: %s\n",
		result.ClaimedAmount.String(), result.PayoutTxRef, result.RemainingPending.String())

	if err := s.sendEmail(account.Email, subject, textContent); err != nil {
		logging.Warnf("Failed to send claim receipt to %s: %v", account.Email, err)
	}
}

// sendEmail sends email via Brevo API
func (s *EmailService) sendEmail(to, subject, textContent string) error {
	req := EmailRequest{
		Sender: EmailSender{
			Name:  config.AppConfig.ServiceName,
			Email: s.FromEmail,
		},
		To:          []EmailTo{{Email: to}},
		Subject:     subject,
		TextContent: textContent,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", "https://api.brevo.com/v3/smtp/email", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", s.APIKey)

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}

	return nil
}

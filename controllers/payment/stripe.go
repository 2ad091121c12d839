package paymentControllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// PaymentGateway creates charges with an external processor. Only the two
// fields checkout needs come back: the intent id and the client secret the
// mobile app completes the payment with.
type PaymentGateway interface {
	CreatePaymentIntent(amount int64, currency string) (intentID, clientSecret string, err error)
}

// StripeClient talks to the Stripe payment-intents API directly.
type StripeClient struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// stripeIntentResponse represents the subset of Stripe's payment-intent
// object we read.
type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewStripeClientFromEnv reads STRIPE_SECRET_KEY and optionally
// STRIPE_API_URL (defaults to the live endpoint; tests point it elsewhere).
func NewStripeClientFromEnv() (*StripeClient, error) {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("stripe configuration missing")
	}

	apiURL := os.Getenv("STRIPE_API_URL")
	if apiURL == "" {
		apiURL = "https://api.stripe.com/v1"
	}

	return &StripeClient{
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{},
	}, nil
}

// CreatePaymentIntent registers a card charge for the given amount (smallest
// currency unit) and returns the intent id plus client secret.
func (s *StripeClient) CreatePaymentIntent(amount int64, currency string) (string, string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequest("POST", s.apiURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to reach Stripe: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var intent stripeIntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", "", fmt.Errorf("failed to parse Stripe response: %v", err)
	}

	if intent.Error != nil {
		return "", "", fmt.Errorf("stripe error: %s", intent.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("stripe API error (%d): %s", resp.StatusCode, string(body))
	}
	if intent.ClientSecret == "" {
		return "", "", fmt.Errorf("stripe returned empty client secret")
	}

	return intent.ID, intent.ClientSecret, nil
}

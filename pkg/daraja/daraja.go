// Package daraja is a minimal client for the Safaricom Daraja STK push API:
// client-credential token exchange, push initiation and status query. Each call
// re-authenticates; there is no token cache and no retry.
package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	BaseURL          string
	ConsumerKey      string
	ConsumerSecret   string
	Shortcode        string
	PassKey          string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
}

type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AccessToken performs the client-credential exchange and returns the bearer
// token. A non-2xx response yields *AuthError.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	url := c.cfg.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AuthError{Status: resp.Status, Message: gatewayMessage(body, resp.Status)}
	}
	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("token response: %w", err)
	}
	return out.AccessToken, nil
}

// PushRequest carries the caller-supplied fields for an STK push. Phone may be
// free-form; Amount may carry any precision. Reference and Description fall
// back to the configured defaults when empty.
type PushRequest struct {
	Phone       string
	Amount      float64
	Reference   string
	Description string
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`

	// Echoed back after submission so callers persist exactly what was sent.
	NormalizedPhone string `json:"-"`
	SubmittedAmount int64  `json:"-"`
}

// STKPush signs and submits a push payment request.
func (c *Client) STKPush(ctx context.Context, push PushRequest) (*STKPushResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	ts := Timestamp(c.now())
	phone := NormalizePhone(push.Phone)
	amount := RoundAmount(push.Amount)
	reference := push.Reference
	if reference == "" {
		reference = c.cfg.AccountReference
	}
	description := push.Description
	if description == "" {
		description = c.cfg.TransactionDesc
	}
	payload := stkPushPayload{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          Password(c.cfg.Shortcode, c.cfg.PassKey, ts),
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            phone,
		PartyB:            c.cfg.Shortcode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  reference,
		TransactionDesc:   description,
	}
	var out STKPushResponse
	if err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &out, "stkpush"); err != nil {
		return nil, err
	}
	out.NormalizedPhone = phone
	out.SubmittedAmount = amount
	return &out, nil
}

type stkQueryPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// STKQuery asks the gateway for the state of a previously initiated push.
// Advisory only; the raw gateway response is returned as-is.
func (c *Client) STKQuery(ctx context.Context, checkoutRequestID string) (map[string]interface{}, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	ts := Timestamp(c.now())
	payload := stkQueryPayload{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          Password(c.cfg.Shortcode, c.cfg.PassKey, ts),
		Timestamp:         ts,
		CheckoutRequestID: checkoutRequestID,
	}
	var out map[string]interface{}
	if err := c.post(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &out, "stkquery"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out interface{}, op string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Op: op, Status: resp.Status, Message: gatewayMessage(respBody, resp.Status)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s response: %w", op, err)
	}
	return nil
}

// gatewayMessage extracts the gateway's errorMessage, falling back to the HTTP
// status text when the body is not the expected error shape.
func gatewayMessage(body []byte, status string) string {
	var ge gatewayError
	if err := json.Unmarshal(body, &ge); err == nil && ge.ErrorMessage != "" {
		return ge.ErrorMessage
	}
	return status
}

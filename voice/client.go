package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.vapi.ai"
	callType       = "solar-consultation"
)

// RoutingConfig carries the fixed identifiers sent with every call.
type RoutingConfig struct {
	AssistantID   string
	PhoneNumberID string
	CustomerName  string
	CompanyName   string
}

// Call is the provider's representation of a phone call.
type Call struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Duration float64 `json:"duration,omitempty"`
	Customer struct {
		Number string `json:"number"`
		Name   string `json:"name,omitempty"`
	} `json:"customer"`
}

// ProviderError is returned for non-2xx responses.
type ProviderError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("voice provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("voice provider error (status %d)", e.StatusCode)
}

type placeCallRequest struct {
	AssistantID   string            `json:"assistantId"`
	PhoneNumberID string            `json:"phoneNumberId,omitempty"`
	Customer      customer          `json:"customer"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type customer struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlaceCall asks the provider to dial destination with the configured
// assistant.
func (c *Client) PlaceCall(ctx context.Context, credential, destination string, routing RoutingConfig) (*Call, error) {
	metadata := map[string]string{"callType": callType}
	if routing.CompanyName != "" {
		metadata["companyName"] = routing.CompanyName
	}

	body := placeCallRequest{
		AssistantID:   routing.AssistantID,
		PhoneNumberID: routing.PhoneNumberID,
		Customer: customer{
			Number: destination,
			Name:   routing.CustomerName,
		},
		Metadata: metadata,
	}

	var call Call
	if err := c.do(ctx, http.MethodPost, "/call/phone", credential, body, &call); err != nil {
		return nil, err
	}
	if call.Customer.Number == "" {
		call.Customer.Number = destination
	}
	return &call, nil
}

// StopCall ends a call that may already have finished on the provider side.
func (c *Client) StopCall(ctx context.Context, credential, callID string) error {
	return c.do(ctx, http.MethodPost, "/call/"+url.PathEscape(callID)+"/stop", credential, nil, nil)
}

func (c *Client) GetCall(ctx context.Context, credential, callID string) (*Call, error) {
	var call Call
	if err := c.do(ctx, http.MethodGet, "/call/"+url.PathEscape(callID), credential, nil, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// Assistant is the provider's record of a created assistant.
type Assistant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FirstMessage string `json:"firstMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

const assistantPrompt = `You are a friendly solar energy consultant. Your goal is to:
1. Introduce yourself and %s
2. Ask about their current electricity costs
3. Explain solar benefits (savings, tax credits, home value increase)
4. Handle objections professionally
5. Schedule a consultation if interested
Keep conversations natural and helpful.`

// DefaultAssistant is the solar consultation assistant created when no
// overrides are given.
func DefaultAssistant(companyName string) map[string]interface{} {
	return map[string]interface{}{
		"name": "Solar Consultation Assistant",
		"model": map[string]interface{}{
			"provider":    "openai",
			"model":       "gpt-3.5-turbo",
			"temperature": 0.7,
		},
		"voice": map[string]interface{}{
			"provider": "eleven-labs",
			"voiceId":  "EXAVITQu4vr4xnSDxMaL",
		},
		"firstMessage": "Hi! I'm calling from " + companyName +
			" about solar energy solutions for your home. Do you have a few minutes to discuss how solar can save you money?",
		"systemPrompt": fmt.Sprintf(assistantPrompt, companyName),
	}
}

// CreateAssistant creates an assistant from DefaultAssistant. Top-level keys
// in overrides replace the defaults whole.
func (c *Client) CreateAssistant(ctx context.Context, credential, companyName string, overrides map[string]interface{}) (*Assistant, error) {
	body := DefaultAssistant(companyName)
	for k, v := range overrides {
		body[k] = v
	}

	var assistant Assistant
	if err := c.do(ctx, http.MethodPost, "/assistant", credential, body, &assistant); err != nil {
		return nil, err
	}
	return &assistant, nil
}

func (c *Client) do(ctx context.Context, method, path, credential string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	if in != nil || method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    providerMessage(raw),
			Body:       string(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// providerMessage extracts "message" from an error body. The provider sends
// either a string or a list of validation messages.
func providerMessage(raw []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil && single != "" {
		return single
	}
	var list []string
	if err := json.Unmarshal(payload.Message, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	return payload.Error
}

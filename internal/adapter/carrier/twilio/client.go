// Package twilio adapts the Twilio REST API as the WhatsApp message
// carrier and validates inbound webhook signatures.
package twilio

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/staffpulse/backend/internal/config"
	"github.com/staffpulse/backend/internal/domain"
)

const whatsappPrefix = "whatsapp:"

// Client sends WhatsApp messages through Twilio.
type Client struct {
	api  *twilio.RestClient
	from string
}

// NewClient validates the Twilio configuration and constructs the carrier
// client. Credential problems surface here, not on the first send.
func NewClient(cfg config.TwilioConfig) (*Client, error) {
	if cfg.AccountSID == "" {
		return nil, domain.NewConfigError("twilio.account_sid", "missing")
	}
	if !strings.HasPrefix(cfg.AccountSID, "AC") || config.IsPlaceholder(cfg.AccountSID) {
		return nil, domain.NewConfigError("twilio.account_sid", "not a valid account SID")
	}
	if cfg.AuthToken == "" || config.IsPlaceholder(cfg.AuthToken) {
		return nil, domain.NewConfigError("twilio.auth_token", "missing or placeholder")
	}
	if cfg.WhatsAppFrom == "" {
		return nil, domain.NewConfigError("twilio.whatsapp_from", "missing")
	}

	api := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Client{
		api:  api,
		from: strings.TrimPrefix(cfg.WhatsAppFrom, whatsappPrefix),
	}, nil
}

// SendWhatsApp sends one message and returns the provider message SID.
// The Twilio SDK is not context-aware; ctx is checked before the call so a
// canceled attempt fails fast instead of spending an HTTP round trip.
func (c *Client) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(whatsappPrefix + c.from)
	params.SetTo(whatsappPrefix + strings.TrimPrefix(to, whatsappPrefix))
	params.SetBody(body)

	msg, err := c.api.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", domain.WrapExternal(err))
	}
	if msg.Sid == nil {
		return "", fmt.Errorf("twilio create message: no SID returned: %w", domain.ErrExternal)
	}

	return *msg.Sid, nil
}

// Validator checks X-Twilio-Signature headers on inbound webhooks.
type Validator struct {
	inner twilioclient.RequestValidator
}

// NewValidator builds a webhook signature validator from the auth token.
func NewValidator(authToken string) *Validator {
	return &Validator{inner: twilioclient.NewRequestValidator(authToken)}
}

// Valid reports whether the signature matches the full webhook URL and
// form parameters.
func (v *Validator) Valid(url string, params map[string]string, signature string) bool {
	return v.inner.Validate(url, params, signature)
}

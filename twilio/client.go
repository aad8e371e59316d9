// Copyright (c) Microsoft. All rights reserved.

// Package twilio sends WhatsApp messages through the Twilio REST API.
package twilio

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppPrefix marks a Twilio address as a WhatsApp channel address.
const WhatsAppPrefix = "whatsapp:"

// ErrSend matches every [*SendError] with errors.Is.
var ErrSend = errors.New("twilio: send failed")

// SendError is returned when Twilio rejects or fails a message. Its text is
// the underlying error's text.
type SendError struct {
	Err error
}

func (e *SendError) Error() string        { return e.Err.Error() }
func (e *SendError) Unwrap() error        { return e.Err }
func (e *SendError) Is(target error) bool { return target == ErrSend }

// messageCreator is the subset of the Twilio API service used by [Client].
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Receipt describes a message accepted by Twilio.
type Receipt struct {
	SID    string
	Status string
	To     string
}

// Client dispatches messages through Twilio.
type Client struct {
	api    messageCreator
	logger *slog.Logger
}

type clientConfig struct {
	edge   string
	region string
	logger *slog.Logger
}

// Option configures a [Client].
type Option func(*clientConfig)

// WithEdge routes requests through a Twilio edge location (e.g. "dublin").
func WithEdge(edge string) Option {
	return func(c *clientConfig) { c.edge = edge }
}

// WithRegion routes requests to a Twilio processing region (e.g. "ie1").
func WithRegion(region string) Option {
	return func(c *clientConfig) { c.region = region }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// New creates a Client authenticated with an account SID and auth token.
func New(accountSID, authToken string, opts ...Option) *Client {
	cfg := clientConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	if cfg.edge != "" {
		rest.SetEdge(cfg.edge)
	}
	if cfg.region != "" {
		rest.SetRegion(cfg.region)
	}
	return newWithCreator(rest.Api, cfg.logger)
}

func newWithCreator(api messageCreator, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, logger: logger}
}

// WhatsAppAddress returns number as a WhatsApp address. Numbers that already
// carry the prefix are returned unchanged.
func WhatsAppAddress(number string) string {
	if strings.HasPrefix(number, WhatsAppPrefix) {
		return number
	}
	return WhatsAppPrefix + number
}

// Send delivers body from one WhatsApp number to another. Both numbers are
// converted with [WhatsAppAddress]. The Twilio SDK does not take a context, so
// ctx is only checked before the request is made.
func (c *Client) Send(ctx context.Context, from, to, body string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(WhatsAppAddress(from))
	params.SetTo(WhatsAppAddress(to))
	params.SetBody(body)

	c.logger.DebugContext(ctx, "twilio create message", "to", WhatsAppAddress(to), "chars", len(body))

	msg, err := c.api.CreateMessage(params)
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			c.logger.DebugContext(ctx, "twilio rejected message",
				"status", restErr.Status,
				"code", restErr.Code,
			)
		}
		return Receipt{}, &SendError{Err: err}
	}

	r := Receipt{To: WhatsAppAddress(to)}
	if msg != nil {
		if msg.Sid != nil {
			r.SID = *msg.Sid
		}
		if msg.Status != nil {
			r.Status = *msg.Status
		}
		if msg.To != nil {
			r.To = *msg.To
		}
	}
	return r, nil
}

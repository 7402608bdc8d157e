// Package telegram talks to the Telegram Bot API and verifies Login Widget
// payloads.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/infrastructure/resilience"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

var tracer = otel.Tracer("github.com/fineko/fineko-api/internal/infrastructure/telegram")

// Config holds the Bot API settings.
type Config struct {
	BotToken string
	APIURL   string
	Timeout  time.Duration
}

// Client sends bot messages.
type Client struct {
	httpClient *http.Client
	endpoint   string
	cb         *gobreaker.CircuitBreaker
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(apiURL, "/") + "/bot" + cfg.BotToken,
		cb:         resilience.NewCircuitBreaker("telegram", log),
	}
}

type inlineKeyboardButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// SendMessage delivers msg. Failures wrap domain.ErrUpstream.
func (c *Client) SendMessage(ctx context.Context, msg domain.OutboundMessage) error {
	ctx, span := tracer.Start(ctx, "telegram.sendMessage", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int64("telegram.chat_id", msg.ChatID))

	req := sendMessageRequest{ChatID: msg.ChatID, Text: msg.Text}
	if len(msg.Buttons) > 0 {
		row := make([]inlineKeyboardButton, 0, len(msg.Buttons))
		for _, b := range msg.Buttons {
			row = append(row, inlineKeyboardButton{Text: b.Text, URL: b.URL})
		}
		req.ReplyMarkup = &replyMarkup{InlineKeyboard: [][]inlineKeyboardButton{row}}
	}

	start := time.Now()
	_, err := resilience.Execute(c.cb, func() (struct{}, error) {
		return struct{}{}, c.call(ctx, "sendMessage", req)
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "sendMessage failed")
	}
	metrics.UpstreamRequestDuration.WithLabelValues("telegram", outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("%w: telegram sendMessage: %v", domain.ErrUpstream, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, scrub(err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return scrub(err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&out); err != nil {
		return fmt.Errorf("%s: status %d: undecodable response", method, resp.StatusCode)
	}
	if !out.OK {
		return fmt.Errorf("%s: telegram error %d: %s", method, out.ErrorCode, out.Description)
	}
	return nil
}

// scrub drops the request URL from transport errors; it embeds the bot token.
func scrub(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

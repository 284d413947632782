package telegram

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	pkghttp "SmartScan/pkg/http"
	"SmartScan/pkg/logger"
)

// Option configures Notifier.
type Option func(*Notifier)

// Notifier delivers scan messages through the Telegram Bot API.
type Notifier struct {
	http      *pkghttp.Client
	apiURL    string
	token     string
	chatID    string
	maxLength int
	logger    *logger.Logger
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewNotifier creates a Telegram notifier.
func NewNotifier(token, chatID string, opts ...Option) *Notifier {
	n := &Notifier{
		apiURL:    "https://api.telegram.org",
		token:     token,
		chatID:    chatID,
		maxLength: 3900,
		logger:    logger.NewNop(),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.http == nil {
		n.http = pkghttp.NewClient(pkghttp.WithTimeout(30 * time.Second))
	}
	return n
}

// WithAPIURL overrides the Bot API base URL.
func WithAPIURL(url string) Option {
	return func(n *Notifier) {
		n.apiURL = url
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *pkghttp.Client) Option {
	return func(n *Notifier) {
		n.http = client
	}
}

// WithMaxLength caps outgoing message length.
func WithMaxLength(max int) Option {
	return func(n *Notifier) {
		if max > 0 {
			n.maxLength = max
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(n *Notifier) {
		n.logger = log
	}
}

// Send posts an HTML-formatted message to the configured chat. Messages
// longer than the cap are truncated rather than rejected.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if n.token == "" || n.chatID == "" {
		n.logger.Warn("telegram credentials missing, dropping message")
		return nil
	}

	text = truncate(text, n.maxLength)

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token)
	form := map[string]string{
		"chat_id":                  n.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": "true",
	}

	var resp sendMessageResponse
	if err := n.http.PostForm(ctx, url, form, &resp); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram send: %s", resp.Description)
	}
	return nil
}

// truncate caps text at max bytes without splitting a multi-byte rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}

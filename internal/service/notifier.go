package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mattressfit/internal/config"
	"mattressfit/internal/survey"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"
)

var ErrTelegramNotConfigured = errors.New("telegram not configured")

// Notifier delivers a lead to the people who call customers back
type Notifier interface {
	NotifyLead(ctx context.Context, lead survey.Lead) error
}

// TelegramNotifier posts leads to a Telegram chat through the Bot API
type TelegramNotifier struct {
	cfg        config.TelegramConfig
	httpClient *http.Client
	logger     *slog.Logger
	location   *time.Location
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewTelegramNotifier creates a notifier for the configured bot and chat
func NewTelegramNotifier(cfg config.TelegramConfig, logger *slog.Logger) *TelegramNotifier {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		loc = time.FixedZone("EET", 2*60*60)
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &TelegramNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "telegram"),
		location:   loc,
		sleep:      sleepContext,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// NotifyLead formats the lead and sends it, retrying on rate limits, server errors
// and network failures with exponential backoff.
func (n *TelegramNotifier) NotifyLead(ctx context.Context, lead survey.Lead) error {
	if !n.cfg.IsEnabled() {
		return ErrTelegramNotConfigured
	}
	body, err := json.Marshal(telegramMessage{
		ChatID:    n.cfg.ChatID,
		Text:      n.FormatLead(lead),
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		return fmt.Errorf("encode telegram message: %w", err)
	}
	return n.send(ctx, body)
}

func (n *TelegramNotifier) send(ctx context.Context, body []byte) error {
	url := n.cfg.SendMessageEndpoint()

	var lastErr error
	for attempt := 0; attempt < n.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			n.logger.Info("retrying sendMessage", "attempt", attempt+1, "max", n.cfg.MaxRetries)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n.logger.Warn("sendMessage failed", "attempt", attempt+1, "error", err)
			lastErr = err
			if err := n.sleep(ctx, backoff(attempt)); err != nil {
				return err
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		var result telegramResponse
		_ = json.Unmarshal(respBody, &result)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := backoff(attempt)
			if result.Parameters.RetryAfter > 0 {
				wait = time.Duration(result.Parameters.RetryAfter) * time.Second
			}
			n.logger.Warn("rate limited", "attempt", attempt+1, "retry_in", wait)
			lastErr = errors.New("rate limited")
			if err := n.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		case resp.StatusCode >= 500:
			n.logger.Warn("telegram server error", "status", resp.StatusCode, "attempt", attempt+1)
			lastErr = fmt.Errorf("telegram API error %d: %s", resp.StatusCode, result.Description)
			if err := n.sleep(ctx, backoff(attempt)); err != nil {
				return err
			}
			continue
		case resp.StatusCode >= 400:
			n.logger.Error("telegram rejected message", "status", resp.StatusCode, "description", result.Description)
			return fmt.Errorf("telegram API error %d: %s", resp.StatusCode, result.Description)
		}
		return nil
	}

	n.logger.Error("max retries exceeded", "max", n.cfg.MaxRetries, "error", lastErr)
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * 500 * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FormatLead renders the MarkdownV2 message for a lead
func (n *TelegramNotifier) FormatLead(lead survey.Lead) string {
	var b strings.Builder
	b.WriteString("🛏️ *Нова заявка на підбір матрацу*\n\n")
	b.WriteString("👤 *Контактні дані:*\n")
	fmt.Fprintf(&b, "Ім'я: %s\n", EscapeMarkdownV2(lead.Contact.Name))
	fmt.Fprintf(&b, "Телефон: %s\n", EscapeMarkdownV2(lead.Contact.Phone))
	fmt.Fprintf(&b, "Місто: %s\n\n", EscapeMarkdownV2(lead.Contact.City))
	b.WriteString("📋 *Відповіді на опитування:*\n")

	if len(lead.ResolvedAnswers) > 0 {
		for _, a := range lead.ResolvedAnswers {
			fmt.Fprintf(&b, "%s: %s\n", EscapeMarkdownV2(a.QuestionText), EscapeMarkdownV2(a.FinalValue))
		}
	} else {
		keys := make([]string, 0, len(lead.RawAnswers))
		for k := range lead.RawAnswers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", EscapeMarkdownV2(humanizeKey(k)), EscapeMarkdownV2(lead.RawAnswers[k]))
		}
	}

	at := lead.SubmittedAt
	if at.IsZero() {
		at = time.Now()
	}
	fmt.Fprintf(&b, "\n⏰ Дата: %s", EscapeMarkdownV2(at.In(n.location).Format("02.01.2006, 15:04:05")))
	return b.String()
}

const markdownV2Special = "\\_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 backslash-escapes every character Telegram reserves in MarkdownV2
func EscapeMarkdownV2(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownV2Special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// humanizeKey turns adult_1_weight into Adult 1 Weight
func humanizeKey(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

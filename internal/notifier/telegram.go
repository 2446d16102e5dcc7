package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/esports-edge/internal/metrics"
	"github.com/yourusername/esports-edge/internal/selector"
)

// TelegramConfig holds Telegram delivery settings.
type TelegramConfig struct {
	Token         string
	ChatIDs       []int64
	APIEndpoint   string
	RatePerSecond float64
	Timeout       time.Duration
	MaxRetries    int
}

// TelegramNotifier sends every new bet to each configured chat.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	limiter *rate.Limiter
	logger  *logrus.Entry
}

// NewTelegramNotifier connects to the Bot API. Requests go through a retrying
// HTTP client and sends are rate limited across all chats.
func NewTelegramNotifier(cfg TelegramConfig, logger *logrus.Logger) (*TelegramNotifier, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is required")
	}
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.APIEndpoint, retryClient.StandardClient())
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}

	entry := logger.WithField("component", "notifier")
	entry.WithFields(logrus.Fields{
		"bot":   bot.Self.UserName,
		"chats": len(cfg.ChatIDs),
	}).Info("Telegram notifier initialized")

	return &TelegramNotifier{
		bot:     bot,
		chatIDs: cfg.ChatIDs,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		logger:  entry,
	}, nil
}

// Name implements selector.Sink.
func (n *TelegramNotifier) Name() string {
	return "telegram"
}

// Publish sends the new bets, best ROI first. A failed send is logged and
// counted; the first error is returned after every message was attempted.
func (n *TelegramNotifier) Publish(ctx context.Context, result *selector.RunResult) error {
	var firstErr error
	for _, c := range result.Ranked() {
		text := FormatCandidate(c)
		for _, chatID := range n.chatIDs {
			if err := n.send(ctx, chatID, text); err != nil {
				metrics.RecordNotification("failed")
				n.logger.WithError(err).WithFields(logrus.Fields{
					"chat_id": chatID,
					"key":     c.Key(),
				}).Warn("Failed to send bet notification")
				if firstErr == nil {
					firstErr = err
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				continue
			}
			metrics.RecordNotification("sent")
		}
	}
	return firstErr
}

func (n *TelegramNotifier) send(ctx context.Context, chatID int64, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

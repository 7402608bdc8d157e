package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

// UpdateDeduper abstracts the update_id idempotency store (Redis).
type UpdateDeduper interface {
	IsDuplicate(ctx context.Context, updateID int64) (bool, error)
	Mark(ctx context.Context, updateID int64) error
}

const (
	cmdStart = "/start"
	cmdLink  = "/link"
)

type telegramService struct {
	login      ports.LoginService
	groupLinks ports.GroupLinkService
	notifier   ports.Notifier
	dedup      UpdateDeduper
	appBaseURL string
	log        zerolog.Logger
}

// NewTelegramService returns the bot update handler. Replies are queued on
// notifier, never sent inline.
func NewTelegramService(
	login ports.LoginService,
	groupLinks ports.GroupLinkService,
	notifier ports.Notifier,
	dedup UpdateDeduper,
	appBaseURL string,
	log zerolog.Logger,
) ports.TelegramService {
	return &telegramService{
		login:      login,
		groupLinks: groupLinks,
		notifier:   notifier,
		dedup:      dedup,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		log:        log,
	}
}

// HandleUpdate processes one bot update. Returned errors are for logging;
// Telegram always gets an acknowledgement.
func (s *telegramService) HandleUpdate(ctx context.Context, u domain.TelegramUpdate) error {
	// 1. Idempotency check. Telegram redelivers until it sees a 2xx.
	isDup, err := s.dedup.IsDuplicate(ctx, u.UpdateID)
	if err != nil {
		s.log.Warn().Err(err).Int64("update_id", u.UpdateID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Int64("update_id", u.UpdateID).Msg("duplicate update skipped")
		metrics.WebhookUpdatesTotal.WithLabelValues("duplicate").Inc()
		return nil
	}
	if markErr := s.dedup.Mark(ctx, u.UpdateID); markErr != nil {
		s.log.Warn().Err(markErr).Int64("update_id", u.UpdateID).Msg("failed to set dedup key")
	}

	msg := u.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		metrics.WebhookUpdatesTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	cmd, arg := parseCommand(msg.Text)
	switch {
	case cmd == cmdStart && msg.Chat.Type == domain.ChatPrivate:
		metrics.WebhookUpdatesTotal.WithLabelValues("start").Inc()
		return s.handleStart(ctx, msg)
	case cmd == cmdLink && msg.Chat.IsGroup():
		metrics.WebhookUpdatesTotal.WithLabelValues("link").Inc()
		return s.handleLink(ctx, msg, arg)
	default:
		metrics.WebhookUpdatesTotal.WithLabelValues("ignored").Inc()
		return nil
	}
}

func (s *telegramService) handleStart(ctx context.Context, msg *domain.TelegramMessage) error {
	from := msg.From
	res, err := s.login.LoginWithExternalIdentity(ctx, domain.ExternalIdentity{
		ExternalID: strconv.FormatInt(from.ID, 10),
		FirstName:  from.FirstName,
		LastName:   from.LastName,
		Username:   from.Username,
	}, false)
	if err != nil {
		s.notifier.Enqueue(domain.OutboundMessage{
			ChatID: msg.Chat.ID,
			Text:   "Не удалось войти. Попробуйте ещё раз через минуту.",
		})
		return fmt.Errorf("bot login: %w", err)
	}

	userLabel := "existing"
	greeting := "С возвращением"
	if res.Created {
		userLabel = "new"
		greeting = "Добро пожаловать в Fineko"
	}
	metrics.LoginsTotal.WithLabelValues("bot", userLabel).Inc()

	s.notifier.Enqueue(domain.OutboundMessage{
		ChatID: msg.Chat.ID,
		Text:   fmt.Sprintf("%s, %s! Нажмите кнопку, чтобы войти. Ссылка действует 5 минут.", greeting, res.User.FirstName),
		Buttons: []domain.LinkButton{{
			Text: "Войти в Fineko",
			URL:  s.loginURL(res.TempToken),
		}},
	})
	return nil
}

func (s *telegramService) handleLink(ctx context.Context, msg *domain.TelegramMessage, code string) error {
	company, err := s.groupLinks.LinkChat(ctx, code, msg.Chat.ID)
	if err != nil {
		text := "Не удалось привязать группу. Попробуйте ещё раз."
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			text = "Код недействителен или устарел. Получите новый код в настройках компании."
		}
		s.notifier.Enqueue(domain.OutboundMessage{ChatID: msg.Chat.ID, Text: text})
		return fmt.Errorf("link group: %w", err)
	}

	s.notifier.Enqueue(domain.OutboundMessage{
		ChatID: msg.Chat.ID,
		Text:   fmt.Sprintf("Группа привязана к компании «%s».", company.Name),
	})
	return nil
}

func (s *telegramService) loginURL(tempToken string) string {
	return s.appBaseURL + "/auth/telegram?token=" + url.QueryEscape(tempToken)
}

// parseCommand splits "/cmd@Bot arg" into "/cmd" and "arg".
func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, arg, _ = strings.Cut(text, " ")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

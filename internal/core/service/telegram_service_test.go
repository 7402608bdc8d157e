package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/infrastructure/db/memory"
)

type brokenDeduper struct{}

func (brokenDeduper) IsDuplicate(context.Context, int64) (bool, error) {
	return false, errors.New("redis down")
}
func (brokenDeduper) Mark(context.Context, int64) error { return errors.New("redis down") }

func newTelegramService(h *harness, dedup UpdateDeduper) (*telegramService, *recordingNotifier) {
	n := &recordingNotifier{}
	svc := NewTelegramService(h.login, h.links, n, dedup, "https://app.fineko.example/", zerolog.Nop())
	return svc.(*telegramService), n
}

func startUpdate(id int64) domain.TelegramUpdate {
	return domain.TelegramUpdate{
		UpdateID: id,
		Message: &domain.TelegramMessage{
			MessageID: 1,
			From:      &domain.TelegramUser{ID: 12345, FirstName: "Ivan"},
			Chat:      domain.TelegramChat{ID: 12345, Type: domain.ChatPrivate},
			Text:      "/start",
		},
	}
}

func TestTelegramService_StartSendsLoginLink(t *testing.T) {
	h := newHarness(t)
	svc, n := newTelegramService(h, memory.NewDeduper())

	if err := svc.HandleUpdate(context.Background(), startUpdate(1)); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}
	if len(n.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(n.msgs))
	}
	msg := n.msgs[0]
	if msg.ChatID != 12345 || len(msg.Buttons) != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}

	link, err := url.Parse(msg.Buttons[0].URL)
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	if link.Host != "app.fineko.example" || link.Path != "/auth/telegram" {
		t.Fatalf("unexpected link: %s", msg.Buttons[0].URL)
	}
	tempToken := link.Query().Get("token")
	sess, err := h.sessions.Resolve(context.Background(), tempToken)
	if err != nil {
		t.Fatalf("link token does not resolve: %v", err)
	}
	if sess.RememberMe {
		t.Fatalf("bot login must not set rememberMe")
	}

	user, err := h.db.Users().FindByTelegramID(context.Background(), "12345")
	if err != nil || user.FirstName != "Ivan" {
		t.Fatalf("user not created: %+v %v", user, err)
	}
}

func TestTelegramService_DuplicateUpdateIgnored(t *testing.T) {
	h := newHarness(t)
	svc, n := newTelegramService(h, memory.NewDeduper())

	_ = svc.HandleUpdate(context.Background(), startUpdate(7))
	_ = svc.HandleUpdate(context.Background(), startUpdate(7))
	if len(n.msgs) != 1 {
		t.Fatalf("expected redelivery to be skipped, got %d messages", len(n.msgs))
	}
}

func TestTelegramService_DedupFailureProcessesAnyway(t *testing.T) {
	h := newHarness(t)
	svc, n := newTelegramService(h, brokenDeduper{})

	if err := svc.HandleUpdate(context.Background(), startUpdate(1)); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}
	if len(n.msgs) != 1 {
		t.Fatalf("expected message despite dedup failure")
	}
}

func TestTelegramService_IgnoresNoise(t *testing.T) {
	h := newHarness(t)
	svc, n := newTelegramService(h, memory.NewDeduper())

	updates := []domain.TelegramUpdate{
		{UpdateID: 1},
		{UpdateID: 2, Message: &domain.TelegramMessage{Chat: domain.TelegramChat{ID: 1, Type: domain.ChatPrivate}, Text: "/start"}},
		{UpdateID: 3, Message: &domain.TelegramMessage{From: &domain.TelegramUser{ID: 1, IsBot: true}, Chat: domain.TelegramChat{ID: 1, Type: domain.ChatPrivate}, Text: "/start"}},
		{UpdateID: 4, Message: &domain.TelegramMessage{From: &domain.TelegramUser{ID: 1}, Chat: domain.TelegramChat{ID: 1, Type: domain.ChatPrivate}, Text: "hello"}},
		{UpdateID: 5, Message: &domain.TelegramMessage{From: &domain.TelegramUser{ID: 1}, Chat: domain.TelegramChat{ID: -5, Type: domain.ChatGroup}, Text: "/start"}},
	}
	for _, u := range updates {
		if err := svc.HandleUpdate(context.Background(), u); err != nil {
			t.Fatalf("update %d: %v", u.UpdateID, err)
		}
	}
	if len(n.msgs) != 0 {
		t.Fatalf("expected no replies, got %+v", n.msgs)
	}
}

func TestTelegramService_LinkGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)
	acme, _ := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme")
	code, _ := h.links.CreateLinkCode(ctx, login.User.ID, acme.Company.ID)
	svc, n := newTelegramService(h, memory.NewDeduper())

	err := svc.HandleUpdate(ctx, domain.TelegramUpdate{
		UpdateID: 10,
		Message: &domain.TelegramMessage{
			From: &domain.TelegramUser{ID: 12345, FirstName: "Ivan"},
			Chat: domain.TelegramChat{ID: -100200, Type: domain.ChatSupergroup},
			Text: "/link@FinekoBot " + code.ID,
		},
	})
	if err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}

	company, _ := h.db.Companies().FindByID(ctx, acme.Company.ID)
	if company.TelegramChatID != -100200 {
		t.Fatalf("group not linked")
	}
	if len(n.msgs) != 1 || !strings.Contains(n.msgs[0].Text, "Acme") {
		t.Fatalf("expected confirmation, got %+v", n.msgs)
	}
}

func TestTelegramService_LinkBadCodeReplies(t *testing.T) {
	h := newHarness(t)
	svc, n := newTelegramService(h, memory.NewDeduper())

	err := svc.HandleUpdate(context.Background(), domain.TelegramUpdate{
		UpdateID: 11,
		Message: &domain.TelegramMessage{
			From: &domain.TelegramUser{ID: 1, FirstName: "A"},
			Chat: domain.TelegramChat{ID: -100300, Type: domain.ChatGroup},
			Text: "/link deadbeef",
		},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(n.msgs) != 1 || n.msgs[0].ChatID != -100300 {
		t.Fatalf("expected an error reply to the group, got %+v", n.msgs)
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in, cmd, arg string
	}{
		{"/start", "/start", ""},
		{"  /START payload ", "/start", "payload"},
		{"/link@FinekoBot abc", "/link", "abc"},
		{"hello", "", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		cmd, arg := parseCommand(c.in)
		if cmd != c.cmd || arg != c.arg {
			t.Fatalf("parseCommand(%q) = %q, %q; want %q, %q", c.in, cmd, arg, c.cmd, c.arg)
		}
	}
}

package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-uid-keeper/internal/domain/ports/adapter"
	red "telegram-uid-keeper/internal/infra/redis"
)

type cbHandler func(ctx context.Context, userID, chatID int64, data string) error

type prefixCB struct {
	Prefix string
	Fn     cbHandler
}

// Exact-match callbacks
func (r *RealBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"menu:main":   r.menuCBRoute,
		"menu:help":   r.helpCBRoute,
		"menu:getid":  r.getIDCBRoute,
		"menu:stats":  r.statsCBRoute,
		"menu:export": r.exportCBRoute,
	}
}

// Prefix-match callbacks
func (r *RealBotAdapter) cbPrefixRoutes() []prefixCB {
	return []prefixCB{
		{Prefix: "del:", Fn: r.deletePrefixCBRoute},
	}
}

func (r *RealBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop the telegram spinner when we return.
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	userID := query.From.ID
	chatID := userID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}

	data := strings.TrimSpace(query.Data)

	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(userID, "cb:"+data), 30, time.Minute); err == nil && !allowed {
			return r.SendMessage(ctx, chatID, "Too many requests. Slow down a little.")
		}
	}

	if fn, ok := r.cbRoutes()[data]; ok {
		return fn(ctx, userID, chatID, data)
	}
	for _, pr := range r.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, userID, chatID, data)
		}
	}
	return errors.New("unknown callback data: " + data)
}

// sendMainMenu shows the main actions as inline buttons; admins get the
// stats/export row on top of the common ones.
func (r *RealBotAdapter) sendMainMenu(ctx context.Context, userID, chatID int64, intro string) error {
	rows := [][]adapter.InlineButton{
		{{Text: "❓ Help", Data: "menu:help"}},
		{{Text: "🆔 My IDs", Data: "menu:getid"}},
	}
	if r.facade.IsAdmin(userID) {
		rows = append(rows,
			[]adapter.InlineButton{{Text: "📊 Stats", Data: "menu:stats"}},
			[]adapter.InlineButton{{Text: "📄 Export CSV", Data: "menu:export"}},
		)
	}
	if strings.TrimSpace(intro) == "" {
		intro = "Choose an action:"
	}
	return r.SendButtons(ctx, chatID, intro, rows)
}

func (r *RealBotAdapter) menuCBRoute(ctx context.Context, userID, chatID int64, _ string) error {
	return r.sendMainMenu(ctx, userID, chatID, "Choose an action:")
}

func (r *RealBotAdapter) helpCBRoute(ctx context.Context, userID, chatID int64, _ string) error {
	return r.SendMessage(ctx, chatID, r.facade.HandleHelp(r.facade.IsAdmin(userID)))
}

func (r *RealBotAdapter) getIDCBRoute(ctx context.Context, userID, chatID int64, _ string) error {
	return r.SendMessage(ctx, chatID, r.facade.HandleGetID(chatID, userID))
}

func (r *RealBotAdapter) statsCBRoute(ctx context.Context, userID, chatID int64, _ string) error {
	text, err := r.facade.HandleStats(ctx, userID)
	if err != nil {
		text = r.facade.ReplyForError(err)
	}
	return r.SendMessage(ctx, chatID, text)
}

func (r *RealBotAdapter) exportCBRoute(ctx context.Context, userID, chatID int64, _ string) error {
	doc, err := r.facade.HandleExport(ctx, userID)
	if err != nil {
		return r.SendMessage(ctx, chatID, r.facade.ReplyForError(err))
	}
	return r.SendDocument(ctx, chatID, *doc)
}

// deletePrefixCBRoute handles the delete button shown under /check results.
func (r *RealBotAdapter) deletePrefixCBRoute(ctx context.Context, userID, chatID int64, data string) error {
	uid := strings.TrimPrefix(data, "del:")
	text, err := r.facade.HandleDelete(ctx, userID, uid)
	if err != nil {
		text = r.facade.ReplyForError(err)
	}
	return r.SendMessage(ctx, chatID, text)
}

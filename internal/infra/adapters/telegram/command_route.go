package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/ports/adapter"
	"telegram-uid-keeper/internal/infra/logging"
	"telegram-uid-keeper/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes maps every bot command to its handler. Admin checks live in
// the facade, so a denied call never reaches the store.
func (r *RealBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":     r.handleStartCommand,
		"help":      r.handleHelpCommand,
		"getid":     r.handleGetIDCommand,
		"save":      r.handleSaveCommand,
		"find":      r.handleFindCommand,
		"check":     r.handleCheckCommand,
		"checkinfo": r.handleCheckInfoCommand,
		"photo":     r.handlePhotoCommand,
		"delete":    r.handleDeleteCommand,
		"deleteall": r.handleDeleteAllCommand,
		"export":    r.handleExportCommand,
		"stats":     r.handleStatsCommand,
		"notify":    r.handleNotifyCommand,
		"setnotice": r.handleSetNoticeCommand,
	}
}

// replyOrError sends the handler's reply, or the taxonomy-mapped error text.
func (r *RealBotAdapter) replyOrError(ctx context.Context, message *tgbotapi.Message, reply string, err error) error {
	cmd := "/" + message.Command()
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPermissionDenied):
			metrics.IncCommand(cmd, "denied")
		default:
			metrics.IncCommand(cmd, "error")
			logging.With(ctx, r.log).Warn().Err(err).Str("command", cmd).Msg("command failed")
		}
		return r.SendMessage(ctx, message.Chat.ID, r.facade.ReplyForError(err))
	}
	metrics.IncCommand(cmd, "ok")
	if reply == "" {
		return nil
	}
	return r.SendMessage(ctx, message.Chat.ID, reply)
}

func (r *RealBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncCommand("/start", "ok")
	return r.sendMainMenu(ctx, message.From.ID, message.Chat.ID, r.facade.HandleStart())
}

func (r *RealBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncCommand("/help", "ok")
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleHelp(r.facade.IsAdmin(message.From.ID)))
}

func (r *RealBotAdapter) handleGetIDCommand(ctx context.Context, message *tgbotapi.Message) error {
	metrics.IncCommand("/getid", "ok")
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleGetID(message.Chat.ID, message.From.ID))
}

func (r *RealBotAdapter) handleSaveCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleSave(ctx, message.From.ID, message.Chat.ID, message.CommandArguments())
	return r.replyOrError(ctx, message, reply, err)
}

func (r *RealBotAdapter) handleFindCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleFind(ctx, message.CommandArguments())
	return r.replyOrError(ctx, message, reply, err)
}

func (r *RealBotAdapter) handleCheckCommand(ctx context.Context, message *tgbotapi.Message) error {
	uid := strings.TrimSpace(message.CommandArguments())
	reply, err := r.facade.HandleCheck(ctx, uid)
	if err != nil {
		return r.replyOrError(ctx, message, "", err)
	}
	metrics.IncCommand("/check", "ok")
	// Admins get a one-tap delete under a positive hit.
	if reply == "Already saved." && r.facade.IsAdmin(message.From.ID) {
		rows := [][]adapter.InlineButton{{{Text: "🗑 Delete " + uid, Data: "del:" + uid}}}
		return r.SendButtons(ctx, message.Chat.ID, reply, rows)
	}
	return r.SendMessage(ctx, message.Chat.ID, reply)
}

func (r *RealBotAdapter) handleCheckInfoCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleCheckInfo(ctx, message.CommandArguments())
	return r.replyOrError(ctx, message, reply, err)
}

func (r *RealBotAdapter) handlePhotoCommand(ctx context.Context, message *tgbotapi.Message) error {
	caption, url, err := r.facade.HandlePhoto(ctx, message.CommandArguments())
	if err != nil {
		return r.replyOrError(ctx, message, "", err)
	}
	if url == "" {
		return r.replyOrError(ctx, message, caption, nil)
	}
	metrics.IncCommand("/photo", "ok")
	return r.SendPhotoURL(ctx, message.Chat.ID, caption, url)
}

func (r *RealBotAdapter) handleDeleteCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleDelete(ctx, message.From.ID, message.CommandArguments())
	return r.replyOrError(ctx, message, reply, err)
}

func (r *RealBotAdapter) handleDeleteAllCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleDeleteAll(ctx, message.From.ID, message.Chat.ID)
	return r.replyOrError(ctx, message, reply, err)
}

func (r *RealBotAdapter) handleExportCommand(ctx context.Context, message *tgbotapi.Message) error {
	doc, err := r.facade.HandleExport(ctx, message.From.ID)
	if err != nil {
		return r.replyOrError(ctx, message, "", err)
	}
	metrics.IncCommand("/export", "ok")
	return r.SendDocument(ctx, message.Chat.ID, *doc)
}

func (r *RealBotAdapter) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleStats(ctx, message.From.ID)
	return r.replyOrError(ctx, message, reply, err)
}

func (r *RealBotAdapter) handleNotifyCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleNotify(ctx, message.From.ID, message.Chat.ID, message.CommandArguments())
	return r.replyOrError(ctx, message, reply, err)
}

func (r *RealBotAdapter) handleSetNoticeCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply, err := r.facade.HandleSetNotice(ctx, message.From.ID, message.Chat.ID, message.CommandArguments())
	return r.replyOrError(ctx, message, reply, err)
}

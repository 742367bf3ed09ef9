package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-uid-keeper/internal/application"
	"telegram-uid-keeper/internal/config"
	"telegram-uid-keeper/internal/domain/ports/adapter"
	"telegram-uid-keeper/internal/infra/logging"
	"telegram-uid-keeper/internal/infra/metrics"
	red "telegram-uid-keeper/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealBotAdapter)(nil)

// RealBotAdapter polls Telegram updates with tgbotapi and delegates command
// handling to the BotFacade. Updates are fanned out to a small worker pool so
// one slow Graph lookup cannot stall the whole chat.
type RealBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go r.runWorker(ctx, i, updateChan, &wg)
	}

	r.log.Info().Int("workers", r.updateWorkers).Msg("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

// runWorker drains updates until the context is cancelled or the channel is
// closed. The close check matters: after shutdown closes the channel, a bare
// receive would hand out zero-value updates until ctx.Done wins the select.
func (r *RealBotAdapter) runWorker(ctx context.Context, id int, updates <-chan tgbotapi.Update, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case up, ok := <-updates:
			if !ok {
				return
			}
			if err := r.handleUpdate(ctx, up); err != nil {
				r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
			}
		}
	}
}

func (r *RealBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	ctx = logging.WithTraceID(ctx, uuid.NewString())

	if update.CallbackQuery != nil {
		metrics.IncUpdate("callback")
		return r.handleQuery(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	ctx = logging.WithChatID(ctx, chatID)
	ctx = logging.WithTgID(ctx, userID)

	if msg.IsCommand() {
		metrics.IncUpdate("command")
		cmd := msg.Command()

		if r.rateLimiter != nil {
			allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(userID, "/"+cmd), 20, time.Minute)
			if err != nil {
				r.log.Warn().Err(err).Msg("rate limiter unavailable, allowing")
			} else if !allowed {
				return r.SendMessage(ctx, chatID, "Too many requests. Slow down a little.")
			}
		}

		handler, ok := r.commandRoutes()[cmd]
		if !ok {
			metrics.IncCommand("/"+cmd, "unknown")
			return r.SendMessage(ctx, chatID, "Unknown command. Try /help.")
		}
		return handler(ctx, msg)
	}

	// Plain text: scan it for Facebook links worth saving.
	metrics.IncUpdate("message")
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}
	reply, err := r.facade.HandleAutoDetect(ctx, userID, chatID, msg.Text)
	if err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("auto-detect failed")
		return r.SendMessage(ctx, chatID, r.facade.ReplyForError(err))
	}
	if reply != "" {
		return r.SendMessage(ctx, chatID, reply)
	}
	return nil
}

func (r *RealBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with an inline keyboard. URL buttons open a
// link, Data buttons post callback data; an empty button falls back to its
// label as callback data.
func (r *RealBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kbRow = append(kbRow, kb)
		}
		kbRows = append(kbRows, kbRow)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBotAdapter) SendDocument(ctx context.Context, chatID int64, doc adapter.Document) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	file := tgbotapi.FileBytes{Name: doc.Name, Bytes: doc.Bytes}
	_, err := r.bot.Send(tgbotapi.NewDocument(chatID, file))
	return err
}

func (r *RealBotAdapter) SendPhotoURL(ctx context.Context, chatID int64, caption, url string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	_, err := r.bot.Send(photo)
	return err
}

package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/model"
	"telegram-uid-keeper/internal/domain/ports/adapter"
	"telegram-uid-keeper/internal/fblink"
	"telegram-uid-keeper/internal/infra/metrics"
	"telegram-uid-keeper/internal/usecase"

	"github.com/rs/zerolog"
)

// BotFacade composes usecases into high-level bot commands and enforces the
// admin allow-list for mutating/export commands. Methods return reply
// strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	RecordUC   usecase.RecordUseCase
	SettingsUC usecase.SettingsUseCase
	LookupUC   usecase.LookupUseCase
	StatsUC    usecase.StatsUseCase

	admins map[int64]struct{}
	log    *zerolog.Logger
}

func NewBotFacade(
	recordUC usecase.RecordUseCase,
	settingsUC usecase.SettingsUseCase,
	lookupUC usecase.LookupUseCase,
	statsUC usecase.StatsUseCase,
	adminIDs []int64,
	logger *zerolog.Logger,
) *BotFacade {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &BotFacade{
		RecordUC:   recordUC,
		SettingsUC: settingsUC,
		LookupUC:   lookupUC,
		StatsUC:    statsUC,
		admins:     admins,
		log:        logger,
	}
}

func (b *BotFacade) IsAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}

func (b *BotFacade) requireAdmin(userID int64) error {
	if !b.IsAdmin(userID) {
		return domain.ErrPermissionDenied
	}
	return nil
}

// ReplyForError converts the error taxonomy into a user-facing reply.
// Called at the dispatcher boundary; nothing here crashes the process.
func (b *BotFacade) ReplyForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return "🚫 This command is for admins only."
	case errors.Is(err, domain.ErrInvalidArgument):
		return "Invalid input. Expecting a numeric UID or a Facebook link."
	case errors.Is(err, domain.ErrLookupFailed):
		return "Could not resolve that Facebook profile. Try again later."
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	case domain.IsStorageError(err):
		return "Storage is unavailable right now. Try again later."
	default:
		return "Something went wrong. Try again later."
	}
}

func (b *BotFacade) HandleStart() string {
	return "Hi! Send me a Facebook link and I will save its UID.\nUse /help to see all commands."
}

func (b *BotFacade) HandleHelp(isAdmin bool) string {
	sb := strings.Builder{}
	sb.WriteString("Commands:\n")
	sb.WriteString("/save <uid>[|note] - save a UID\n")
	sb.WriteString("/find <text> - search saved UIDs\n")
	sb.WriteString("/check <uid> - is this UID saved?\n")
	sb.WriteString("/checkinfo <uid-or-link> - resolve profile info\n")
	sb.WriteString("/photo <uid> - profile picture\n")
	sb.WriteString("/getid - show your chat and user id\n")
	if isAdmin {
		sb.WriteString("\nAdmin:\n")
		sb.WriteString("/delete <uid> - remove a UID\n")
		sb.WriteString("/deleteall - remove every UID saved in this chat\n")
		sb.WriteString("/export - CSV export of all records\n")
		sb.WriteString("/stats - record statistics\n")
		sb.WriteString("/notify on|off - auto-save confirmations\n")
		sb.WriteString("/setnotice <text> - custom confirmation text (%s = saved UIDs)\n")
	}
	return sb.String()
}

func (b *BotFacade) HandleGetID(chatID, userID int64) string {
	return fmt.Sprintf("Chat id: %d\nUser id: %d", chatID, userID)
}

// HandleSave serves /save <uid>[|note] and also accepts a Facebook link in
// place of the raw UID.
func (b *BotFacade) HandleSave(ctx context.Context, userID, chatID int64, args string) (string, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "Usage: /save <uid> or /save <uid>|<note>", nil
	}
	raw, note := args, ""
	if i := strings.IndexByte(args, '|'); i >= 0 {
		raw, note = strings.TrimSpace(args[:i]), strings.TrimSpace(args[i+1:])
	}

	uid := raw
	source := ""
	if !fblink.IsNumeric(raw) {
		resolved, err := b.LookupUC.Resolve(ctx, raw)
		if err != nil {
			return "", err
		}
		uid, source = resolved, raw
	}

	rec, created, err := b.RecordUC.Save(ctx, uid, userID, chatID, note, source)
	if err != nil {
		return "", err
	}
	metrics.IncUIDSave("command", created)
	if !created {
		return fmt.Sprintf("UID %s is already saved (since %s).", rec.UID, rec.CreatedAt.Format("2006-01-02")), nil
	}
	return fmt.Sprintf("✅ Saved UID: %s", rec.UID), nil
}

func (b *BotFacade) HandleFind(ctx context.Context, args string) (string, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "Usage: /find <text>", nil
	}
	recs, err := b.RecordUC.Search(ctx, args)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "No results.", nil
	}
	sb := strings.Builder{}
	for _, r := range recs {
		note := r.Note
		if note == "" {
			note = "-"
		}
		sb.WriteString(fmt.Sprintf("%s — %s (saved %s)\n", r.UID, note, r.CreatedAt.Format("2006-01-02 15:04")))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (b *BotFacade) HandleCheck(ctx context.Context, args string) (string, error) {
	uid := strings.TrimSpace(args)
	if uid == "" {
		return "Usage: /check <uid>", nil
	}
	ok, err := b.RecordUC.Exists(ctx, uid)
	if err != nil {
		return "", err
	}
	if ok {
		return "Already saved.", nil
	}
	return "Not saved yet.", nil
}

// HandleCheckInfo resolves a UID or link and shows basic profile info.
func (b *BotFacade) HandleCheckInfo(ctx context.Context, args string) (string, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "Usage: /checkinfo <uid-or-link>", nil
	}
	uid, err := b.LookupUC.Resolve(ctx, args)
	if err != nil {
		return "", err
	}
	p, err := b.LookupUC.Profile(ctx, uid)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ID: %s\nName: %s", p.ID, p.Name), nil
}

// HandlePhoto returns a caption and picture URL for /photo <uid>. When the
// Graph profile is unavailable it falls back to the tokenless avatar URL.
func (b *BotFacade) HandlePhoto(ctx context.Context, args string) (caption, photoURL string, err error) {
	uid := strings.TrimSpace(args)
	if uid == "" {
		return "Usage: /photo <uid>", "", nil
	}
	if !fblink.IsNumeric(uid) {
		return "", "", domain.ErrInvalidArgument
	}
	if p, perr := b.LookupUC.Profile(ctx, uid); perr == nil && p.PictureURL != "" {
		return "Name: " + p.Name, p.PictureURL, nil
	}
	return "", b.LookupUC.PictureURL(uid), nil
}

func (b *BotFacade) HandleDelete(ctx context.Context, userID int64, args string) (string, error) {
	if err := b.requireAdmin(userID); err != nil {
		return "", err
	}
	uid := strings.TrimSpace(args)
	if uid == "" {
		return "Usage: /delete <uid>", nil
	}
	removed, err := b.RecordUC.Delete(ctx, uid)
	if err != nil {
		return "", err
	}
	if !removed {
		return "UID not found.", nil
	}
	return "🗑 Deleted.", nil
}

func (b *BotFacade) HandleDeleteAll(ctx context.Context, userID, chatID int64) (string, error) {
	if err := b.requireAdmin(userID); err != nil {
		return "", err
	}
	removed, err := b.RecordUC.DeleteAll(ctx, chatID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑 Removed %d UIDs saved in this chat.", removed), nil
}

// HandleExport renders the whole store as a CSV document. Admin-only; the
// store is never touched for non-admin callers.
func (b *BotFacade) HandleExport(ctx context.Context, userID int64) (*adapter.Document, error) {
	if err := b.requireAdmin(userID); err != nil {
		return nil, err
	}
	data, err := b.RecordUC.ExportCSV(ctx)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("uids_%s.csv", time.Now().UTC().Format("20060102_150405"))
	return &adapter.Document{Name: name, Bytes: data}, nil
}

func (b *BotFacade) HandleStats(ctx context.Context, userID int64) (string, error) {
	if err := b.requireAdmin(userID); err != nil {
		return "", err
	}
	s, err := b.StatsUC.Overview(ctx)
	if err != nil {
		return "", err
	}
	last := "-"
	if !s.LastSavedAt.IsZero() {
		last = s.LastSavedAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("Total UIDs: %d\nLast saved: %s", s.TotalRecords, last), nil
}

func (b *BotFacade) HandleNotify(ctx context.Context, userID, chatID int64, args string) (string, error) {
	if err := b.requireAdmin(userID); err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on":
		if _, err := b.SettingsUC.SetNotify(ctx, chatID, true); err != nil {
			return "", err
		}
		return "🔔 Auto-save confirmations enabled.", nil
	case "off":
		if _, err := b.SettingsUC.SetNotify(ctx, chatID, false); err != nil {
			return "", err
		}
		return "🔕 Auto-save confirmations disabled.", nil
	default:
		return "Usage: /notify on|off", nil
	}
}

func (b *BotFacade) HandleSetNotice(ctx context.Context, userID, chatID int64, args string) (string, error) {
	if err := b.requireAdmin(userID); err != nil {
		return "", err
	}
	if _, err := b.SettingsUC.SetNotificationText(ctx, chatID, args); err != nil {
		return "", err
	}
	return "Notification text updated.", nil
}

// HandleAutoDetect scans a plain message for Facebook links, saves every UID
// it can extract or resolve, and returns the confirmation reply (empty when
// nothing was saved or confirmations are off for the chat).
func (b *BotFacade) HandleAutoDetect(ctx context.Context, userID, chatID int64, text string) (string, error) {
	links := fblink.FindLinks(text)
	if len(links) == 0 {
		return "", nil
	}

	var saved []string
	for _, link := range links {
		uid, err := b.LookupUC.Resolve(ctx, link)
		if err != nil {
			// A link the Graph cannot resolve is not worth a reply.
			continue
		}
		_, created, err := b.RecordUC.Save(ctx, uid, userID, chatID, "", link)
		if err != nil {
			return "", err
		}
		metrics.IncUIDSave("autodetect", created)
		if created {
			saved = append(saved, uid)
		}
	}
	if len(saved) == 0 {
		return "", nil
	}

	settings, err := b.SettingsUC.Get(ctx, chatID)
	if err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("settings lookup failed, using defaults")
		settings = model.DefaultChatSettings(chatID)
	}
	if !settings.NotifyEnabled {
		return "", nil
	}
	joined := strings.Join(saved, ", ")
	if settings.NotificationText != "" {
		// Plain substitution, not Sprintf: the text is user-supplied and may
		// contain stray verbs that Sprintf would mangle.
		return strings.Replace(settings.NotificationText, "%s", joined, 1), nil
	}
	return "Auto-saved UIDs: " + joined, nil
}

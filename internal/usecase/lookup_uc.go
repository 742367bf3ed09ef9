package usecase

import (
	"context"
	"strings"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/ports/adapter"
	"telegram-uid-keeper/internal/fblink"
	"telegram-uid-keeper/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ LookupUseCase = (*lookupUC)(nil)

// LookupUseCase turns links, slugs or raw UIDs into resolved profile data.
type LookupUseCase interface {
	Resolve(ctx context.Context, input string) (string, error)
	Profile(ctx context.Context, uid string) (*adapter.Profile, error)
	PictureURL(uid string) string
}

type lookupUC struct {
	fb  adapter.FacebookResolver
	log *zerolog.Logger
}

func NewLookupUseCase(fb adapter.FacebookResolver, logger *zerolog.Logger) *lookupUC {
	return &lookupUC{fb: fb, log: logger}
}

// Resolve prefers the cheap path: a UID encoded directly in the input needs
// no network call. Only vanity links go out to the Graph API.
func (u *lookupUC) Resolve(ctx context.Context, input string) (string, error) {
	defer logging.TraceDuration(u.log, "LookupUC.Resolve")()

	input = strings.TrimSpace(input)
	if input == "" {
		return "", domain.ErrInvalidArgument
	}
	if fblink.IsNumeric(input) {
		return input, nil
	}
	if uid, ok := fblink.Extract(input); ok {
		return uid, nil
	}
	uid, err := u.fb.ResolveID(ctx, input)
	if err != nil {
		u.log.Warn().Err(err).Str("input", input).Msg("graph resolve failed")
		return "", err
	}
	return uid, nil
}

func (u *lookupUC) Profile(ctx context.Context, uid string) (*adapter.Profile, error) {
	defer logging.TraceDuration(u.log, "LookupUC.Profile")()
	return u.fb.Profile(ctx, uid)
}

func (u *lookupUC) PictureURL(uid string) string {
	return u.fb.PictureURL(uid)
}

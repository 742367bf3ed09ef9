package adapter

import "context"

// Profile is the subset of Graph API profile fields the bot shows.
type Profile struct {
	ID         string
	Name       string
	PictureURL string
}

// FacebookResolver resolves Facebook URLs/slugs to numeric UIDs and fetches
// basic profile info. Implementations make at most one HTTP call per method
// and must respect the context deadline; a failed call maps to
// domain.ErrLookupFailed, never a retry.
type FacebookResolver interface {
	ResolveID(ctx context.Context, urlOrSlug string) (string, error)
	Profile(ctx context.Context, uid string) (*Profile, error)
	PictureURL(uid string) string
}

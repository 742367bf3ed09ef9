package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"telegram-uid-keeper/internal/config"
	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/ports/adapter"
	"telegram-uid-keeper/internal/fblink"
	"telegram-uid-keeper/internal/infra/metrics"
)

var _ adapter.FacebookResolver = (*GraphClient)(nil)

// GraphClient resolves profile URLs and fetches basic profile info through
// the Facebook Graph API. Without an access token it degrades to pure
// pattern matching: numeric ids still resolve, vanity names do not.
type GraphClient struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

func NewGraphClient(cfg *config.FacebookConfig) (*GraphClient, error) {
	if cfg == nil {
		return nil, errors.New("facebook config is nil")
	}
	base := strings.TrimRight(cfg.GraphURL, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid graph url: %w", err)
	}
	return &GraphClient{
		accessToken: cfg.AccessToken,
		baseURL:     base,
		client:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ResolveID maps a Facebook URL or slug to a numeric UID. One attempt, no
// retries; any transport or API failure surfaces as domain.ErrLookupFailed.
func (g *GraphClient) ResolveID(ctx context.Context, urlOrSlug string) (string, error) {
	slug := fblink.Slug(urlOrSlug)
	if slug == "" {
		slug = strings.TrimSpace(urlOrSlug)
	}
	if fblink.IsNumeric(slug) {
		return slug, nil
	}
	if g.accessToken == "" {
		// No token: vanity names cannot be resolved.
		return "", domain.ErrLookupFailed
	}

	q := url.Values{}
	q.Set("id", urlOrSlug)
	q.Set("access_token", g.accessToken)

	var out struct {
		ID string `json:"id"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/?"+q.Encode(), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", domain.ErrLookupFailed
	}
	return out.ID, nil
}

// Profile fetches id, name and a large profile picture for uid.
func (g *GraphClient) Profile(ctx context.Context, uid string) (*adapter.Profile, error) {
	if g.accessToken == "" {
		return nil, domain.ErrLookupFailed
	}
	q := url.Values{}
	q.Set("access_token", g.accessToken)
	q.Set("fields", "id,name,picture.width(800).height(800)")

	var out struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/"+url.PathEscape(uid)+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, domain.ErrLookupFailed
	}
	return &adapter.Profile{ID: out.ID, Name: out.Name, PictureURL: out.Picture.Data.URL}, nil
}

// PictureURL is the tokenless fallback avatar endpoint.
func (g *GraphClient) PictureURL(uid string) string {
	return fmt.Sprintf("%s/%s/picture?type=large", g.baseURL, url.PathEscape(uid))
}

func (g *GraphClient) getJSON(ctx context.Context, u string, out any) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	resp, err := g.client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		metrics.ObserveGraphLookup(latency, false)
		return fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveGraphLookup(latency, false)
		return fmt.Errorf("%w: graph returned %d", domain.ErrLookupFailed, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ObserveGraphLookup(latency, false)
		return fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	metrics.ObserveGraphLookup(latency, true)
	return nil
}

package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"telegram-uid-keeper/internal/domain"
	"telegram-uid-keeper/internal/domain/model"
	"telegram-uid-keeper/internal/domain/ports/adapter"
	"telegram-uid-keeper/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memRecordRepo is a small in-memory RecordRepository used by unit tests.
type memRecordRepo struct {
	mu      sync.RWMutex
	order   []string
	store   map[string]*model.UIDRecord
	saveErr error // simulate storage failures
	findErr error
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{store: make(map[string]*model.UIDRecord)}
}

func (m *memRecordRepo) Save(ctx context.Context, rec *model.UIDRecord) (*model.UIDRecord, bool, error) {
	if m.saveErr != nil {
		return nil, false, m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.store[rec.UID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	cp := *rec
	m.store[rec.UID] = &cp
	m.order = append(m.order, rec.UID)
	return rec, true, nil
}

func (m *memRecordRepo) Find(ctx context.Context, uid string) (*model.UIDRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRecordRepo) Delete(ctx context.Context, uid string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[uid]; !ok {
		return false, nil
	}
	delete(m.store, uid)
	for i, u := range m.order {
		if u == uid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *memRecordRepo) DeleteByChat(ctx context.Context, chatID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	kept := m.order[:0]
	for _, uid := range m.order {
		if m.store[uid].ChatID == chatID {
			delete(m.store, uid)
			removed++
			continue
		}
		kept = append(kept, uid)
	}
	m.order = kept
	return removed, nil
}

func (m *memRecordRepo) List(ctx context.Context, filter repository.ListFilter) ([]*model.UIDRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.UIDRecord
	for _, uid := range m.order {
		r := m.store[uid]
		if filter.SubmittedBy != 0 && r.SubmittedBy != filter.SubmittedBy {
			continue
		}
		if filter.ChatID != 0 && r.ChatID != filter.ChatID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRecordRepo) Search(ctx context.Context, query string, limit int) ([]*model.UIDRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.UIDRecord
	for _, uid := range m.order {
		r := m.store[uid]
		if strings.Contains(r.UID, query) || strings.Contains(r.Note, query) {
			cp := *r
			out = append(out, &cp)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memRecordRepo) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *memRecordRepo) LastSavedAt(ctx context.Context) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last time.Time
	for _, r := range m.store {
		if r.CreatedAt.After(last) {
			last = r.CreatedAt
		}
	}
	return last, nil
}

// memSettingsRepo is the in-memory SettingsRepository counterpart.
type memSettingsRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.ChatSettings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{store: make(map[int64]*model.ChatSettings)}
}

func (m *memSettingsRepo) Get(ctx context.Context, chatID int64) (*model.ChatSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[chatID]
	if !ok {
		return model.DefaultChatSettings(chatID), nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSettingsRepo) Save(ctx context.Context, s *model.ChatSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ChatID] = &cp
	return nil
}

// fakeResolver lets tests script Graph API behavior via function fields.
type fakeResolver struct {
	ResolveIDFunc func(ctx context.Context, urlOrSlug string) (string, error)
	ProfileFunc   func(ctx context.Context, uid string) (*adapter.Profile, error)
}

func (f *fakeResolver) ResolveID(ctx context.Context, urlOrSlug string) (string, error) {
	if f.ResolveIDFunc != nil {
		return f.ResolveIDFunc(ctx, urlOrSlug)
	}
	return "", domain.ErrLookupFailed
}

func (f *fakeResolver) Profile(ctx context.Context, uid string) (*adapter.Profile, error) {
	if f.ProfileFunc != nil {
		return f.ProfileFunc(ctx, uid)
	}
	return nil, domain.ErrLookupFailed
}

func (f *fakeResolver) PictureURL(uid string) string {
	return "https://graph.facebook.com/" + uid + "/picture?type=large"
}

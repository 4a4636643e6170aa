package session

import (
	"errors"
	"sync"
	"time"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/memo"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/google/uuid"
)

const DefaultLifetime = 24 * time.Hour

var ErrNotFound = errors.New("session not found")

// Session is one reader's memo state. Gloss and expansion results are kept
// for its whole lifetime.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	Glosses    *memo.Cache[*model.WordGloss]     `json:"-"`
	Expansions *memo.Cache[*model.WordExpansion] `json:"-"`

	mu    sync.Mutex
	epoch uint64
	story *model.LatinStory
}

// BeginStory starts a new story generation and returns its epoch. Results
// of earlier generations are dropped by CommitStory.
func (s *Session) BeginStory() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return s.epoch
}

// CommitStory installs story as the current one if no newer generation has
// begun since epoch. It reports whether the story was kept.
func (s *Session) CommitStory(epoch uint64, story *model.LatinStory) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.story = story
	return true
}

func (s *Session) Story() *model.LatinStory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.story
}

type Info struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	HasStory   bool       `json:"hasStory"`
	Glosses    memo.Stats `json:"glosses"`
	Expansions memo.Stats `json:"expansions"`
}

func (s *Session) Info() Info {
	return Info{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
		HasStory:   s.Story() != nil,
		Glosses:    s.Glosses.Stats(),
		Expansions: s.Expansions.Stats(),
	}
}

// Registry tracks live sessions in memory. Expired sessions are swept when
// the registry is touched.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	lifetime time.Duration
	now      func() time.Time
}

func NewRegistry(lifetime time.Duration) *Registry {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Registry{
		sessions: make(map[string]*Session),
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (r *Registry) Create() *Session {
	now := r.now()
	s := &Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		ExpiresAt:  now.Add(r.lifetime),
		Glosses:    memo.New[*model.WordGloss]("gloss"),
		Expansions: memo.New[*model.WordExpansion]("expansion"),
	}

	r.mu.Lock()
	r.sweepLocked(now)
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if r.now().After(s.ExpiresAt) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked(now time.Time) {
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
		}
	}
}

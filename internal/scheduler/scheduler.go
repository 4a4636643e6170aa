package scheduler

import (
	"bufio"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
)

// Store is the part of the expansion store the scheduler needs.
type Store interface {
	FindByWord(ctx context.Context, word string) (*model.SavedExpansion, error)
	Save(ctx context.Context, word, expansion string) ([]model.SavedExpansion, error)
}

type Expander interface {
	ExpandWord(ctx context.Context, word, sentence string) (*model.WordExpansion, error)
}

// PrefetchScheduler walks a priority word list and saves an expansion for
// every word that has none yet. The list is cycled.
type PrefetchScheduler struct {
	store    Store
	expander Expander
	words    []string
	interval time.Duration

	mu           sync.Mutex
	currentIndex int
	fetched      int
	skipped      int
	failed       int
	running      bool
	stopChan     chan struct{}
}

type Config struct {
	WordListPath string
	Interval     time.Duration
}

func NewPrefetchScheduler(st Store, expander Expander, cfg Config) (*PrefetchScheduler, error) {
	words, err := LoadWordList(cfg.WordListPath)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("priority word list is empty")
	}

	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}

	log.Printf("[Scheduler] Loaded %d priority words", len(words))

	return &PrefetchScheduler{
		store:    st,
		expander: expander,
		words:    words,
		interval: cfg.Interval,
		stopChan: make(chan struct{}),
	}, nil
}

// LoadWordList reads one word per line, skipping blanks and # comments.
func LoadWordList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}

	return words, scanner.Err()
}

func (s *PrefetchScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Scheduler] Starting with interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Scheduler] Context cancelled, stopping")
			s.markStopped()
			return
		case <-s.stopChan:
			log.Println("[Scheduler] Stop signal received")
			return
		case <-ticker.C:
			s.processNextWord(ctx)
		}
	}
}

func (s *PrefetchScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Scheduler] Stopped")
	}
}

func (s *PrefetchScheduler) markStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *PrefetchScheduler) processNextWord(ctx context.Context) {
	s.mu.Lock()
	if s.currentIndex >= len(s.words) {
		s.currentIndex = 0
		log.Println("[Scheduler] Completed all words, restarting cycle")
	}
	word := s.words[s.currentIndex]
	s.currentIndex++
	s.mu.Unlock()

	_, err := s.store.FindByWord(ctx, word)
	if err == nil {
		s.count(&s.skipped)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[Scheduler] Error looking up %s: %v", word, err)
		s.count(&s.failed)
		return
	}

	log.Printf("[Scheduler] Fetching: %s", word)

	exp, err := s.expander.ExpandWord(ctx, word, "")
	if err != nil {
		log.Printf("[Scheduler] Error fetching %s: %v", word, err)
		s.count(&s.failed)
		return
	}

	if _, err := s.store.Save(ctx, exp.Word, exp.Expansion); err != nil {
		log.Printf("[Scheduler] Error saving %s: %v", word, err)
		s.count(&s.failed)
		return
	}

	s.count(&s.fetched)
	log.Printf("[Scheduler] Saved: %s", word)
}

func (s *PrefetchScheduler) count(n *int) {
	s.mu.Lock()
	*n++
	s.mu.Unlock()
}

type Status struct {
	Running      bool    `json:"running"`
	TotalWords   int     `json:"totalWords"`
	CurrentIndex int     `json:"currentIndex"`
	Progress     float64 `json:"progress"`
	Interval     string  `json:"interval"`
	Fetched      int     `json:"fetched"`
	Skipped      int     `json:"skipped"`
	Failed       int     `json:"failed"`
}

func (s *PrefetchScheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Running:      s.running,
		TotalWords:   len(s.words),
		CurrentIndex: s.currentIndex,
		Progress:     float64(s.currentIndex) / float64(len(s.words)) * 100,
		Interval:     s.interval.String(),
		Fetched:      s.fetched,
		Skipped:      s.skipped,
		Failed:       s.failed,
	}
}

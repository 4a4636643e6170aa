package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/memo"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/middleware"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/session"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/validator"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// prefetchWorkers bounds concurrent gloss calls for one sentence.
const prefetchWorkers = 4

type WordHandler struct {
	flows      Flows
	expansions ExpansionStore
	sessions   *session.Registry
}

func NewWordHandler(flows Flows, expansions ExpansionStore, sessions *session.Registry) *WordHandler {
	return &WordHandler{flows: flows, expansions: expansions, sessions: sessions}
}

type WordRequest struct {
	Word     string `json:"word"`
	Sentence string `json:"sentence"`
}

type GlossResponse struct {
	Word   string           `json:"word"`
	Gloss  *model.WordGloss `json:"gloss"`
	Cached bool             `json:"cached"`
}

// Gloss returns the session's gloss for a word, asking the model only on the
// first lookup.
func (h *WordHandler) Gloss(c *gin.Context) {
	sess, ok := lookupSession(c, h.sessions)
	if !ok {
		return
	}

	var req WordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	word, err := validator.ValidateWord(req.Word)
	if err != nil {
		respondError(c, err, CodeInvalidRequest, "Invalid word")
		return
	}

	key := memo.Key(word)
	_, cached := sess.Glosses.Get(key)
	source := ""
	gloss, err := sess.Glosses.Do(c.Request.Context(), key, func(ctx context.Context) (*model.WordGloss, error) {
		source = middleware.SourceLLM
		return h.flows.GetWordGloss(ctx, word, req.Sentence)
	})
	if err != nil {
		respondError(c, err, CodeLLMError, "Failed to get gloss")
		return
	}

	if source == "" {
		source = joinedSource(cached)
	}
	middleware.RecordWordLookup("gloss", source)

	c.JSON(http.StatusOK, GlossResponse{Word: word, Gloss: gloss, Cached: cached})
}

// joinedSource names where a result came from when this request did not run
// the fetch itself: an entry already in the memo, or another request's fetch
// that was still in flight.
func joinedSource(cached bool) string {
	if cached {
		return middleware.SourceMemo
	}
	return middleware.SourceShared
}

type PrefetchRequest struct {
	Sentence string `json:"sentence"`
}

type PrefetchResponse struct {
	Words   int `json:"words"`
	Cached  int `json:"cached"`
	Fetched int `json:"fetched"`
	Failed  int `json:"failed"`
}

// Prefetch glosses every word of a sentence concurrently so later clicks are
// answered from the session memo. A failed word is reported and left
// uncached.
func (h *WordHandler) Prefetch(c *gin.Context) {
	sess, ok := lookupSession(c, h.sessions)
	if !ok {
		return
	}

	var req PrefetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	words := validator.Tokenize(req.Sentence)
	if len(words) == 0 {
		badRequest(c, "sentence is required")
		return
	}

	seen := make(map[string]bool, len(words))
	var unique []string
	for _, w := range words {
		k := memo.Key(w)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, w)
	}

	resp := PrefetchResponse{Words: len(unique)}
	outcomes := make([]error, len(unique))
	cachedFlags := make([]bool, len(unique))

	g := new(errgroup.Group)
	g.SetLimit(prefetchWorkers)
	for i, w := range unique {
		key := memo.Key(w)
		if _, ok := sess.Glosses.Get(key); ok {
			cachedFlags[i] = true
			continue
		}
		g.Go(func() error {
			_, err := sess.Glosses.Do(c.Request.Context(), key, func(ctx context.Context) (*model.WordGloss, error) {
				return h.flows.GetWordGloss(ctx, w, req.Sentence)
			})
			outcomes[i] = err
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range outcomes {
		switch {
		case cachedFlags[i]:
			resp.Cached++
		case err != nil:
			resp.Failed++
			log.Printf("Warning: prefetch gloss for %q failed: %v", unique[i], err)
		default:
			resp.Fetched++
		}
	}

	if errors.Is(c.Request.Context().Err(), context.Canceled) {
		respondError(c, context.Canceled, CodeLLMError, "Prefetch cancelled")
		return
	}

	c.JSON(http.StatusOK, resp)
}

type ExpandResponse struct {
	Word      string `json:"word"`
	Expansion string `json:"expansion"`
	Source    string `json:"source"`
}

// Expand returns the long-form expansion of one word. A word already saved
// in expanded_words is served from the table instead of the model, and a
// fresh expansion is saved there for later sessions.
func (h *WordHandler) Expand(c *gin.Context) {
	sess, ok := lookupSession(c, h.sessions)
	if !ok {
		return
	}

	var req WordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	word, err := validator.ValidateWord(req.Word)
	if err != nil {
		respondError(c, err, CodeInvalidRequest, "Invalid word")
		return
	}

	key := memo.Key(word)
	_, cached := sess.Expansions.Get(key)
	source := ""
	exp, err := sess.Expansions.Do(c.Request.Context(), key, func(ctx context.Context) (*model.WordExpansion, error) {
		row, err := h.expansions.FindByWord(ctx, word)
		if err == nil {
			source = middleware.SourceStore
			return &model.WordExpansion{Word: row.Word, Expansion: row.Expansion}, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Warning: expansion lookup for %q failed, asking the model: %v", word, err)
		}
		source = middleware.SourceLLM
		exp, err := h.flows.ExpandWord(ctx, word, req.Sentence)
		if err != nil {
			return nil, err
		}
		if _, err := h.expansions.Save(ctx, exp.Word, exp.Expansion); err != nil {
			log.Printf("Warning: failed to save expansion for %q: %v", exp.Word, err)
		}
		return exp, nil
	})
	if err != nil {
		respondError(c, err, CodeLLMError, "Failed to expand word")
		return
	}
	if source == "" {
		source = joinedSource(cached)
	}
	middleware.RecordWordLookup("expansion", source)

	c.JSON(http.StatusOK, ExpandResponse{Word: exp.Word, Expansion: exp.Expansion, Source: source})
}

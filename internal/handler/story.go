package handler

import (
	"log"
	"net/http"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/session"
	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	flows    Flows
	sessions *session.Registry
}

func NewStoryHandler(flows Flows, sessions *session.Registry) *StoryHandler {
	return &StoryHandler{flows: flows, sessions: sessions}
}

type GenerateStoryRequest struct {
	model.StoryRequest
	SessionID string `json:"sessionId"`
}

// Generate writes and illustrates a new story. With a sessionId the story
// becomes the session's current story unless a newer generation for the same
// session started in the meantime.
func (h *StoryHandler) Generate(c *gin.Context) {
	var req GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	var (
		sess  *session.Session
		epoch uint64
	)
	if req.SessionID != "" {
		s, err := h.sessions.Get(req.SessionID)
		if err != nil {
			respondError(c, err, CodeNotFound, "Session not found")
			return
		}
		sess = s
		epoch = sess.BeginStory()
	}

	log.Printf("Generating story: level=%s topic=%q length=%d", req.Level, req.Topic, req.StoryLength)
	st, err := h.flows.GenerateStory(c.Request.Context(), req.StoryRequest)
	if err != nil {
		respondError(c, err, CodeLLMError, "Failed to generate story")
		return
	}

	if sess != nil && !sess.CommitStory(epoch, st) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "A newer story was requested for this session",
			"code":  CodeSuperseded,
		})
		return
	}

	c.JSON(http.StatusOK, st)
}

type IllustrationRequest struct {
	Sentence string `json:"sentence"`
}

func (h *StoryHandler) Illustration(c *gin.Context) {
	var req IllustrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	url, err := h.flows.GenerateIllustration(c.Request.Context(), req.Sentence)
	if err != nil {
		respondError(c, err, CodeLLMError, "Failed to generate illustration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

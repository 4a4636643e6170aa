package handler

import (
	"net/http"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/session"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *session.Registry
}

func NewSessionHandler(sessions *session.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Create(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, s.Info())
}

func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := lookupSession(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Info())
}

// CurrentStory returns the last story committed to the session.
func (h *SessionHandler) CurrentStory(c *gin.Context) {
	s, ok := lookupSession(c, h.sessions)
	if !ok {
		return
	}
	st := s.Story()
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No story generated yet", "code": CodeNotFound})
		return
	}
	c.JSON(http.StatusOK, st)
}

// lookupSession resolves the :id path parameter, writing a 404 when the
// session is unknown or expired.
func lookupSession(c *gin.Context, sessions *session.Registry) (*session.Session, bool) {
	s, err := sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found", "code": CodeNotFound})
		return nil, false
	}
	return s, true
}

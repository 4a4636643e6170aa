package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/batch"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/flow"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/validator"
	"github.com/gin-gonic/gin"
)

// ExpansionHandler serves the saved expansion list and batch expansion jobs.
type ExpansionHandler struct {
	flows      Flows
	expansions ExpansionStore
	runner     *batch.Runner
}

func NewExpansionHandler(flows Flows, expansions ExpansionStore, runner *batch.Runner) *ExpansionHandler {
	return &ExpansionHandler{flows: flows, expansions: expansions, runner: runner}
}

type ListResponse struct {
	Items    []model.SavedExpansion `json:"items"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

func (h *ExpansionHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		badRequest(c, "page must be a number")
		return
	}

	ctx := c.Request.Context()
	items, err := h.expansions.List(ctx, page)
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to load saved expansions")
		return
	}
	total, err := h.expansions.Count(ctx)
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to count saved expansions")
		return
	}

	pageSize := store.ExpansionsPerPage
	if page < 1 {
		pageSize = len(items)
	}
	c.JSON(http.StatusOK, ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *ExpansionHandler) Search(c *gin.Context) {
	items, err := h.expansions.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to search expansions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ExpansionHandler) Letters(c *gin.Context) {
	letters, err := h.expansions.Letters(c.Request.Context())
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to load letters")
		return
	}
	c.JSON(http.StatusOK, gin.H{"letters": letters})
}

func (h *ExpansionHandler) ByLetter(c *gin.Context) {
	items, err := h.expansions.ByLetter(c.Request.Context(), c.Param("letter"))
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to load expansions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type SaveExpansionRequest struct {
	Word      string `json:"word"`
	Expansion string `json:"expansion"`
}

func (h *ExpansionHandler) Save(c *gin.Context) {
	var req SaveExpansionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Word = strings.TrimSpace(req.Word)
	if req.Word == "" || strings.TrimSpace(req.Expansion) == "" {
		badRequest(c, "word and expansion are required")
		return
	}

	rows, err := h.expansions.Save(c.Request.Context(), req.Word, req.Expansion)
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to save expansion")
		return
	}
	c.JSON(http.StatusCreated, rows[0])
}

type UpdateExpansionRequest struct {
	Expansion string `json:"expansion"`
}

func (h *ExpansionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid expansion ID")
		return
	}

	var req UpdateExpansionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Expansion) == "" {
		badRequest(c, "expansion is required")
		return
	}

	if err := h.expansions.Update(c.Request.Context(), id, req.Expansion); err != nil {
		respondError(c, err, CodeStoreError, "Failed to update expansion")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "expansion": req.Expansion})
}

type ExpandWordsRequest struct {
	Words string `json:"words"`
}

// Expand expands a comma-separated list without saving anything.
func (h *ExpansionHandler) Expand(c *gin.Context) {
	var req ExpandWordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	items, err := h.flows.ExpandWords(c.Request.Context(), req.Words)
	if err != nil {
		respondError(c, err, CodeLLMError, "Failed to expand words")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// StartBatch expands a word list in the background and saves every
// expansion in order.
func (h *ExpansionHandler) StartBatch(c *gin.Context) {
	var req ExpandWordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	words := validator.ParseWordList(req.Words)
	if len(words) == 0 {
		respondError(c, flow.ErrNoWords, CodeNoWords, "")
		return
	}

	job := h.runner.Start(words)
	c.JSON(http.StatusAccepted, job)
}

func (h *ExpansionHandler) BatchStatus(c *gin.Context) {
	job, ok := h.runner.Get(c.Param("jobId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found", "code": CodeNotFound})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *ExpansionHandler) StopBatch(c *gin.Context) {
	if !h.runner.Stop(c.Param("jobId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No running job with that ID", "code": CodeNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobId": c.Param("jobId"), "status": batch.StatusStopped})
}

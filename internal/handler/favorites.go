package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"github.com/gin-gonic/gin"
)

type FavoritesHandler struct {
	favorites store.FavoriteStore
}

func NewFavoritesHandler(favorites store.FavoriteStore) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

func (h *FavoritesHandler) Create(c *gin.Context) {
	var st model.LatinStory
	if err := c.ShouldBindJSON(&st); err != nil || len(st.Story) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "story must be a non-empty array", "code": CodeInvalidStory})
		return
	}

	fav, err := h.favorites.Put(c.Request.Context(), st)
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to save favorite")
		return
	}
	c.JSON(http.StatusCreated, fav)
}

func (h *FavoritesHandler) List(c *gin.Context) {
	favs, err := h.favorites.List(c.Request.Context())
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to load favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": favs})
}

type FavoriteResponse struct {
	*model.FavoriteStory
	Story model.LatinStory `json:"story"`
}

func (h *FavoritesHandler) Get(c *gin.Context) {
	fav, err := h.favorites.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeStoreError, "Failed to load favorite")
		return
	}

	var st model.LatinStory
	if err := json.Unmarshal(fav.Story, &st); err != nil {
		respondError(c, err, CodeStoreError, "Stored favorite is corrupt")
		return
	}
	c.JSON(http.StatusOK, FavoriteResponse{FavoriteStory: fav, Story: st})
}

func (h *FavoritesHandler) Delete(c *gin.Context) {
	if err := h.favorites.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, CodeStoreError, "Failed to delete favorite")
		return
	}
	c.Status(http.StatusNoContent)
}

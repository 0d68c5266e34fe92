package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/2gazb/BargainDrivingServer/internal/model"
	"github.com/2gazb/BargainDrivingServer/internal/repository"
)

// PhraseHandler exposes CRUD over the phrase resource.  Phrases are
// public data; the read endpoints sit behind the Redis response cache.
type PhraseHandler struct {
	Phrases repository.PhraseStore
}

func NewPhraseHandler(phrases repository.PhraseStore) *PhraseHandler {
	return &PhraseHandler{Phrases: phrases}
}

type phraseReq struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// List returns all phrases.
func (h *PhraseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	phrases, err := h.Phrases.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if phrases == nil {
		phrases = []model.Phrase{}
	}
	return c.JSON(http.StatusOK, phrases)
}

// Get returns a single phrase by id.
func (h *PhraseHandler) Get(c echo.Context) error {
	id, err := phraseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phrase id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Phrases.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "phrase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Create stores a new phrase.
func (h *PhraseHandler) Create(c echo.Context) error {
	var req phraseReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Phrases.Create(ctx, model.Phrase{Title: req.Title, Message: req.Message})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create phrase failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update rewrites the title and message of an existing phrase.
func (h *PhraseHandler) Update(c echo.Context) error {
	id, err := phraseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phrase id"})
	}
	var req phraseReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Phrases.Update(ctx, model.Phrase{ID: id, Title: req.Title, Message: req.Message})
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "phrase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update phrase failed"})
	}
	return c.JSON(http.StatusOK, p)
}

func phraseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2gazb/BargainDrivingServer/internal/model"
	"github.com/2gazb/BargainDrivingServer/internal/repository"
)

type fakePhraseStore struct {
	nextID  uint64
	phrases map[uint64]model.Phrase
}

func newFakePhraseStore(seed ...model.Phrase) *fakePhraseStore {
	f := &fakePhraseStore{nextID: 1, phrases: map[uint64]model.Phrase{}}
	for _, p := range seed {
		p.ID = f.nextID
		f.nextID++
		f.phrases[p.ID] = p
	}
	return f
}

func (f *fakePhraseStore) List(context.Context) ([]model.Phrase, error) {
	var out []model.Phrase
	for id := uint64(1); id < f.nextID; id++ {
		if p, ok := f.phrases[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhraseStore) Get(_ context.Context, id uint64) (model.Phrase, error) {
	if p, ok := f.phrases[id]; ok {
		return p, nil
	}
	return model.Phrase{}, repository.ErrNotFound
}

func (f *fakePhraseStore) Create(_ context.Context, p model.Phrase) (model.Phrase, error) {
	p.ID = f.nextID
	f.nextID++
	f.phrases[p.ID] = p
	return p, nil
}

func (f *fakePhraseStore) Update(_ context.Context, p model.Phrase) (model.Phrase, error) {
	if _, ok := f.phrases[p.ID]; !ok {
		return model.Phrase{}, repository.ErrNotFound
	}
	f.phrases[p.ID] = p
	return p, nil
}

func phraseEnv(seed ...model.Phrase) (*echo.Echo, *fakePhraseStore) {
	store := newFakePhraseStore(seed...)
	h := NewPhraseHandler(store)

	e := echo.New()
	g := e.Group("/api/v1/phrase")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	return e, store
}

func phraseRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPhraseList(t *testing.T) {
	e, _ := phraseEnv(
		model.Phrase{Title: "greeting", Message: "Welcome aboard."},
		model.Phrase{Title: "farewell", Message: "Drive safe."},
	)

	rec := phraseRequest(e, http.MethodGet, "/api/v1/phrase", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "greeting")
	assert.Contains(t, rec.Body.String(), "Drive safe.")
}

// An empty table serializes as [] rather than null.
func TestPhraseList_Empty(t *testing.T) {
	e, _ := phraseEnv()

	rec := phraseRequest(e, http.MethodGet, "/api/v1/phrase", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestPhraseGet(t *testing.T) {
	e, _ := phraseEnv(model.Phrase{Title: "greeting", Message: "Welcome aboard."})

	rec := phraseRequest(e, http.MethodGet, "/api/v1/phrase/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"greeting"`)

	rec = phraseRequest(e, http.MethodGet, "/api/v1/phrase/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = phraseRequest(e, http.MethodGet, "/api/v1/phrase/not-a-number", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhraseCreate(t *testing.T) {
	e, store := phraseEnv()

	rec := phraseRequest(e, http.MethodPost, "/api/v1/phrase", `{"title":"greeting","message":"Welcome aboard."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":1`)

	p, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "greeting", p.Title)

	rec = phraseRequest(e, http.MethodPost, "/api/v1/phrase", `{"message":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhraseUpdate(t *testing.T) {
	e, store := phraseEnv(model.Phrase{Title: "greeting", Message: "Welcome aboard."})

	rec := phraseRequest(e, http.MethodPut, "/api/v1/phrase/1", `{"title":"greeting","message":"Updated."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	p, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Updated.", p.Message)

	rec = phraseRequest(e, http.MethodPut, "/api/v1/phrase/99", `{"title":"x","message":"y"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package collection_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlab/promptlab/internal/adapter/memory"
	"github.com/promptlab/promptlab/internal/domain/event"
	domainprompt "github.com/promptlab/promptlab/internal/domain/prompt"
	collectionsvc "github.com/promptlab/promptlab/internal/service/collection"
	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"
	"github.com/promptlab/promptlab/internal/testutil"
	transportcollection "github.com/promptlab/promptlab/internal/transport/collection"
)

func init() { gin.SetMode(gin.TestMode) }

type deps struct {
	router *gin.Engine
	prompt *promptsvc.Service
	coll   *collectionsvc.Service
	bus    *testutil.CaptureBus
}

func newDeps(t *testing.T) deps {
	t.Helper()
	store := memory.NewStore()
	bus := &testutil.CaptureBus{}
	d := deps{
		router: gin.New(),
		prompt: promptsvc.NewService(store, bus),
		coll:   collectionsvc.NewService(store, bus),
		bus:    bus,
	}
	transportcollection.Register(d.router.Group("/collections"), d.coll)
	return d
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body) //nolint:errcheck
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCollection(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{name: "valid", body: map[string]any{"name": "Writing"}, wantStatus: http.StatusCreated},
		{name: "missing name", body: map[string]any{"description": "d"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "name too long", body: map[string]any{"name": strings.Repeat("n", 101)}, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			w := do(d.router, http.MethodPost, "/collections", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestListAndGetCollection(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	first, err := d.coll.Create(ctx, "First", "")
	require.NoError(t, err)
	_, err = d.coll.Create(ctx, "Second", "desc")
	require.NoError(t, err)

	w := do(d.router, http.MethodGet, "/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Collections []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"collections"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 2, body.Total)
	assert.Equal(t, "First", body.Collections[0].Name)

	w = do(d.router, http.MethodGet, "/collections/"+first.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(d.router, http.MethodGet, "/collections/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Collection not found"}`, w.Body.String())
}

func TestDeleteCollection_Cascades(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	col, err := d.coll.Create(ctx, "Doomed", "")
	require.NoError(t, err)
	member, err := d.prompt.Create(ctx, domainprompt.Fields{Title: "member", Content: "c", CollectionID: col.ID})
	require.NoError(t, err)
	loose, err := d.prompt.Create(ctx, domainprompt.Fields{Title: "loose", Content: "c"})
	require.NoError(t, err)
	d.bus.Reset()

	w := do(d.router, http.MethodDelete, "/collections/"+col.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err = d.prompt.Get(ctx, member.ID)
	assert.Error(t, err, "member prompt removed with its collection")
	_, err = d.prompt.Get(ctx, loose.ID)
	assert.NoError(t, err, "unrelated prompt survives")

	assert.Len(t, d.bus.OfType(event.TypePromptDeleted), 1)
	assert.Len(t, d.bus.OfType(event.TypeCollectionDeleted), 1)

	w = do(d.router, http.MethodDelete, "/collections/"+col.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

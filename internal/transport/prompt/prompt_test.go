package prompt_test

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
	domainprompt "github.com/promptlab/promptlab/internal/domain/prompt"
	collectionsvc "github.com/promptlab/promptlab/internal/service/collection"
	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"
	"github.com/promptlab/promptlab/internal/testutil"
	transportprompt "github.com/promptlab/promptlab/internal/transport/prompt"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T) (*gin.Engine, *promptsvc.Service, *collectionsvc.Service) {
	t.Helper()
	store := memory.NewStore()
	bus := &testutil.CaptureBus{}
	pSvc := promptsvc.NewService(store, bus)
	cSvc := collectionsvc.NewService(store, bus)

	r := gin.New()
	transportprompt.Register(r.Group("/prompts"), pSvc)
	return r, pSvc, cSvc
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

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type listBody struct {
	Prompts []domainprompt.Prompt `json:"prompts"`
	Total   int                   `json:"total"`
}

func TestCreatePrompt(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantField  string
	}{
		{name: "valid", body: map[string]any{"title": "Greeter", "content": "Hello {{name}}"}, wantStatus: http.StatusCreated},
		{name: "missing title", body: map[string]any{"content": "c"}, wantStatus: http.StatusUnprocessableEntity, wantField: "title"},
		{name: "empty content", body: map[string]any{"title": "t", "content": ""}, wantStatus: http.StatusUnprocessableEntity, wantField: "content"},
		{name: "title too long", body: map[string]any{"title": strings.Repeat("x", 201), "content": "c"}, wantStatus: http.StatusUnprocessableEntity, wantField: "title"},
		{name: "description too long", body: map[string]any{"title": "t", "content": "c", "description": strings.Repeat("d", 501)}, wantStatus: http.StatusUnprocessableEntity, wantField: "description"},
		{name: "unknown collection", body: map[string]any{"title": "t", "content": "c", "collection_id": "nope"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newRouter(t)
			w := do(r, http.MethodPost, "/prompts", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantField != "" {
				assert.Contains(t, w.Body.String(), `"field":"`+tt.wantField+`"`)
			}
		})
	}
}

func TestCreatePrompt_Response(t *testing.T) {
	r, _, _ := newRouter(t)

	w := do(r, http.MethodPost, "/prompts", map[string]any{"title": "Greeter", "content": "Hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	p := decode[domainprompt.Prompt](t, w)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.NotContains(t, w.Body.String(), "collection_id", "absent collection is omitted")
}

func TestGetPrompt_NotFound(t *testing.T) {
	r, _, _ := newRouter(t)

	w := do(r, http.MethodGet, "/prompts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Prompt not found"}`, w.Body.String())
}

func TestListPrompts_SearchIsCaseInsensitive(t *testing.T) {
	r, pSvc, _ := newRouter(t)
	ctx := context.Background()
	_, err := pSvc.Create(ctx, domainprompt.Fields{Title: "hello world", Content: "c"})
	require.NoError(t, err)
	_, err = pSvc.Create(ctx, domainprompt.Fields{Title: "bye", Content: "c", Description: "GREETING"})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/prompts?search=HELLO", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[listBody](t, w)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "hello world", body.Prompts[0].Title)

	w = do(r, http.MethodGet, "/prompts?search=greeting", nil)
	assert.Equal(t, 1, decode[listBody](t, w).Total)
}

func TestListPrompts_EmptyIsArray(t *testing.T) {
	r, _, _ := newRouter(t)

	w := do(r, http.MethodGet, "/prompts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prompts":[],"total":0}`, w.Body.String())
}

func TestListPrompts_FilterByCollection(t *testing.T) {
	r, pSvc, cSvc := newRouter(t)
	ctx := context.Background()
	col, err := cSvc.Create(ctx, "Writing", "")
	require.NoError(t, err)
	in, err := pSvc.Create(ctx, domainprompt.Fields{Title: "in", Content: "c", CollectionID: col.ID})
	require.NoError(t, err)
	_, err = pSvc.Create(ctx, domainprompt.Fields{Title: "out", Content: "c"})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/prompts?collection_id="+col.ID, nil)
	body := decode[listBody](t, w)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, in.ID, body.Prompts[0].ID)
}

func TestUpdatePrompt(t *testing.T) {
	r, pSvc, _ := newRouter(t)
	p, err := pSvc.Create(context.Background(), domainprompt.Fields{Title: "old", Content: "c", Description: "d"})
	require.NoError(t, err)

	w := do(r, http.MethodPut, "/prompts/"+p.ID, map[string]any{"title": "new", "content": "c2"})
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[domainprompt.Prompt](t, w)
	assert.Equal(t, "new", got.Title)
	assert.Empty(t, got.Description, "full update clears omitted description")
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(p.UpdatedAt))

	w = do(r, http.MethodPut, "/prompts/missing", map[string]any{"title": "new", "content": "c2"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchPrompt_EmptyDescriptionIsNoChange(t *testing.T) {
	r, pSvc, _ := newRouter(t)
	p, err := pSvc.Create(context.Background(), domainprompt.Fields{Title: "t", Content: "c", Description: "keep me"})
	require.NoError(t, err)

	w := do(r, http.MethodPatch, "/prompts/"+p.ID, map[string]any{"description": "", "title": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[domainprompt.Prompt](t, w)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, "keep me", got.Description)
}

func TestPatchPrompt_Errors(t *testing.T) {
	r, pSvc, _ := newRouter(t)
	p, err := pSvc.Create(context.Background(), domainprompt.Fields{Title: "t", Content: "c"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		body       map[string]any
		wantStatus int
	}{
		{name: "empty title", path: "/prompts/" + p.ID, body: map[string]any{"title": ""}, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown collection", path: "/prompts/" + p.ID, body: map[string]any{"collection_id": "nope"}, wantStatus: http.StatusBadRequest},
		{name: "unknown prompt", path: "/prompts/missing", body: map[string]any{"title": "x"}, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	got, err := pSvc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title, "failed patches leave the prompt untouched")
}

func TestDeletePrompt(t *testing.T) {
	r, pSvc, _ := newRouter(t)
	p, err := pSvc.Create(context.Background(), domainprompt.Fields{Title: "t", Content: "c"})
	require.NoError(t, err)

	w := do(r, http.MethodDelete, "/prompts/"+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodDelete, "/prompts/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromptVariables(t *testing.T) {
	r, pSvc, _ := newRouter(t)
	p, err := pSvc.Create(context.Background(), domainprompt.Fields{Title: "t", Content: "Dear {{name}}, re {{topic}}"})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/prompts/"+p.ID+"/variables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"variables":["name","topic"],"valid_content":true}`, w.Body.String())
}

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samyk00/LinkVault/internal/bulk"
	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/kv"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/metadata"
	"github.com/Samyk00/LinkVault/internal/persistence"
	"github.com/Samyk00/LinkVault/internal/store"
)

type stubFetcher struct {
	meta metadata.Metadata
	err  error
}

func (f stubFetcher) Fetch(_ context.Context, rawURL string) (metadata.Metadata, error) {
	m := f.meta
	m.URL = rawURL
	return m, f.err
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *store.Store
	reload  chan struct{}
}

func newTestAPI(t *testing.T, opts ...func(*deps.Deps)) *testAPI {
	t.Helper()

	log := logger.New("error", false)
	backend := kv.NewMemory("lv")
	now := func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

	svc := persistence.New(backend, persistence.Options{Logger: log, Origin: "view-http", Now: now})
	st := store.New(svc, store.Options{MaxSubFolders: 2, Logger: log})
	require.NoError(t, st.LoadFromStorage(context.Background()))

	d := deps.Deps{
		Logger:        log,
		StartTime:     now(),
		Version:       "test",
		TimeNow:       now,
		RateBurst:     1000,
		RatePerMin:    1000,
		Store:         st,
		Bulk:          bulk.New(st, bulk.Always(false), log),
		Backend:       backend,
		ReloadTrigger: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(&d)
	}

	return &testAPI{t: t, handler: NewRouter(log, d), store: st, reload: d.ReloadTrigger}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	case []byte:
		rd = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "192.0.2.10:5555"
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) createLink(url string, folderID *string) domain.Link {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/links", map[string]any{"url": url, "title": url, "folderId": folderID})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Link](a.t, rec)
}

func TestProbes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = api.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ready":true}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/infra", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	infra := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", infra["mode"])
	assert.Equal(t, "view-http", infra["view_id"])
}

func TestReadyzBeforeLoad(t *testing.T) {
	log := logger.New("error", false)
	svc := persistence.New(kv.NewMemory("lv"), persistence.Options{Logger: log})
	st := store.New(svc, store.Options{Logger: log})
	h := NewRouter(log, deps.Deps{Logger: log, Store: st})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(`{"url":"https://example.com"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_hydrated")
}

func TestStateSeedsPlatformFolders(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[struct {
		Hydrated bool            `json:"hydrated"`
		Folders  []domain.Folder `json:"folders"`
		Links    []domain.Link   `json:"links"`
	}](t, rec)

	assert.True(t, state.Hydrated)
	assert.Len(t, state.Folders, len(domain.Platforms()))
	assert.Empty(t, state.Links)
	for _, f := range state.Folders {
		assert.True(t, f.IsPlatformFolder)
	}
}

func TestLinkLifecycle(t *testing.T) {
	api := newTestAPI(t)

	l := api.createLink("https://www.youtube.com/watch?v=abc", nil)
	assert.Equal(t, domain.PlatformYouTube, l.Platform)

	rec := api.do(http.MethodGet, "/api/links/"+l.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPatch, "/api/links/"+l.ID, `{"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode[domain.Link](t, rec).Title)

	rec = api.do(http.MethodPost, "/api/links/"+l.ID+"/favorite", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.Link](t, rec).IsFavorite)

	rec = api.do(http.MethodGet, "/api/links?view=favorites", nil)
	assert.Len(t, decode[[]domain.Link](t, rec), 1)

	rec = api.do(http.MethodDelete, "/api/links/"+l.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/links", nil)
	assert.Empty(t, decode[[]domain.Link](t, rec))
	rec = api.do(http.MethodGet, "/api/links?view=trash", nil)
	assert.Len(t, decode[[]domain.Link](t, rec), 1)

	rec = api.do(http.MethodPost, "/api/links/"+l.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[domain.Link](t, rec).DeletedAt)

	rec = api.do(http.MethodDelete, "/api/links/"+l.ID+"?permanent=true", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodGet, "/api/links/"+l.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinkErrors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing url", http.MethodPost, "/api/links", `{"title":"x"}`, http.StatusBadRequest, "bad_request"},
		{"malformed body", http.MethodPost, "/api/links", `{`, http.StatusBadRequest, "bad_request"},
		{"unknown field", http.MethodPost, "/api/links", `{"url":"https://a.io","color":"red"}`, http.StatusBadRequest, "bad_request"},
		{"unknown folder", http.MethodPost, "/api/links", `{"url":"https://a.io","folderId":"nope"}`, http.StatusUnprocessableEntity, "validation_failed"},
		{"bad platform", http.MethodPost, "/api/links", `{"url":"https://a.io","platform":"myspace"}`, http.StatusUnprocessableEntity, "validation_failed"},
		{"unknown view", http.MethodGet, "/api/links?view=archived", ``, http.StatusBadRequest, "bad_request"},
		{"filter platform", http.MethodGet, "/api/links?platform=myspace", ``, http.StatusUnprocessableEntity, "validation_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[map[string]any](t, rec)["code"])
		})
	}
}

func TestMutationOnUnknownIDIsNoContent(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPatch, "/api/links/ghost", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/links/ghost/favorite", nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPatch, "/api/folders/ghost", `{"name":"x"}`).Code)
}

func TestCreateLinkWithMetadata(t *testing.T) {
	api := newTestAPI(t, func(d *deps.Deps) {
		d.Fetcher = stubFetcher{meta: metadata.Metadata{Title: "Fetched", Description: "From the page", Platform: domain.PlatformGitHub}}
	})

	rec := api.do(http.MethodPost, "/api/links", `{"url":"https://github.com/a/b","title":"Mine","fetch":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	l := decode[domain.Link](t, rec)
	assert.Equal(t, "Mine", l.Title)
	assert.Equal(t, "From the page", l.Description)
	assert.Equal(t, domain.PlatformGitHub, l.Platform)

	rec = api.do(http.MethodPost, "/api/metadata", `{"url":"https://github.com/a/b"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fetched", decode[metadata.Metadata](t, rec).Title)
}

func TestCreateLinkSurvivesFetchFailure(t *testing.T) {
	api := newTestAPI(t, func(d *deps.Deps) {
		d.Fetcher = stubFetcher{meta: metadata.Metadata{Platform: domain.PlatformReddit}, err: errors.New("boom")}
	})

	rec := api.do(http.MethodPost, "/api/links", `{"url":"https://reddit.com/r/golang","fetch":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.PlatformReddit, decode[domain.Link](t, rec).Platform)

	rec = api.do(http.MethodPost, "/api/metadata", `{"url":"https://reddit.com/r/golang"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMetadataDisabled(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodPost, "/api/metadata", `{"url":"https://example.com"}`)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestFolders(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/folders", `{"name":"  Reading  "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	parent := decode[domain.Folder](t, rec)
	assert.Equal(t, "Reading", parent.Name)

	for _, name := range []string{"Go", "Rust"} {
		rec = api.do(http.MethodPost, "/api/folders", map[string]any{"name": name, "parentId": parent.ID})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = api.do(http.MethodPost, "/api/folders", map[string]any{"name": "Zig", "parentId": parent.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(http.MethodGet, "/api/folders?parent="+parent.ID, nil)
	children := decode[[]domain.Folder](t, rec)
	require.Len(t, children, 2)

	rec = api.do(http.MethodPost, "/api/folders", map[string]any{"name": "Deep", "parentId": children[0].ID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(http.MethodPatch, "/api/folders/"+children[0].ID, `{"parentId":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[domain.Folder](t, rec).ParentID)

	rec = api.do(http.MethodGet, "/api/folders?parent=nobody", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(http.MethodDelete, "/api/folders/"+parent.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := api.store.Folder(parent.ID)
	assert.False(t, ok)
}

func TestSettings(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/settings", nil)
	assert.JSONEq(t, `{"theme":"system","viewMode":"grid"}`, rec.Body.String())

	rec = api.do(http.MethodPatch, "/api/settings", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"dark","viewMode":"grid"}`, rec.Body.String())

	rec = api.do(http.MethodPatch, "/api/settings", `{"viewMode":"mosaic"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSelection(t *testing.T) {
	api := newTestAPI(t)
	a := api.createLink("https://a.io", nil)
	b := api.createLink("https://b.io", nil)

	rec := api.do(http.MethodPut, "/api/selection", map[string]any{"ids": []string{b.ID, "ghost"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ids":["`+b.ID+`"]}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/selection/"+a.ID+"/toggle", nil)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, decode[struct{ IDs []string }](t, rec).IDs)

	rec = api.do(http.MethodPost, "/api/selection/deselect", map[string]any{"ids": []string{a.ID}})
	assert.Equal(t, []string{b.ID}, decode[struct{ IDs []string }](t, rec).IDs)

	rec = api.do(http.MethodDelete, "/api/selection", nil)
	assert.JSONEq(t, `{"ids":[]}`, rec.Body.String())
}

func TestBulkMoveNeedsConfirmation(t *testing.T) {
	api := newTestAPI(t)
	target, err := api.store.AddFolder(context.Background(), domain.FolderInput{Name: "Target"})
	require.NoError(t, err)

	in := api.createLink("https://a.io", &target.ID)
	out := api.createLink("https://b.io", nil)
	api.store.SetSelection([]string{in.ID, out.ID})

	rec := api.do(http.MethodPost, "/api/bulk/move", map[string]any{"folderId": target.ID})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	body := decode[struct {
		Code   string      `json:"code"`
		Prompt bulk.Prompt `json:"prompt"`
	}](t, rec)
	assert.Equal(t, "confirmation_required", body.Code)
	assert.Equal(t, 1, body.Prompt.AlreadyInTarget)

	l, _ := api.store.Link(out.ID)
	assert.Nil(t, l.FolderID)

	rec = api.do(http.MethodPost, "/api/bulk/move", map[string]any{"folderId": target.ID, "confirm": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[bulk.Report](t, rec)
	assert.Equal(t, 1, report.Mutated)

	l, _ = api.store.Link(out.ID)
	require.NotNil(t, l.FolderID)
	assert.Equal(t, target.ID, *l.FolderID)
	assert.Empty(t, api.store.Selection())
}

func TestBulkMoveRequiresFolderField(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodPost, "/api/bulk/move", `{"confirm":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkDeleteAndFavorite(t *testing.T) {
	api := newTestAPI(t)
	a := api.createLink("https://a.io", nil)
	b := api.createLink("https://b.io", nil)

	api.store.SetSelection([]string{a.ID, b.ID})
	rec := api.do(http.MethodPost, "/api/bulk/favorite", `{}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, api.store.Counts().Favorites)

	api.store.SetSelection([]string{a.ID, b.ID})
	rec = api.do(http.MethodPost, "/api/bulk/delete", `{}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, api.store.Counts().Trash)

	rec = api.do(http.MethodPost, "/api/bulk/delete", `{"confirm":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, api.store.Counts().Trash)

	rec = api.do(http.MethodDelete, "/api/trash", nil)
	assert.JSONEq(t, `{"removed":2}`, rec.Body.String())
}

func TestExportImport(t *testing.T) {
	api := newTestAPI(t)
	api.createLink("https://a.io", nil)

	rec := api.do(http.MethodGet, "/api/data/export?label=Before%20Move", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="linkvault-backup-before-move-2026-03-14.json"`, rec.Header().Get("Content-Disposition"))
	exported := rec.Body.Bytes()

	other := newTestAPI(t)
	rec = other.do(http.MethodPost, "/api/data/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"links":1,"folders":10}`, rec.Body.String())
	assert.Len(t, other.store.Links(store.LinkFilter{}), 1)

	rec = other.do(http.MethodPost, "/api/data/import", `{"links":{}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_snapshot", decode[map[string]any](t, rec)["code"])
	assert.Len(t, other.store.Links(store.LinkFilter{}), 1)
}

func TestStorageSizeAndReset(t *testing.T) {
	api := newTestAPI(t)
	api.createLink("https://a.io", nil)

	rec := api.do(http.MethodGet, "/api/data/size", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	size := decode[struct {
		Bytes int64 `json:"bytes"`
		Quota int64 `json:"quota"`
	}](t, rec)
	assert.Positive(t, size.Bytes)
	assert.Equal(t, persistence.DefaultQuota, size.Quota)

	rec = api.do(http.MethodPost, "/api/data/reset", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, api.store.Links(store.LinkFilter{}), 1)

	rec = api.do(http.MethodPost, "/api/data/reset", `{"confirm":true}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, api.store.Links(store.LinkFilter{}))
	assert.Len(t, api.store.Folders(), len(domain.Platforms()))
}

func TestReloadTrigger(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/reload", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = api.do(http.MethodPost, "/api/reload", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	<-api.reload
}

func TestAccessRestrictions(t *testing.T) {
	api := newTestAPI(t, func(d *deps.Deps) {
		d.AllowedCIDRS = []string{"10.0.0.0/8"}
		d.AllowedHosts = []string{"vault.example.com"}
	})

	rec := api.do(http.MethodGet, "/api/state", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/kv"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	root := domain.NewPlatformFolder(domain.PlatformGitHub, "GitHub", "#333", "github", fixedNow)
	link, err := domain.NewLink(domain.LinkInput{
		URL:      "https://github.com/go-chi/chi",
		Title:    "chi",
		FolderID: domain.Ref(root.ID),
	}, fixedNow)
	require.NoError(t, err)
	trashed := link
	trashed.ID = domain.NewID()
	trashed.State = domain.Trashed(fixedNow)

	require.NoError(t, svc.SetItem(ctx, KeyLinks, []domain.Link{link, trashed}))
	require.NoError(t, svc.SetItem(ctx, KeyFolders, []domain.Folder{root}))
	require.NoError(t, svc.SetItem(ctx, KeySettings, domain.Settings{Theme: domain.ThemeDark, ViewMode: domain.ViewList}))
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newService(t, kv.NewMemory("src"), 0)
	seed(t, src)

	data, err := src.Export(ctx)
	require.NoError(t, err)

	want, err := src.ReadSnapshot(ctx)
	require.NoError(t, err)

	dst := newService(t, kv.NewMemory("dst"), 0)
	_, err = dst.Import(ctx, data)
	require.NoError(t, err)

	got, err := dst.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Links, got.Links)
	assert.Equal(t, want.Folders, got.Folders)
	assert.Equal(t, want.Settings, got.Settings)
	assert.True(t, got.Links[1].InTrash())
}

func TestExportEmptyStorage(t *testing.T) {
	svc := newService(t, kv.NewMemory("lv"), 0)

	snap, err := svc.ReadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SnapshotApp, snap.App)
	assert.NotNil(t, snap.Links)
	assert.NotNil(t, snap.Folders)
	assert.Equal(t, domain.DefaultSettings(), snap.Settings)
}

func TestImportRejectsInvalidSnapshots(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `links: []`},
		{name: "array document", doc: `[]`},
		{name: "missing folders", doc: `{"links": [], "settings": {}}`},
		{name: "missing links", doc: `{"folders": [], "settings": {}}`},
		{name: "missing settings", doc: `{"links": [], "folders": []}`},
		{name: "links is an object", doc: `{"links": {}, "folders": [], "settings": {}}`},
		{name: "folders is null", doc: `{"links": [], "folders": null, "settings": {}}`},
		{name: "settings is an array", doc: `{"links": [], "folders": [], "settings": []}`},
		{name: "newer version", doc: `{"version": 99, "links": [], "folders": [], "settings": {}}`},
		{name: "link without id", doc: `{"links": [{"url": "https://a.example"}], "folders": [], "settings": {}}`},
		{name: "duplicate folder ids", doc: dedent.Dedent(`
			{
			  "links": [],
			  "folders": [{"id": "f1", "name": "a"}, {"id": "f1", "name": "b"}],
			  "settings": {}
			}`)},
		{name: "grandchild folder", doc: dedent.Dedent(`
			{
			  "links": [],
			  "folders": [
			    {"id": "a", "name": "a", "parentId": null},
			    {"id": "b", "name": "b", "parentId": "a"},
			    {"id": "c", "name": "c", "parentId": "b"}
			  ],
			  "settings": {}
			}`)},
		{name: "folder is its own parent", doc: `{"links": [], "folders": [{"id": "a", "name": "a", "parentId": "a"}], "settings": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := kv.NewMemory("lv")
			svc := newService(t, backend, 0)
			seed(t, svc)

			before, err := backend.Scan(ctx)
			require.NoError(t, err)

			_, err = svc.Import(ctx, []byte(tt.doc))
			assert.True(t, errors.Is(err, domain.ErrInvalidSnapshot), "got %v", err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			after, err := backend.Scan(ctx)
			require.NoError(t, err)
			assert.Equal(t, before, after, "durable state must be byte-for-byte unchanged")
		})
	}
}

func TestImportAcceptsSnapshotWithoutEnvelope(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, kv.NewMemory("lv"), 0)

	doc := dedent.Dedent(`
		{
		  "links": [
		    {"id": "l1", "url": "https://youtu.be/x", "platform": "youtube", "folderId": null,
		     "isFavorite": true, "deletedAt": null,
		     "createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-02T00:00:00Z"}
		  ],
		  "folders": [],
		  "settings": {"theme": "neon"}
		}`)

	snap, err := svc.Import(ctx, []byte(doc))
	require.NoError(t, err)
	require.Len(t, snap.Links, 1)
	assert.True(t, snap.Links[0].IsFavorite)
	assert.Equal(t, domain.DefaultSettings(), snap.Settings, "unknown settings values fall back to defaults")
}

func TestImportFolderHierarchy(t *testing.T) {
	ctx := context.Background()
	doc := dedent.Dedent(`
		{
		  "links": [],
		  "folders": [
		    {"id": "a", "name": "a", "parentId": null},
		    {"id": "b", "name": "b", "parentId": "a"},
		    {"id": "c", "name": "c", "parentId": "a"},
		    {"id": "d", "name": "d", "parentId": "deleted"},
		    {"id": "e", "name": "e", "parentId": "d"}
		  ],
		  "settings": {}
		}`)

	t.Run("orphaned parent reads as root", func(t *testing.T) {
		svc := newService(t, kv.NewMemory("lv"), 0)
		snap, err := svc.Import(ctx, []byte(doc), CheckFanOut(2))
		require.NoError(t, err)
		assert.Len(t, snap.Folders, 5)
	})

	t.Run("fan-out above limit", func(t *testing.T) {
		backend := kv.NewMemory("lv")
		svc := newService(t, backend, 0)
		seed(t, svc)
		before, err := backend.Scan(ctx)
		require.NoError(t, err)

		_, err = svc.Import(ctx, []byte(doc), CheckFanOut(1))
		assert.True(t, errors.Is(err, domain.ErrInvalidSnapshot), "got %v", err)

		after, err := backend.Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestImportOverQuotaLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	src := newService(t, kv.NewMemory("src"), 0)
	seed(t, src)
	data, err := src.Export(ctx)
	require.NoError(t, err)

	backend := kv.NewMemory("lv")
	dst := newService(t, backend, 64)
	require.NoError(t, dst.SetItem(ctx, KeyLinks, []domain.Link{}))

	_, err = dst.Import(ctx, data)
	assert.True(t, errors.Is(err, domain.ErrQuotaExceeded), "got %v", err)

	v, _, err := backend.Get(ctx, KeyLinks)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v))
}

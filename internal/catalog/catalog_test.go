package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Samyk00/LinkVault/internal/domain"
)

var now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDefaultCatalogCoversEveryPlatform(t *testing.T) {
	folders, err := Default().Folders(now)
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}

	platforms := domain.Platforms()
	if len(folders) != len(platforms) {
		t.Fatalf("Folders() returned %d folders, want %d", len(folders), len(platforms))
	}
	for i, f := range folders {
		if f.Platform != platforms[i] {
			t.Errorf("folders[%d].Platform = %v, want %v", i, f.Platform, platforms[i])
		}
		if !f.IsPlatformFolder {
			t.Errorf("folders[%d] is not marked as a platform folder", i)
		}
		if f.ParentID != nil {
			t.Errorf("folders[%d] has a parent", i)
		}
		if f.ID == "" || f.Name == "" {
			t.Errorf("folders[%d] = %+v, want id and name", i, f)
		}
	}
}

func TestLoaderLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `---
platforms:
  - platform: GitHub
    name: Code
    color: "#000"
  - platform: youtube
    name: Videos
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	c, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	folders, err := c.Folders(now)
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}

	names := make(map[domain.Platform]string, len(folders))
	for _, f := range folders {
		names[f.Platform] = f.Name
	}
	tests := map[domain.Platform]string{
		domain.PlatformGitHub:  "Code",
		domain.PlatformYouTube: "Videos",
		domain.PlatformReddit:  "Reddit",
		domain.PlatformOther:   "Other",
	}
	for p, want := range tests {
		if names[p] != want {
			t.Errorf("folder name for %v = %q, want %q", p, names[p], want)
		}
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/catalog.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestFoldersRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown platform", yaml: "platforms:\n  - platform: myspace\n"},
		{name: "duplicate platform", yaml: "platforms:\n  - platform: reddit\n  - platform: reddit\n"},
		{name: "name too long", yaml: "platforms:\n  - platform: reddit\n    name: " + strings.Repeat("a", 51) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if _, err := c.Folders(now); err == nil {
				t.Error("Folders() should have failed")
			}
		})
	}
}

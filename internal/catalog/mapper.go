package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Samyk00/LinkVault/internal/domain"
)

// Folders builds exactly one platform root folder per known platform, in
// domain.Platforms() order. Platforms the catalog omits get a plain folder
// named after the platform; unknown or repeated catalog entries are an error.
func (c Catalog) Folders(now time.Time) ([]domain.Folder, error) {
	entries := make(map[domain.Platform]Entry, len(c.Platforms))
	for _, e := range c.Platforms {
		p := domain.Platform(strings.ToLower(strings.TrimSpace(e.Platform)))
		if !p.Valid() {
			return nil, fmt.Errorf("catalog: unknown platform %q", e.Platform)
		}
		if _, dup := entries[p]; dup {
			return nil, fmt.Errorf("catalog: platform %q listed twice", p)
		}
		entries[p] = e
	}

	platforms := domain.Platforms()
	folders := make([]domain.Folder, 0, len(platforms))
	for _, p := range platforms {
		e, ok := entries[p]
		name := strings.TrimSpace(e.Name)
		if !ok || name == "" {
			name = fallbackName(p)
		}
		name, err := domain.NormalizeFolderName(name)
		if err != nil {
			return nil, fmt.Errorf("catalog: folder for %q: %w", p, err)
		}
		folders = append(folders, domain.NewPlatformFolder(p, name, e.Color, e.Icon, now))
	}
	return folders, nil
}

// fallbackName capitalises the platform id: "reddit" -> "Reddit".
func fallbackName(p domain.Platform) string {
	s := string(p)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

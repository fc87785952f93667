package persistence

import (
	"time"

	"github.com/gosimple/slug"
)

// BackupFilename names an export file: linkvault-backup[-label]-YYYY-MM-DD.json.
func BackupFilename(label string, at time.Time) string {
	name := "linkvault-backup"
	if s := slug.Make(label); s != "" {
		name += "-" + s
	}
	return name + "-" + at.Format("2006-01-02") + ".json"
}

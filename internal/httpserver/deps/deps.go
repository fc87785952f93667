package deps

import (
	"context"
	"time"

	"github.com/Samyk00/LinkVault/internal/bulk"
	"github.com/Samyk00/LinkVault/internal/kv"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/metadata"
	"github.com/Samyk00/LinkVault/internal/store"
)

// MetadataFetcher resolves page metadata for a URL.
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawURL string) (metadata.Metadata, error)
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time  // for testing, defaults to time.Now
	AllowedHosts  []string          // Host headers allowed to access the server
	AllowedCIDRS  []string          // IPs allowed to access the API and probes
	TrustProxy    bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst     int               // mutating requests allowed in a burst per client IP
	RatePerMin    int               // refill rate per client IP
	Store         *store.Store      // this view of the dataset
	Bulk          *bulk.Coordinator // bulk actions over the store's selection
	Backend       kv.Backend        // durable backend, pinged by /infra
	Fetcher       MetadataFetcher   // nil disables metadata lookups
	ReloadTrigger chan struct{}     // Channel to trigger a manual reload from storage
}

// Now returns the current time from TimeNow, or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}

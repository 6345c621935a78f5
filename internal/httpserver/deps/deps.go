package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/toolhub/internal/catalog"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time    // for testing, defaults to time.Now
	AllowedHosts   []string            // Host headers allowed to reach admin routes
	AllowedCIDRS   []string            // IPs allowed to access readyz/metrics endpoints
	AdminCIDRS     []string            // IPs allowed to access admin routes
	CORSOrigins    []string            // allowed browser origins, empty = "*"
	TrustProxy     bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst      int                 // per-IP burst of the public API
	RatePerMin     int                 // per-IP refill rate of the public API
	RequestTimeout time.Duration       // per-request timeout
	Catalog        *catalog.Service    // fetch layer
	Gatherer       prometheus.Gatherer // metrics exposed on /metrics
	WarmTrigger    chan struct{}       // Channel to trigger a manual cache warm (nil if the warmer is disabled)
}

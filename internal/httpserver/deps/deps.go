package deps

import (
	"context"
	"time"

	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/logger"
)

// UsageCounter records redirects. Implemented by the Redis store.
type UsageCounter interface {
	IncrementUsage(ctx context.Context, token string) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	Resolver      *domain.RoomResolver  // token -> room URL
	Aliases       *domain.AliasRegistry // alias listing
	Usage         UsageCounter          // nil when Redis is not configured
	AllowedCIDRS  []string              // peers allowed to call mutating endpoints
	ReloadTrigger chan struct{}         // manual config reload
}

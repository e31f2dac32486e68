package roomservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/logger"
	"github.com/vladlyt/mj/internal/utils"
)

// maxExportBytes caps the export body we are willing to decode.
const maxExportBytes = 16 << 20

// Client talks to the remote room service.
type Client struct {
	host   string
	http   *http.Client
	logger logger.Logger
}

// New creates a client for host. timeout bounds every request.
func New(host string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		host:   strings.TrimRight(host, "/"),
		http:   &http.Client{Timeout: timeout},
		logger: log.With(logger.Component("roomservice")),
	}
}

// ExportURL returns the export endpoint of a room.
func (c *Client) ExportURL(roomID string) string {
	return fmt.Sprintf("%s/export/%s", c.host, url.PathEscape(roomID))
}

// FetchExport implements domain.ExportFetcher. Any failure (transport,
// non-2xx status, undecodable body) is logged and reported as ok=false.
func (c *Client) FetchExport(ctx context.Context, roomID string) (domain.Sessions, bool) {
	sessions, err := c.fetchExport(ctx, roomID)
	if err != nil {
		c.logger.Warn("export unavailable",
			logger.String("room", roomID),
			logger.Error(err))
		return nil, false
	}

	c.logger.Debug("export fetched",
		logger.String("room", roomID),
		logger.Int("sessions", len(sessions)))
	return sessions, true
}

func (c *Client) fetchExport(ctx context.Context, roomID string) (domain.Sessions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ExportURL(roomID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var sessions domain.Sessions
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxExportBytes)).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return sessions, nil
}

package remote

import (
	"context"
	"fmt"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/metrics"
)

// SyncResult describes one sync pass.
type SyncResult struct {
	// Entries is the mirror's library after the push, or the local library
	// when the pass failed.
	Entries []domain.Entry
	Pushed  int
	// PushedIDs lists the entries created on the mirror by this pass.
	PushedIDs []string
	// Updated and Deleted count local edits and deletions sent to the mirror.
	Updated int
	Deleted int
	// Err is set when the pass failed and Entries is the local fallback.
	Err error
}

// Sync pushes every local entry whose id the mirror does not hold, then
// re-reads the mirror. Entries present on both sides are never compared.
// Any failure is logged and the local library is returned unchanged.
func (c *Client) Sync(ctx context.Context, local []domain.Entry) SyncResult {
	res := c.sync(ctx, local)
	metrics.RecordSync(res.Err)
	if res.Err != nil {
		c.logger.Warn("sync failed, using local data", "error", res.Err, "pushed", res.Pushed)
		res.Entries = local
	} else {
		c.logger.Info("sync complete", "pushed", res.Pushed, "entries", len(res.Entries))
	}
	return res
}

func (c *Client) sync(ctx context.Context, local []domain.Entry) SyncResult {
	remote, err := c.List(ctx)
	if err != nil {
		return SyncResult{Err: fmt.Errorf("list mirror: %w", err)}
	}

	known := make(map[string]struct{}, len(remote))
	for _, e := range remote {
		known[e.ID] = struct{}{}
	}

	var pushed []string
	for _, e := range local {
		if _, ok := known[e.ID]; ok {
			continue
		}
		if err := c.Upsert(ctx, e); err != nil {
			return SyncResult{Pushed: len(pushed), PushedIDs: pushed, Err: fmt.Errorf("push %s: %w", e.ID, err)}
		}
		pushed = append(pushed, e.ID)
	}

	after, err := c.List(ctx)
	if err != nil {
		return SyncResult{Pushed: len(pushed), PushedIDs: pushed, Err: fmt.Errorf("re-read mirror: %w", err)}
	}
	return SyncResult{Entries: after, Pushed: len(pushed), PushedIDs: pushed}
}

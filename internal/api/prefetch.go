package api

import (
	"context"

	"github.com/aiwuxian/tile-crawler/internal/scheduler"
)

// HandlePrefetchTask is the scheduler.Handler this package hands to
// Session.StartScheduler: it generates (if needed) and narrates the room at
// task.Coordinate by calling ensureRoomNarrated, exactly as a foreground
// visit does, so a room reached by prefetch arrives with Enriched already
// true and costs the player no wait. The request goes out as
// ROOM_DESCRIPTION, not ENRICHMENT, so the router admits it as foreground
// work: it may use the rate limiter's reserved headroom and is not ordered
// behind player-visible requests.
func (e *Engine) HandlePrefetchTask(ctx context.Context, task scheduler.Task) error {
	room, _ := e.Session.World.GetOrGenerateRoom(task.Coordinate)
	e.ensureRoomNarrated(ctx, room)
	return nil
}

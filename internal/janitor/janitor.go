// Package janitor removes stored media whose owning offer or user is gone.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// References lists reference ids that no longer match an offer or a user.
type References interface {
	OrphanedReferences(ctx context.Context) ([]uuid.UUID, error)
}

// Remover deletes every media file of a reference.
type Remover interface {
	RemoveAllForReference(ctx context.Context, referenceID uuid.UUID) (int, error)
}

type Janitor struct {
	refs     References
	media    Remover
	interval time.Duration
	logger   *slog.Logger
}

func New(refs References, media Remover, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		refs:     refs,
		media:    media,
		interval: interval,
		logger:   logger,
	}
}

// Start sweeps once immediately and then on every tick until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Media janitor started", "interval", j.interval.String())

	j.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Media janitor shutting down")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep removes the media of every orphaned reference and returns how many
// files were deleted. A failing reference is logged and skipped.
func (j *Janitor) Sweep(ctx context.Context) int {
	startTime := time.Now()

	refs, err := j.refs.OrphanedReferences(ctx)
	if err != nil {
		j.logger.Error("Failed to list orphaned media references",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return 0
	}

	removed := 0
	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		n, err := j.media.RemoveAllForReference(ctx, ref)
		removed += n
		if err != nil {
			j.logger.Error("Failed to remove orphaned media",
				"reference_id", ref.String(),
				"error", err.Error())
		}
	}

	duration := time.Since(startTime)
	j.logger.Info("Completed orphaned media cleanup",
		"references", len(refs),
		"files_deleted", removed,
		"duration_ms", duration.Milliseconds())
	return removed
}

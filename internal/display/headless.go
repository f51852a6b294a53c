package display

import (
	"context"
	"log/slog"

	"github.com/taigrr/scanline/internal/app"
)

// Headless steps a fixed number of frames at a fixed rate and optionally
// writes the last one to disk.
type Headless struct {
	Frames int
	FPS    int
	Input  app.Input // Nil means no keys held

	Snapshot       string
	SnapshotWidth  int
	SnapshotHeight int
}

// Run steps the app Frames times, stopping early if it quits.
func (h *Headless) Run(ctx context.Context, a *app.App) error {
	dt := frameTime(h.FPS)
	in := h.Input
	if in == nil {
		in = app.NoInput{}
	}

	frames := 0
	for ; frames < h.Frames && a.Running(); frames++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.Step(dt, in)
	}

	stats := a.Stats()
	slog.Info("headless run finished",
		"frames", frames,
		"triangles", stats.Triangles,
		"degenerate", stats.Degenerate,
		"pixels", stats.Pixels,
		"culled", stats.Culling.Culled,
	)

	if h.Snapshot == "" {
		return nil
	}
	return SaveSnapshot(a, h.Snapshot, h.SnapshotWidth, h.SnapshotHeight)
}

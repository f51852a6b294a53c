// Package display runs an app.App against a presenter: the terminal, a
// desktop window, or nothing at all.
package display

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taigrr/scanline/internal/app"
	"github.com/taigrr/scanline/pkg/render"
)

// maxFrameTime caps dt after a stall so the camera does not jump.
const maxFrameTime = 0.1

// Presenter drives the app until it quits or ctx is done.
type Presenter interface {
	Run(ctx context.Context, a *app.App) error
}

// SaveSnapshot writes the presented frame to path. A zero width or height
// keeps the frame size.
func SaveSnapshot(a *app.App, path string, width, height int) error {
	if err := render.SaveSnapshot(a.Present(), path, width, height); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	slog.Info("wrote snapshot", "path", path)
	return nil
}

func frameTime(fps int) float64 {
	if fps <= 0 {
		fps = 60
	}
	return 1 / float64(fps)
}

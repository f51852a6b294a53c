// scanline - span-table software rasterizer
// Draws a textured mesh on the CPU and shows it in the terminal, a window,
// or writes it straight to an image file.
//
// Controls:
//
//	Left/Right  - Move the eye along X
//	Up/Down     - Move the eye along Y
//	W/S         - Move the look-at target down/up
//	A/D         - Move the look-at target left/right
//	F/G         - Widen/narrow the field of view
//	1-4         - Wireframe, vertex colors, textured, normal-mapped Phong
//	Space       - Spin every instance
//	M/N         - Add/remove an instance
//	O           - Toggle the axes and ground grid
//	Esc         - Quit
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/taigrr/scanline/internal/app"
	"github.com/taigrr/scanline/internal/config"
	"github.com/taigrr/scanline/internal/display"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
	"golang.org/x/sync/errgroup"
)

var (
	configPath   = flag.String("config", "", "Path to a JSON config file")
	meshPath     = flag.String("mesh", "", "Mesh file (.obj, .glb, .gltf)")
	texturePath  = flag.String("texture", "", "Color texture (TGA, PNG, JPG)")
	normalPath   = flag.String("normal", "", "Normal map for the Phong mode")
	displayFlag  = flag.String("display", "", "terminal, window or headless")
	modeFlag     = flag.String("mode", "", "Drawing mode: 1-4 or wireframe, barycentric, textured, phong")
	snapshotPath = flag.String("snapshot", "", "Write the last frame to this file (.png, .webp, .tga)")
	widthFlag    = flag.Int("width", 0, "Frame width for window and headless displays")
	heightFlag   = flag.Int("height", 0, "Frame height for window and headless displays")
	fpsFlag      = flag.Int("fps", 0, "Target FPS")
	framesFlag   = flag.Int("frames", 0, "Frames to render in headless mode")
	workersFlag  = flag.Int("workers", 0, "Goroutines per triangle fill")
	toleranceArg = flag.Float64("tolerance", -1, "Barycentric inside tolerance")
	noSmooth     = flag.Bool("no-smooth", false, "Move the camera without easing")
	logLevel     = flag.String("log-level", "", "debug, info, warn or error")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scanline - software triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scanline [options] [mesh]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Move the eye\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move the look-at target\n")
		fmt.Fprintf(os.Stderr, "  F/G         - Field of view\n")
		fmt.Fprintf(os.Stderr, "  1-4         - Drawing mode\n")
		fmt.Fprintf(os.Stderr, "  Space       - Spin instances\n")
		fmt.Fprintf(os.Stderr, "  M/N         - Add/remove an instance\n")
		fmt.Fprintf(os.Stderr, "  O           - Toggle guides\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	mesh := *meshPath
	if mesh == "" && flag.NArg() > 0 {
		mesh = flag.Arg(0)
	}
	cfg.Resolve(config.Flags{
		Mesh:      mesh,
		Texture:   *texturePath,
		NormalMap: *normalPath,
		Display:   *displayFlag,
		Mode:      *modeFlag,
		Snapshot:  *snapshotPath,
		Width:     *widthFlag,
		Height:    *heightFlag,
		FPS:       *fpsFlag,
		Frames:    *framesFlag,
		Workers:   *workersFlag,
		Tolerance: *toleranceArg,
		NoSmooth:  *noSmooth,
		LogLevel:  *logLevel,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal display owns stdout and stderr while it runs, so logs
	// are held back until it exits.
	logs := &lockedBuffer{}
	var logOut io.Writer = os.Stderr
	if cfg.Display == config.DisplayTerminal {
		logOut = logs
	}
	defer logs.WriteTo(os.Stderr)

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger.With("pkg", "render"))

	opts, m, err := buildOptions(&cfg)
	if err != nil {
		return err
	}
	a := app.New(m, opts)
	slog.Info("loaded scene",
		"mesh", m.Name,
		"vertices", m.VertexCount(),
		"triangles", m.TriangleCount(),
		"mode", a.Mode(),
		"display", cfg.Display,
	)

	snapW, snapH, _ := cfg.SnapshotDims()
	var presenter display.Presenter
	switch cfg.Display {
	case config.DisplayWindow:
		presenter = &display.Window{Title: "scanline - " + m.Name, FPS: cfg.FPS}
	case config.DisplayHeadless:
		presenter = &display.Headless{
			Frames:         cfg.Frames,
			FPS:            cfg.FPS,
			Snapshot:       cfg.Snapshot,
			SnapshotWidth:  snapW,
			SnapshotHeight: snapH,
		}
	default:
		presenter = &display.Terminal{FPS: cfg.FPS}
	}

	if err := presenter.Run(context.Background(), a); err != nil {
		return err
	}
	if cfg.Display != config.DisplayHeadless && cfg.Snapshot != "" {
		return display.SaveSnapshot(a, cfg.Snapshot, snapW, snapH)
	}
	return nil
}

// buildOptions loads the assets named by cfg. A missing mesh draws
// nothing; a missing color texture is fatal; a missing normal map falls
// back to a flat normal.
func buildOptions(cfg *config.Config) (app.Options, *models.Mesh, error) {
	mode, _ := cfg.RenderMode()
	filter, _ := cfg.FilterMode()
	bg, _ := cfg.BackgroundColor()

	opts := app.DefaultOptions()
	opts.Width, opts.Height = cfg.Width, cfg.Height
	opts.Mode = mode
	opts.Filter = filter
	opts.Background = bg
	opts.Fill = render.FillOptions{Tolerance: cfg.FillTolerance(), Workers: cfg.Workers}
	opts.Smooth = cfg.Smooth()

	// Assets load concurrently. Only the color texture can fail the run.
	var (
		g        errgroup.Group
		mesh     *models.Mesh
		embedded image.Image
		tex      *render.Image
	)
	g.Go(func() error {
		mesh, embedded = loadMesh(cfg.Mesh, cfg.Fit)
		return nil
	})
	if cfg.Texture != "" {
		g.Go(func() error {
			var err error
			if tex, err = render.LoadTexture(cfg.Texture); err != nil {
				return fmt.Errorf("texture: %w", err)
			}
			return nil
		})
	}
	if cfg.NormalMap != "" {
		g.Go(func() error {
			normal, err := render.LoadTexture(cfg.NormalMap)
			if err != nil {
				slog.Warn("normal map not loaded, using flat normals", "path", cfg.NormalMap, "err", err)
				return nil
			}
			opts.NormalMap = normal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return opts, nil, err
	}

	if mat := mesh.GetMaterial(0); mat != nil {
		c := mat.BaseColor
		opts.Material.Diffuse = math3d.V3(c[0], c[1], c[2])
	}

	switch {
	case tex != nil:
		opts.Texture = tex
	case embedded != nil:
		opts.Texture = render.FromImage(embedded)
		slog.Info("using embedded texture", "width", opts.Texture.Width, "height", opts.Texture.Height)
	default:
		return opts, nil, fmt.Errorf("texture: %s embeds none and no -texture given", cfg.Mesh)
	}
	return opts, mesh, nil
}

func loadMesh(path string, fit float64) (*models.Mesh, image.Image) {
	if path == "" {
		slog.Warn("no mesh given, drawing nothing")
		return models.NewMesh("empty"), nil
	}

	var (
		mesh     *models.Mesh
		embedded image.Image
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		var stats models.OBJStats
		mesh, stats, err = models.LoadOBJ(path)
		if err == nil && stats.SkippedFaces > 0 {
			slog.Warn("skipped non-triangle faces", "path", path, "count", stats.SkippedFaces)
		}
	case ".glb", ".gltf":
		mesh, embedded, err = models.LoadGLBWithTexture(path)
	default:
		err = fmt.Errorf("unsupported format %s (use .obj, .glb or .gltf)", ext)
	}
	if err != nil {
		slog.Warn("mesh not loaded, drawing nothing", "path", path, "err", err)
		return models.NewMesh(filepath.Base(path)), nil
	}

	if fit > 0 {
		mesh.Fit(fit)
	}
	return mesh, embedded
}

// lockedBuffer is a log sink shared by the frame loop and the render
// workers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.WriteTo(w)
}

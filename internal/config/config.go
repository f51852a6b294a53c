// Package config loads viewer settings from a JSON file and command-line
// flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/taigrr/scanline/pkg/render"
)

// Display backends.
const (
	DisplayTerminal = "terminal"
	DisplayWindow   = "window"
	DisplayHeadless = "headless"
)

// Config holds asset paths and render settings.
type Config struct {
	// Assets
	Mesh      string  `json:"mesh"`
	Texture   string  `json:"texture"`
	NormalMap string  `json:"normal_map"`
	Fit       float64 `json:"fit"` // Scale the mesh to this height (0 keeps it as is)

	// Output
	Display      string `json:"display"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FPS          int    `json:"fps"`
	Frames       int    `json:"frames"`        // Headless frame count
	Snapshot     string `json:"snapshot"`      // Written when the viewer exits
	SnapshotSize string `json:"snapshot_size"` // WxH, empty keeps the frame size

	// Rendering
	Mode         string   `json:"mode"`
	Filter       string   `json:"filter"`
	Background   string   `json:"background"` // R,G,B
	Workers      int      `json:"workers"`
	Tolerance    *float64 `json:"tolerance"`
	SmoothCamera *bool    `json:"smooth_camera"`

	LogLevel string `json:"log_level"`
}

// Flags holds CLI flag values that override config file settings.
// Zero values mean the flag was not given.
type Flags struct {
	Mesh      string
	Texture   string
	NormalMap string
	Display   string
	Mode      string
	Snapshot  string
	Width     int
	Height    int
	FPS       int
	Frames    int
	Workers   int
	Tolerance float64 // Negative when unset
	NoSmooth  bool
	LogLevel  string
}

// Load reads a JSON config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flags over the file settings, then fills defaults.
func (c *Config) Resolve(flags Flags) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}

	setString(&c.Mesh, flags.Mesh)
	setString(&c.Texture, flags.Texture)
	setString(&c.NormalMap, flags.NormalMap)
	setString(&c.Display, flags.Display)
	setString(&c.Mode, flags.Mode)
	setString(&c.Snapshot, flags.Snapshot)
	setString(&c.LogLevel, flags.LogLevel)
	setInt(&c.Width, flags.Width)
	setInt(&c.Height, flags.Height)
	setInt(&c.FPS, flags.FPS)
	setInt(&c.Frames, flags.Frames)
	setInt(&c.Workers, flags.Workers)
	if flags.Tolerance >= 0 {
		tol := flags.Tolerance
		c.Tolerance = &tol
	}
	if flags.NoSmooth {
		off := false
		c.SmoothCamera = &off
	}

	if c.Display == "" {
		c.Display = DisplayTerminal
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.Mode == "" {
		c.Mode = render.ModeTextured.String()
	}
	if c.Filter == "" {
		c.Filter = "nearest"
	}
	if c.Background == "" {
		c.Background = "40,45,60"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Tolerance == nil {
		tol := render.DefaultTolerance
		c.Tolerance = &tol
	}
	if c.SmoothCamera == nil {
		on := true
		c.SmoothCamera = &on
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	switch c.Display {
	case DisplayTerminal, DisplayWindow, DisplayHeadless:
	default:
		errs = append(errs, fmt.Errorf("display %q: want terminal, window or headless", c.Display))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d: must be positive", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d: must be positive", c.FPS))
	}
	if c.Fit < 0 {
		errs = append(errs, fmt.Errorf("fit %v: must not be negative", c.Fit))
	}
	if tol := c.FillTolerance(); tol < 0 || tol > 1 {
		errs = append(errs, fmt.Errorf("tolerance %v: want [0, 1]", tol))
	}
	if c.Texture == "" && !c.EmbedsTexture() {
		errs = append(errs, errors.New("texture: required unless the mesh is glTF"))
	}
	if _, err := c.RenderMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseFilter(c.Filter); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := c.SnapshotDims(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// RenderMode parses Mode.
func (c *Config) RenderMode() (render.Mode, error) {
	return render.ParseMode(c.Mode)
}

// FilterMode parses Filter.
func (c *Config) FilterMode() (render.FilterMode, error) {
	return render.ParseFilter(c.Filter)
}

// BackgroundColor parses Background as "R,G,B".
func (c *Config) BackgroundColor() (render.Color, error) {
	parts := strings.Split(c.Background, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("background %q: want R,G,B", c.Background)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("background %q: %w", c.Background, err)
		}
		ch[i] = uint8(v)
	}
	return render.RGB(ch[0], ch[1], ch[2]), nil
}

// SnapshotDims parses SnapshotSize as "WxH". Both are zero when unset.
func (c *Config) SnapshotDims() (width, height int, err error) {
	if c.SnapshotSize == "" {
		return 0, 0, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(c.SnapshotSize), "x")
	if ok {
		width, err = strconv.Atoi(w)
		if err == nil {
			height, err = strconv.Atoi(h)
		}
	}
	if !ok || err != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("snapshot_size %q: want WxH", c.SnapshotSize)
	}
	return width, height, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// EmbedsTexture reports whether the mesh format can carry its own color
// texture.
func (c *Config) EmbedsTexture() bool {
	switch strings.ToLower(filepath.Ext(c.Mesh)) {
	case ".glb", ".gltf":
		return true
	}
	return false
}

// FillTolerance returns the barycentric inside tolerance. Zero is a
// strict inside test.
func (c *Config) FillTolerance() float64 {
	if c.Tolerance == nil {
		return render.DefaultTolerance
	}
	return *c.Tolerance
}

// Smooth reports whether camera moves are eased.
func (c *Config) Smooth() bool {
	return c.SmoothCamera == nil || *c.SmoothCamera
}

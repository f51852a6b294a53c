package main

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/taigrr/scanline/internal/config"
	"github.com/taigrr/scanline/pkg/render"
)

func testConfig(t *testing.T, flags config.Flags) *config.Config {
	t.Helper()
	var cfg config.Config
	flags.Tolerance = -1 // Unset
	cfg.Resolve(flags)
	return &cfg
}

func writeTexture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := render.NewCheckerTexture(4, 4, 2, render.ColorWhite, render.ColorGray).SaveTGA(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildOptions(t *testing.T) {
	tex := writeTexture(t, "color.tga")
	missing := filepath.Join(t.TempDir(), "missing.tga")

	tests := []struct {
		name       string
		flags      config.Flags
		wantErr    error
		wantNormal bool
	}{
		{"texture only", config.Flags{Texture: tex}, nil, false},
		{"with normal map", config.Flags{Texture: tex, NormalMap: tex}, nil, true},
		{"missing normal map falls back", config.Flags{Texture: tex, NormalMap: missing}, nil, false},
		{"missing texture is fatal", config.Flags{Texture: missing}, fs.ErrNotExist, false},
		{"missing mesh keeps going", config.Flags{Texture: tex, Mesh: filepath.Join(t.TempDir(), "lee.obj")}, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts, mesh, err := buildOptions(testConfig(t, tc.flags))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildOptions: %v", err)
			}
			if mesh == nil || mesh.TriangleCount() != 0 {
				t.Errorf("mesh = %v, want empty", mesh)
			}
			if opts.Texture == nil || opts.Texture.Width != 4 {
				t.Errorf("texture not loaded: %+v", opts.Texture)
			}
			if got := opts.NormalMap != nil; got != tc.wantNormal {
				t.Errorf("normal map loaded = %v, want %v", got, tc.wantNormal)
			}
		})
	}
}

func TestBuildOptionsGLBWithoutImage(t *testing.T) {
	// A glTF mesh that fails to load embeds nothing, so there is no texture.
	cfg := testConfig(t, config.Flags{Mesh: filepath.Join(t.TempDir(), "lee.glb")})
	if _, _, err := buildOptions(cfg); err == nil {
		t.Error("expected an error without any texture")
	}
}

func TestBuildOptionsZeroTolerance(t *testing.T) {
	cfg := testConfig(t, config.Flags{Texture: writeTexture(t, "color.tga")})
	zero := 0.0
	cfg.Tolerance = &zero

	opts, _, err := buildOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Fill.Tolerance != 0 {
		t.Errorf("fill tolerance = %v, want 0", opts.Fill.Tolerance)
	}
}

package staticmap

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/s0ultr4d3r/staticmap/canvas"
	"github.com/s0ultr4d3r/staticmap/tiles"
)

// Render composes the map and writes it to outPath; the format follows the
// file extension (.jpg/.jpeg or PNG). Nothing is written unless the whole
// render succeeds.
func (m *Map) Render(ctx context.Context, outPath string, opts ...Option) error {
	if outPath == "" {
		return configErr("output", "missing output path")
	}
	c, err := m.compose(ctx, opts...)
	if err != nil {
		return err
	}

	tmpOut := outPath + ".part"
	if err := writeCanvas(c, tmpOut, canvas.FormatFor(outPath)); err != nil {
		_ = os.Remove(tmpOut)
		return &CanvasError{Op: "write", Err: err}
	}
	if err := os.Rename(tmpOut, outPath); err != nil {
		if err := copyFile(tmpOut, outPath); err != nil {
			_ = os.Remove(tmpOut)
			return &CanvasError{Op: "write", Err: fmt.Errorf("rename/copy: %w", err)}
		}
		_ = os.Remove(tmpOut)
	}
	Logger().Info("map rendered", "out", outPath)
	return nil
}

// RenderAsync runs Render on its own goroutine. The channel receives exactly
// one value, nil on success, and is then closed.
func (m *Map) RenderAsync(ctx context.Context, outPath string, opts ...Option) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- m.Render(ctx, outPath, opts...)
	}()
	return done
}

// RenderImage composes the map in memory.
func (m *Map) RenderImage(ctx context.Context, opts ...Option) (image.Image, error) {
	c, err := m.compose(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// RenderTo composes the map and encodes it to w.
func (m *Map) RenderTo(ctx context.Context, w io.Writer, f canvas.Format, opts ...Option) error {
	c, err := m.compose(ctx, opts...)
	if err != nil {
		return err
	}
	if err := c.Encode(w, f); err != nil {
		return &CanvasError{Op: "encode", Err: err}
	}
	return nil
}

func (m *Map) compose(ctx context.Context, opts ...Option) (canvas.Canvas, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v, err := m.ResolveViewport()
	if err != nil {
		return nil, err
	}

	transport := o.transport
	if transport == nil {
		t, err := tiles.NewHTTPTransport("", 0, 1)
		if err != nil {
			return nil, err
		}
		t.Headers = m.headers
		transport = t
	}

	c, err := o.newCanvas(m.width, m.height, o.background)
	if err != nil {
		return nil, &CanvasError{Op: "create", Err: err}
	}

	grid := tiles.Grid(v)
	orch := &tiles.Orchestrator{
		Transport:   transport,
		Template:    m.template,
		TileSize:    m.tileSize,
		Attempts:    o.attempts,
		Timeouts:    o.timeouts,
		Backoff:     o.backoff,
		Concurrency: o.concurrency,
		OnProgress:  o.progress,
	}
	err = orch.Run(ctx, grid, func(t tiles.Tile, img image.Image) error {
		at := t.Offset(v)
		if err := c.Paste(img, at.X, at.Y); err != nil {
			return &CanvasError{Op: "paste " + t.String(), Err: err}
		}
		Logger().Debug("tile pasted", "tile", t.String(), "x", at.X, "y", at.Y)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := drawFeatures(c, v, m.features(), o.simplifier); err != nil {
		return nil, err
	}
	return c, nil
}

func writeCanvas(c canvas.Canvas, path string, f canvas.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}

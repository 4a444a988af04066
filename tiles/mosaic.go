package tiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"sync"
	"time"

	_ "image/gif"

	xdraw "golang.org/x/image/draw"
)

// DefaultAttempts is how many times a tile is tried before the render fails.
const DefaultAttempts = 3

// FetchError reports a tile that failed every attempt.
type FetchError struct {
	Tile     Tile
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("tile %s: %d attempt(s) failed: %v", e.Tile, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PasteFunc receives each decoded tile, always in grid order.
type PasteFunc func(t Tile, img image.Image) error

// Orchestrator fetches the tiles of a grid and hands them to a PasteFunc.
type Orchestrator struct {
	Transport Transport
	Template  string
	TileSize  int
	Attempts  int
	Timeouts  Timeouts

	// Backoff returns the pause after failed attempt n (0-based).
	Backoff func(attempt int) time.Duration

	// Concurrency bounds parallel fetches. Values below 2 fetch one tile at
	// a time on the calling goroutine.
	Concurrency int

	// OnProgress, if set, is called after every paste.
	OnProgress func(done, total int)
}

// DefaultBackoff waits a little longer after every failed attempt.
func DefaultBackoff(attempt int) time.Duration {
	return time.Duration(200+attempt*250) * time.Millisecond
}

func (o *Orchestrator) attempts() int {
	if o.Attempts < 1 {
		return DefaultAttempts
	}
	return o.Attempts
}

func (o *Orchestrator) timeouts() Timeouts {
	if o.Timeouts == (Timeouts{}) {
		return DefaultTimeouts
	}
	return o.Timeouts
}

// Run fetches every tile and pastes it. The first tile that exhausts its
// attempts, or the first paste error, stops the run.
func (o *Orchestrator) Run(ctx context.Context, grid []Tile, paste PasteFunc) error {
	if o.Transport == nil {
		return errors.New("tiles: orchestrator has no transport")
	}
	if o.Concurrency < 2 || len(grid) < 2 {
		return o.runSerial(ctx, grid, paste)
	}
	return o.runPool(ctx, grid, paste)
}

func (o *Orchestrator) runSerial(ctx context.Context, grid []Tile, paste PasteFunc) error {
	for i, t := range grid {
		img, err := o.fetch(ctx, t)
		if err != nil {
			return err
		}
		if err := paste(t, img); err != nil {
			return err
		}
		o.progress(i+1, len(grid))
	}
	return nil
}

type fetched struct {
	idx int
	img image.Image
	err error
}

func (o *Orchestrator) runPool(ctx context.Context, grid []Tile, paste PasteFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make(chan fetched, len(grid))
	var wg sync.WaitGroup

	workers := min(o.Concurrency, len(grid))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				img, err := o.fetch(ctx, grid[idx])
				results <- fetched{idx: idx, img: img, err: err}
				if err != nil {
					return
				}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for idx := range grid {
			select {
			case <-ctx.Done():
				return
			case jobs <- idx:
			}
		}
	}()
	defer wg.Wait()

	// reorder buffer: tiles finish in any order but are pasted by index
	pending := make(map[int]image.Image)
	next := 0
	for next < len(grid) {
		var r fetched
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r = <-results:
		}
		if r.err != nil {
			cancel()
			return r.err
		}
		pending[r.idx] = r.img
		for {
			img, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := paste(grid[next], img); err != nil {
				cancel()
				return err
			}
			next++
			o.progress(next, len(grid))
		}
	}
	return nil
}

func (o *Orchestrator) progress(done, total int) {
	if o.OnProgress != nil {
		o.OnProgress(done, total)
	}
}

// fetch tries one tile up to Attempts times.
func (o *Orchestrator) fetch(ctx context.Context, t Tile) (image.Image, error) {
	u, err := t.URL(o.Template)
	if err != nil {
		return nil, &FetchError{Tile: t, URL: u, Err: err}
	}
	backoff := o.Backoff
	if backoff == nil {
		backoff = DefaultBackoff
	}

	n := o.attempts()
	var lastErr error
	for attempt := 0; attempt < n; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := o.Transport.Get(ctx, u, o.timeouts())
		if err == nil {
			var img image.Image
			img, _, err = DecodeTile(data, o.TileSize)
			if err == nil {
				Logger().Debug("tile fetched", "tile", t.String(), "attempt", attempt+1)
				return img, nil
			}
			err = fmt.Errorf("decode tile %s: %w", u, err)
		}
		lastErr = err
		Logger().Debug("tile attempt failed", "tile", t.String(), "attempt", attempt+1, "err", err)
		if attempt+1 < n {
			if err := sleepCtx(ctx, backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, &FetchError{Tile: t, URL: u, Attempts: n, Err: lastErr}
}

// DecodeTile decodes PNG, JPEG or GIF tile bytes. Tiles whose size differs
// from tileSize are scaled to it.
func DecodeTile(b []byte, tileSize int) (image.Image, string, error) {
	var (
		img    image.Image
		format string
		err    error
	)
	switch {
	// Fast path: check first bytes for PNG/JPEG
	case len(b) >= 8 && bytes.Equal(b[:8], []byte{137, 80, 78, 71, 13, 10, 26, 10}):
		img, err = png.Decode(bytes.NewReader(b))
		format = "png"
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		img, err = jpeg.Decode(bytes.NewReader(b))
		format = "jpeg"
	default:
		img, format, err = image.Decode(bytes.NewReader(b))
	}
	if err != nil {
		return nil, format, err
	}
	if tileSize <= 0 {
		return img, format, nil
	}
	if sb := img.Bounds(); sb.Dx() != tileSize || sb.Dy() != tileSize {
		dst := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, sb, draw.Src, nil)
		img = dst
	}
	return img, format, nil
}

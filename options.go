package staticmap

import (
	"image/color"
	"time"

	"github.com/s0ultr4d3r/staticmap/canvas"
	"github.com/s0ultr4d3r/staticmap/tiles"
)

type renderOptions struct {
	transport   tiles.Transport
	newCanvas   canvas.Factory
	background  color.Color
	attempts    int
	timeouts    tiles.Timeouts
	backoff     func(int) time.Duration
	concurrency int
	simplifier  Simplifier
	progress    func(done, total int)
}

func defaultRenderOptions() renderOptions {
	return renderOptions{
		newCanvas:   canvas.NewGG,
		background:  color.White,
		attempts:    tiles.DefaultAttempts,
		timeouts:    tiles.DefaultTimeouts,
		concurrency: 1,
		simplifier:  Greedy{Tolerance: DefaultTolerance},
	}
}

// Option configures a render.
type Option func(*renderOptions)

// WithTransport replaces the HTTP tile transport.
func WithTransport(t tiles.Transport) Option {
	return func(o *renderOptions) { o.transport = t }
}

// WithCanvasFactory replaces the gg canvas.
func WithCanvasFactory(f canvas.Factory) Option {
	return func(o *renderOptions) { o.newCanvas = f }
}

// WithBackground sets the canvas color shown where no tile is pasted.
func WithBackground(c color.Color) Option {
	return func(o *renderOptions) { o.background = c }
}

// WithRetry sets the attempts per tile and the pause between attempts.
// A nil backoff keeps the default.
func WithRetry(attempts int, backoff func(attempt int) time.Duration) Option {
	return func(o *renderOptions) {
		o.attempts = attempts
		if backoff != nil {
			o.backoff = backoff
		}
	}
}

// WithTimeouts bounds each tile attempt.
func WithTimeouts(connect, transfer time.Duration) Option {
	return func(o *renderOptions) { o.timeouts = tiles.Timeouts{Connect: connect, Transfer: transfer} }
}

// WithConcurrency fetches up to n tiles at once. Tiles are still pasted in
// grid order.
func WithConcurrency(n int) Option {
	return func(o *renderOptions) { o.concurrency = n }
}

// WithSimplifyTolerance sets the greedy simplifier tolerance in pixels.
func WithSimplifyTolerance(px float64) Option {
	return func(o *renderOptions) { o.simplifier = Greedy{Tolerance: px} }
}

// WithSimplifier replaces the path simplifier.
func WithSimplifier(s Simplifier) Option {
	return func(o *renderOptions) { o.simplifier = s }
}

// WithProgress is called after every pasted tile.
func WithProgress(fn func(done, total int)) Option {
	return func(o *renderOptions) { o.progress = fn }
}

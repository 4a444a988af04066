package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"
)

// Op is one call recorded by a Recorder.
type Op struct {
	Kind        string // "paste", "polyline", "polygon", "circle"
	Points      []image.Point
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// Recorder is a Canvas that keeps a log of every primitive it receives.
// Pasted tiles are composited onto an RGBA image; vector shapes are only
// recorded. It is useful for dry runs and for checking draw order.
type Recorder struct {
	mu     sync.Mutex
	img    *image.RGBA
	ops    []Op
	fill   color.Color
	stroke color.Color
	width  float64

	// FailOn makes the named primitive return this error.
	FailOn  string
	FailErr error
}

// NewRecorder is a Factory for Recorder canvases.
func NewRecorder(width, height int, bg color.Color) (Canvas, error) {
	r := &Recorder{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	if bg != nil {
		draw.Draw(r.img, r.img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	}
	return r, nil
}

func (r *Recorder) record(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn == op.Kind && r.FailErr != nil {
		return r.FailErr
	}
	r.ops = append(r.ops, op)
	return nil
}

func (r *Recorder) Paste(img image.Image, x, y int) error {
	if err := r.record(Op{Kind: "paste", Points: []image.Point{{X: x, Y: y}}}); err != nil {
		return err
	}
	b := img.Bounds()
	draw.Draw(r.img, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
	return nil
}

func (r *Recorder) SetFillColor(c color.Color)   { r.fill = c }
func (r *Recorder) SetStrokeColor(c color.Color) { r.stroke = c }
func (r *Recorder) SetStrokeWidth(w float64)     { r.width = w }

func (r *Recorder) shape(kind string, pts []image.Point) error {
	cp := make([]image.Point, len(pts))
	copy(cp, pts)
	return r.record(Op{Kind: kind, Points: cp, Fill: r.fill, Stroke: r.stroke, StrokeWidth: r.width})
}

func (r *Recorder) DrawPolyline(pts []image.Point) error { return r.shape("polyline", pts) }
func (r *Recorder) DrawPolygon(pts []image.Point) error  { return r.shape("polygon", pts) }

func (r *Recorder) DrawCircle(center, edge image.Point) error {
	return r.shape("circle", []image.Point{center, edge})
}

// Encode always writes PNG.
func (r *Recorder) Encode(w io.Writer, _ Format) error {
	if r.FailOn == "encode" && r.FailErr != nil {
		return r.FailErr
	}
	return png.Encode(w, r.img)
}

func (r *Recorder) Image() image.Image { return r.img }

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops() {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

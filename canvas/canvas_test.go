package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestFormatFor(t *testing.T) {
	for name, want := range map[string]Format{
		"map.png": PNG,
		"MAP.JPG": JPEG,
		"a.jpeg":  JPEG,
		"noext":   PNG,
		"x.gif":   PNG,
	} {
		if got := FormatFor(name); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestGGDraws(t *testing.T) {
	c, err := NewGG(64, 64, color.White)
	if err != nil {
		t.Fatal(err)
	}
	defer c.(*GG).Close()

	tile := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range tile.Pix {
		tile.Pix[i] = 0xff
	}
	if err := c.Paste(tile, 0, 0); err != nil {
		t.Fatal(err)
	}

	c.SetFillColor(color.NRGBA{0, 0, 0xff, 0xff})
	c.SetStrokeColor(color.NRGBA{0xff, 0, 0, 0xff})
	c.SetStrokeWidth(2)
	if err := c.DrawPolygon([]image.Point{{10, 10}, {50, 10}, {50, 50}, {10, 50}}); err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := c.Image().At(30, 30).RGBA()
	if r > 0x1000 || g > 0x1000 || b < 0xf000 {
		t.Errorf("polygon interior is %v, want blue", c.Image().At(30, 30))
	}

	c.SetFillColor(nil)
	if err := c.DrawPolyline([]image.Point{{0, 60}, {63, 60}}); err != nil {
		t.Fatal(err)
	}
	if err := c.DrawCircle(image.Pt(32, 32), image.Pt(40, 32)); err != nil {
		t.Fatal(err)
	}
	if err := c.DrawPolyline(nil); err == nil {
		t.Error("empty polyline accepted")
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf, PNG); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("encoded %v", img.Bounds())
	}

	buf.Reset()
	if err := c.Encode(&buf, JPEG); err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.Decode(&buf); err != nil {
		t.Errorf("jpeg: %v", err)
	}
}

func TestNewGGRejectsEmptyCanvas(t *testing.T) {
	if _, err := NewGG(0, 10, nil); err == nil {
		t.Error("0x10 canvas accepted")
	}
}

func TestRecorder(t *testing.T) {
	c, _ := NewRecorder(32, 32, color.Black)
	r := c.(*Recorder)
	r.SetStrokeColor(color.White)
	r.SetStrokeWidth(4)
	pts := []image.Point{{1, 1}, {2, 2}}
	if err := r.DrawPolyline(pts); err != nil {
		t.Fatal(err)
	}
	pts[0] = image.Pt(9, 9)
	ops := r.Ops()
	if len(ops) != 1 || ops[0].Points[0] != image.Pt(1, 1) || ops[0].StrokeWidth != 4 {
		t.Errorf("ops %+v", ops)
	}

	boom := errors.New("boom")
	r.FailOn, r.FailErr = "circle", boom
	if err := r.DrawCircle(image.Pt(0, 0), image.Pt(1, 0)); !errors.Is(err, boom) {
		t.Errorf("want injected error, got %v", err)
	}
	if r.Count("circle") != 0 {
		t.Error("failed op recorded")
	}
}

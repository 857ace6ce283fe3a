package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
)

// BackgroundOptions controls WhitenBackground. Pixels brighter than Lower
// fade towards white and reach pure white at Upper. The centred rectangle
// covering Protect of each side is copied untouched.
type BackgroundOptions struct {
	Lower   uint8
	Upper   uint8
	Protect float64
}

// DefaultBackgroundOptions keeps the garment in the middle of a style board tile intact.
var DefaultBackgroundOptions = BackgroundOptions{Lower: 200, Upper: 240, Protect: 0.5}

func (o BackgroundOptions) validate() error {
	if o.Lower >= o.Upper {
		return fmt.Errorf("lower threshold %d must be below upper threshold %d", o.Lower, o.Upper)
	}
	if o.Protect < 0 || o.Protect > 1 {
		return fmt.Errorf("protected ratio %v out of range 0..1", o.Protect)
	}
	return nil
}

// WhitenBackground evens out the near-white backdrop of a generated item
// image and returns it PNG encoded.
func WhitenBackground(data []byte, opts BackgroundOptions) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	protected := protectedRect(bounds, opts.Protect)
	span := float64(opts.Upper - opts.Lower)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.At(x, y)
			if image.Pt(x, y).In(protected) {
				out.Set(x, y, c)
				continue
			}
			out.Set(x, y, fadeToWhite(c, opts.Lower, opts.Upper, span))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func protectedRect(bounds image.Rectangle, ratio float64) image.Rectangle {
	w := int(float64(bounds.Dx()) * ratio)
	h := int(float64(bounds.Dy()) * ratio)
	x0 := bounds.Min.X + (bounds.Dx()-w)/2
	y0 := bounds.Min.Y + (bounds.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

func fadeToWhite(c color.Color, lower, upper uint8, span float64) color.Color {
	r, g, b, a := c.RGBA()
	r8, g8, b8, a8 := uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)

	luminance := 0.299*float64(r8) + 0.587*float64(g8) + 0.114*float64(b8)
	switch {
	case luminance <= float64(lower):
		return c
	case luminance >= float64(upper):
		return color.RGBA{R: 255, G: 255, B: 255, A: a8}
	}

	f := (luminance - float64(lower)) / span
	blend := func(v uint8) uint8 {
		return uint8(math.Round(float64(v)*(1-f) + 255*f))
	}
	return color.RGBA{R: blend(r8), G: blend(g8), B: blend(b8), A: a8}
}

// Package theme derives brand theme tokens from sampled colors.
//
// Colors are exchanged as HSL strings of the form "<h> <s>% <l>%", which is
// what the presentation layer writes into its style tokens.
package theme

import (
	"fmt"
	"image"
	"math"
	"regexp"
	"strconv"
)

// RGB is an 8-bit sRGB color.
type RGB struct {
	R, G, B uint8
}

// HSL holds hue in degrees [0,360) and saturation/lightness in percent [0,100].
type HSL struct {
	H, S, L int
}

// String formats the color as "<h> <s>% <l>%".
func (c HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%", c.H, c.S, c.L)
}

// SampleRadius is the neighborhood half-width averaged by SampleAt (5×5 pixels).
const SampleRadius = 2

var digitRuns = regexp.MustCompile(`\d+`)

// RGBToHSL converts an sRGB color to HSL rounded to whole units.
func RGBToHSL(r, g, b uint8) HSL {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	hi := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))
	l := (hi + lo) / 2

	var h, s float64
	if hi != lo {
		d := hi - lo
		if l > 0.5 {
			s = d / (2 - hi - lo)
		} else {
			s = d / (hi + lo)
		}
		switch hi {
		case rf:
			h = (gf - bf) / d
			if gf < bf {
				h += 6
			}
		case gf:
			h = (bf-rf)/d + 2
		default:
			h = (rf-gf)/d + 4
		}
		h /= 6
	}

	hue := int(math.Round(h * 360))
	if hue >= 360 {
		hue -= 360
	}
	return HSL{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// AverageSample returns the per-channel rounded mean of pixels.
// An empty sample is black.
func AverageSample(pixels []RGB) RGB {
	if len(pixels) == 0 {
		return RGB{}
	}
	var r, g, b float64
	for _, p := range pixels {
		r += float64(p.R)
		g += float64(p.G)
		b += float64(p.B)
	}
	n := float64(len(pixels))
	return RGB{
		R: uint8(math.Round(r / n)),
		G: uint8(math.Round(g / n)),
		B: uint8(math.Round(b / n)),
	}
}

// SampleAt averages the 5×5 neighborhood around p, clipped to the image bounds.
// Single pixels are noisy on compressed images.
func SampleAt(img image.Image, p image.Point) RGB {
	area := image.Rect(p.X-SampleRadius, p.Y-SampleRadius, p.X+SampleRadius+1, p.Y+SampleRadius+1).
		Intersect(img.Bounds())
	pixels := make([]RGB, 0, area.Dx()*area.Dy())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			pixels = append(pixels, toRGB(img.At(x, y)))
		}
	}
	return AverageSample(pixels)
}

// SampleCenter averages the neighborhood around the image center.
func SampleCenter(img image.Image) RGB {
	b := img.Bounds()
	return SampleAt(img, image.Pt(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2))
}

// ShouldUseBlackText reports whether black text reads better than white on
// the given HSL background, using WCAG relative luminance. Strings with
// fewer than three numbers are treated as dark backgrounds.
func ShouldUseBlackText(hsl string) bool {
	parts := digitRuns.FindAllString(hsl, 3)
	if len(parts) < 3 {
		return false
	}
	var v [3]float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return false
		}
		v[i] = n
	}
	r, g, b := hslToRGB(v[0], v[1]/100, v[2]/100)
	return relativeLuminance(r, g, b) > 0.5
}

// hslToRGB converts by hue sector. Channels are returned in [0,1].
func hslToRGB(h, s, l float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

func linearize(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func relativeLuminance(r, g, b float64) float64 {
	return 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b)
}

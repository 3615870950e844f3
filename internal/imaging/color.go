package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA". The leading '#' is
// optional. Colours without an alpha component are opaque.
func ParseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}
	if len(hex) != 4 && len(hex) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color length in %q", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// HexString formats c as "#rrggbb", ignoring alpha.
func HexString(c color.Color) string {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return colorful.Color{
		R: float64(nc.R) / 255,
		G: float64(nc.G) / 255,
		B: float64(nc.B) / 255,
	}.Hex()
}

// Overlay colours for the ordered corners and the centroid.
var (
	ColorLine      = color.NRGBA{0, 255, 0, 255}
	ColorTopLeft   = color.NRGBA{255, 0, 0, 255}
	ColorTopRight  = color.NRGBA{0, 255, 0, 255}
	ColorBotRight  = color.NRGBA{0, 0, 255, 255}
	ColorBotLeft   = color.NRGBA{255, 255, 255, 255}
	ColorCentroid  = color.NRGBA{255, 255, 0, 255}
	ColorCandidate = color.NRGBA{255, 0, 255, 255}
)

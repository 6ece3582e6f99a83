package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is a non-premultiplied RGBA color written as "#rrggbb", "#rrggbbaa"
// or an SVG color name in configuration files.
type Color color.NRGBA

// ParseColor parses the configuration form of a color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	hex := s[1:]
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func mustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// NRGBA converts to the standard library type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA(c)
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Palette holds colors and sizes in screen pixels.
type Palette struct {
	Stroke    Color `yaml:"stroke"`
	Fill      Color `yaml:"fill"`
	Preview   Color `yaml:"preview"`
	Highlight Color `yaml:"highlight"`

	LineWidth       float64   `yaml:"line_width"`
	PointRadius     float64   `yaml:"point_radius"`
	HighlightWidth  float64   `yaml:"highlight_width"`
	HighlightRadius float64   `yaml:"highlight_radius"`
	HighlightDash   []float64 `yaml:"highlight_dash,flow"`
}

// DefaultPalette is red ink with green selection highlights.
func DefaultPalette() Palette {
	return Palette{
		Stroke:          mustColor("#ef4444"),
		Fill:            mustColor("#ef444440"),
		Preview:         mustColor("#ef444480"),
		Highlight:       mustColor("#22c55e"),
		LineWidth:       3,
		PointRadius:     5,
		HighlightWidth:  4,
		HighlightRadius: 8,
		HighlightDash:   []float64{5, 5},
	}
}

// Validate rejects sizes that cannot be drawn.
func (p Palette) Validate() error {
	if p.LineWidth <= 0 || p.PointRadius <= 0 || p.HighlightWidth <= 0 || p.HighlightRadius <= 0 {
		return fmt.Errorf("palette sizes must be positive")
	}
	for _, d := range p.HighlightDash {
		if d <= 0 {
			return fmt.Errorf("palette highlight_dash entries must be positive")
		}
	}
	return nil
}

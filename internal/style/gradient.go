package style

import (
	"hash/fnv"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
	"github.com/rivo/uniseg"
)

// Palettes are gradient stops, left to right.
var (
	HeaderPalette = []color.Color{ColorFuscia, ColorCyan}
	DangerPalette = []color.Color{lipgloss.Color("#F25D94"), ColorBrightRed}
)

// topicColors is the fixed set badge backgrounds are picked from.
var topicColors = gamut.Blends(ColorCyan, ColorFuscia, 8)

// ramp spreads n colors across the palette stops. Blending is done in HCL so
// intermediate colors stay saturated.
func ramp(n int, palette []color.Color) []colorful.Color {
	if n <= 0 || len(palette) == 0 {
		return nil
	}

	stops := make([]colorful.Color, len(palette))
	for i, c := range palette {
		stops[i], _ = colorful.MakeColor(c)
	}

	out := make([]colorful.Color, n)
	if n == 1 || len(stops) == 1 {
		for i := range out {
			out[i] = stops[0]
		}
		return out
	}

	segments := float64(len(stops) - 1)
	for i := range out {
		pos := float64(i) / float64(n-1) * segments
		seg := min(int(pos), len(stops)-2)
		out[i] = stops[seg].BlendHcl(stops[seg+1], pos-float64(seg)).Clamped()
	}
	return out
}

// Gradient renders text bold, coloring each grapheme cluster along palette.
func Gradient(text string, palette []color.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	var b strings.Builder
	for i, c := range ramp(len(clusters), palette) {
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Hex())).
			Render(clusters[i]))
	}
	return b.String()
}

// TopicBadge renders a topic on a background derived from its name, so a
// topic keeps its color across the list and between runs.
func TopicBadge(topic string) string {
	if topic == "" {
		return ""
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic))
	bg, _ := colorful.MakeColor(topicColors[h.Sum32()%uint32(len(topicColors))])

	return TopicStyle.
		Background(lipgloss.Color(bg.Hex())).
		Render(topic)
}

package main

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Zachkp/folio/internal/motion"
)

var (
	colorBg     = colorful.Color{R: 0x0d / 255.0, G: 0x0d / 255.0, B: 0x12 / 255.0}
	colorFg     = colorful.Color{R: 0xe8 / 255.0, G: 0xe8 / 255.0, B: 0xee / 255.0}
	colorAccent = colorful.Color{R: 0x7a / 255.0, G: 0xa2 / 255.0, B: 0xf7 / 255.0}
	colorWhite  = colorful.Color{R: 1, G: 1, B: 1}
)

// Blur has no terminal equivalent, so blurred glyphs are swapped for noise.
var noise = []rune("░▒▓")

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// fade blends fg over bg at the given opacity.
func fade(fg, bg colorful.Color, opacity float64) colorful.Color {
	switch {
	case opacity <= 0:
		return bg
	case opacity >= 1:
		return fg
	}
	return bg.BlendLab(fg, opacity)
}

// desaturate scales chroma, keeping hue and lightness.
func desaturate(c colorful.Color, saturation float64) colorful.Color {
	h, chroma, l := c.Hcl()
	saturation = min(max(saturation, 0), 1)
	return colorful.Hcl(h, chroma*saturation, l).Clamped()
}

// tileColor paints a gradient in place of the portrait image.
func tileColor(row, col int, g motion.Grid) colorful.Color {
	hue := 200 + 140*float64(col)/float64(max(g.Cols-1, 1))
	value := 0.85 - 0.35*float64(row)/float64(max(g.Rows-1, 1))
	return colorful.Hsv(hue, 0.55, value)
}

func noiseHash(i, seed int) uint32 {
	h := uint32(i)*2654435761 ^ uint32(seed)*40503
	h ^= h >> 15
	h *= 2246822519
	h ^= h >> 13
	return h
}

// scramble replaces a blur-proportional share of the non-space runes with
// noise. The choice is stable for a given seed.
func scramble(text string, blur float64, seed int) string {
	if blur <= 0 {
		return text
	}
	share := min(blur/motion.MaxBlur, 1)
	out := []rune(text)
	for i, r := range out {
		if r == ' ' {
			continue
		}
		h := noiseHash(i, seed)
		if float64(h%1000) < share*1000 {
			out[i] = noise[int(h>>10)%len(noise)]
		}
	}
	return string(out)
}

// visualStyle colors text for a morph visual.
func visualStyle(v motion.Visual) tcell.Style {
	return tcell.StyleDefault.
		Foreground(toTcell(fade(colorFg, colorBg, v.Opacity))).
		Background(toTcell(colorBg))
}

// wrap breaks text into lines of at most width runes at word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var (
		lines []string
		line  strings.Builder
		n     int
	)
	for _, word := range strings.Fields(text) {
		w := len([]rune(word))
		if n > 0 && n+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(word)
		n += w
	}
	if n > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// truncate cuts s to width runes.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

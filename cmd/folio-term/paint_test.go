package main

import (
	"image"
	"strings"
	"testing"

	"github.com/Zachkp/folio/internal/motion"
)

func TestScramble(t *testing.T) {
	const text = "Building Useful Software"
	if got := scramble(text, 0, 3); got != text {
		t.Errorf("scramble(blur 0) = %q", got)
	}
	full := []rune(scramble(text, motion.MaxBlur, 3))
	for i, r := range []rune(text) {
		if r == ' ' {
			if full[i] != ' ' {
				t.Errorf("space at %d replaced with %q", i, full[i])
			}
			continue
		}
		if !strings.ContainsRune(string(noise), full[i]) {
			t.Errorf("rune %d = %q at full blur, want noise", i, full[i])
		}
	}
	if scramble(text, 40, 7) != scramble(text, 40, 7) {
		t.Error("scramble is not stable for a seed")
	}
}

func TestScrambleShareGrowsWithBlur(t *testing.T) {
	text := strings.Repeat("x", 500)
	count := func(blur float64) int {
		return strings.Count(scramble(text, blur, 1), "x")
	}
	low, high := count(10), count(60)
	if high >= low {
		t.Errorf("kept %d glyphs at blur 60, %d at blur 10", high, low)
	}
}

func TestFade(t *testing.T) {
	if got := fade(colorFg, colorBg, 0); got != colorBg {
		t.Errorf("fade(0) = %v, want background", got)
	}
	if got := fade(colorFg, colorBg, 1); got != colorFg {
		t.Errorf("fade(1) = %v, want foreground", got)
	}
	mid := fade(colorWhite, colorBg, 0.5)
	_, _, lMid := mid.Hcl()
	_, _, lBg := colorBg.Hcl()
	_, _, lFg := colorWhite.Hcl()
	if !(lMid > lBg && lMid < lFg) {
		t.Errorf("half fade lightness %v not between %v and %v", lMid, lBg, lFg)
	}
}

func TestDesaturate(t *testing.T) {
	c := tileColor(0, 0, motion.DefaultGrid())
	_, chroma, _ := c.Hcl()
	if chroma < 0.05 {
		t.Fatalf("tile colour chroma %v too low to test", chroma)
	}
	_, grey, _ := desaturate(c, 0).Hcl()
	if grey > 0.01 {
		t.Errorf("desaturate(0) chroma = %v", grey)
	}
	_, same, _ := desaturate(c, 1).Hcl()
	if d := same - chroma; d > 0.01 || d < -0.01 {
		t.Errorf("desaturate(1) chroma = %v, want %v", same, chroma)
	}
}

func TestWrap(t *testing.T) {
	lines := wrap("the quick brown fox jumps over the lazy dog", 10)
	want := []string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("wrap = %q, want %q", lines, want)
	}
	if wrap("anything", 0) != nil {
		t.Error("wrap at width 0 returned lines")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"portfolio", 20, "portfolio"},
		{"portfolio", 5, "port…"},
		{"portfolio", 1, "…"},
		{"portfolio", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestLayoutPage(t *testing.T) {
	l := layoutPage(80, motion.DefaultGrid())
	if l.sections["hero"].Min.Y != navRows {
		t.Errorf("hero starts at %d, want %d", l.sections["hero"].Min.Y, navRows)
	}
	if !l.portrait.In(l.sections["about"]) {
		t.Errorf("portrait %v outside about %v", l.portrait, l.sections["about"])
	}
	if l.portrait.Dx() != 6*tileWidth || l.portrait.Dy() != 4 {
		t.Errorf("portrait %v, want 6x4 tiles", l.portrait)
	}
	for i := 1; i < len(l.cards); i++ {
		if l.cards[i].Overlaps(l.cards[i-1]) {
			t.Errorf("cards %d and %d overlap", i-1, i)
		}
	}
	if got := l.cardAt(l.cards[1].Min.Add(image.Pt(1, 1))); got != 1 {
		t.Errorf("cardAt = %d, want 1", got)
	}
	if got := l.cardAt(image.Pt(0, 0)); got != -1 {
		t.Errorf("cardAt nav = %d, want -1", got)
	}
	if l.maxScroll(l.height+10) != 0 {
		t.Error("maxScroll is positive for a tall viewport")
	}
}

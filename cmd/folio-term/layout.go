package main

import (
	"image"
	"strings"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

const (
	navRows      = 3
	tileWidth    = 3
	orbitRadius  = 5
	cardWidth    = 56
	cardHeight   = 4
	entryHeight  = 3
	heroHeight   = 10
	contactRows  = 5
	sectionInset = 2

	// Terminal cells are converted to pixels for thresholds and pointer
	// distances that were tuned on a web page.
	cellPixelsX = 8
	cellPixelsY = 16
)

// pageLayout places every section in page coordinates: x in columns, y in
// rows from the top of the page.
type pageLayout struct {
	width    int
	height   int
	sections map[string]image.Rectangle
	heading  image.Rectangle
	portrait image.Rectangle
	cards    []image.Rectangle
}

func layoutPage(width int, grid motion.Grid) pageLayout {
	l := pageLayout{width: width, sections: make(map[string]image.Rectangle)}
	y := navRows
	add := func(id string, h int) image.Rectangle {
		r := image.Rect(0, y, width, y+h)
		l.sections[id] = r
		y += h
		return r
	}

	hero := add("hero", heroHeight)
	l.heading = image.Rect(sectionInset, hero.Min.Y+3, width-sectionInset, hero.Min.Y+4)

	about := add("about", grid.Rows+4)
	l.portrait = image.Rect(sectionInset, about.Min.Y+2, sectionInset+grid.Cols*tileWidth, about.Min.Y+2+grid.Rows)

	add("skills", 2*orbitRadius+5)

	projects := add("projects", 2+(cardHeight+1)*len(content.Projects))
	for i := range content.Projects {
		top := projects.Min.Y + 2 + (cardHeight+1)*i
		right := min(width-sectionInset, sectionInset+cardWidth)
		l.cards = append(l.cards, image.Rect(sectionInset, top, right, top+cardHeight))
	}

	add("experience", 2+entryHeight*(len(content.Work)+len(content.Education))+2)
	add("contact", contactRows)
	l.height = y
	return l
}

// maxScroll is the furthest the page can scroll in a viewport of rows.
func (l pageLayout) maxScroll(rows int) int {
	return max(0, l.height-rows)
}

// viewport is the page rectangle visible at scroll.
func viewport(scroll, width, rows int) image.Rectangle {
	return image.Rect(0, scroll, width, scroll+rows)
}

// cardAt returns the card under a page position, or -1.
func (l pageLayout) cardAt(p image.Point) int {
	for i, c := range l.cards {
		if p.In(c) {
			return i
		}
	}
	return -1
}

// detailBox is the screen rectangle of the project detail view, centred
// below the nav bar.
func detailBox(width, height int) image.Rectangle {
	w := min(width-4, 72)
	h := min(height-navRows-2, 20)
	x := (width - w) / 2
	y := navRows + (height-navRows-h)/2
	return image.Rect(x, y, x+max(w, 0), y+max(h, 0))
}

// detailLines is the scrollable body of the detail view wrapped to width.
func detailLines(p content.Project, width int) []string {
	lines := wrap(strings.Join(p.Stack, " · "), width)
	lines = append(lines, truncate(p.CTA+": "+p.Link, width), "")
	lines = append(lines, wrap(p.Summary, width)...)
	for _, d := range p.Details {
		lines = append(lines, "")
		lines = append(lines, wrap(d, width)...)
	}
	return lines
}

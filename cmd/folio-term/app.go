package main

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

const scrollStep = 3

type app struct {
	screen tcell.Screen
	events chan tcell.Event

	width, height int
	scroll        int
	layout        pageLayout

	intro *motion.Morph

	typer      *motion.Typewriter
	typerGate  *motion.Gate
	reveal     *motion.Reveal
	revealGate *motion.Gate
	tilts      []*motion.Tilt
	hovered    int
	orbits     []motion.Orbit

	// detail is the project open in the detail view, or -1.
	detail       int
	detailScroll int

	render  func(time.Duration) bool

	elapsed time.Duration
	frame   int
	quit    bool
}

func newApp(screen tcell.Screen, cfg config) (*app, error) {
	intro, err := motion.NewMorph(content.IntroItems, cfg.morphConfig())
	if err != nil {
		return nil, fmt.Errorf("intro: %w", err)
	}
	if cfg.SkipIntro {
		intro.Close()
	}

	twCfg := motion.DefaultTypewriterConfig()
	typer, err := motion.NewTypewriter(content.HeroPhrases, twCfg)
	if err != nil {
		return nil, fmt.Errorf("typewriter: %w", err)
	}
	typerGate, err := motion.NewGate(twCfg.Threshold, typer.Start)
	if err != nil {
		return nil, fmt.Errorf("typewriter gate: %w", err)
	}

	rvCfg := motion.DefaultRevealConfig()
	rvCfg.Grid = motion.ResolveGrid(cfg.RevealGrid, nil)
	reveal, err := motion.NewReveal(rvCfg)
	if err != nil {
		return nil, fmt.Errorf("reveal: %w", err)
	}
	// The screen is the live host from here on.
	reveal.Attach()
	revealGate, err := motion.NewGate(rvCfg.Threshold, reveal.Show)
	if err != nil {
		return nil, fmt.Errorf("reveal gate: %w", err)
	}

	a := &app{
		screen:     screen,
		events:     make(chan tcell.Event, 64),
		intro:      intro,
		typer:      typer,
		typerGate:  typerGate,
		reveal:     reveal,
		revealGate: revealGate,
		hovered:    -1,
		detail:     -1,
	}
	a.render = motion.WhenAttached(a.attached, a.advance)
	for range content.Projects {
		a.tilts = append(a.tilts, motion.NewTilt(motion.DefaultTiltConfig()))
	}
	for i := range content.Skills {
		a.orbits = append(a.orbits, motion.Orbit{
			Radius:  orbitRadius,
			Period:  20 * time.Second,
			Delay:   time.Duration(i) * 5 * time.Second,
			Reverse: i%2 == 1,
		})
	}

	screen.EnableMouse()
	a.resize()
	return a, nil
}

func (a *app) poll() {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.events <- ev:
		default:
			// Input is dropped while the frame loop is behind.
		}
	}
}

func (a *app) close() {
	a.intro.Close()
	a.typer.Close()
	a.reveal.Close()
	a.typerGate.Disconnect()
	a.revealGate.Disconnect()
}

// step is one frame: input, simulation, paint. Input is drained even while
// the screen has no area so a later resize is seen.
func (a *app) step(dt time.Duration) bool {
	a.drain()
	if a.quit {
		return false
	}
	return a.render(dt)
}

func (a *app) attached() bool {
	return a.width > 0 && a.height > 0
}

func (a *app) advance(dt time.Duration) bool {
	a.elapsed += dt
	a.frame++

	if !a.intro.Stopped() {
		a.intro.Step(dt)
	} else {
		a.observe()
		a.typer.Step(dt)
		a.reveal.Step(dt)
		for _, t := range a.tilts {
			t.Step(dt)
		}
	}
	a.draw()
	return true
}

func (a *app) drain() {
	for {
		select {
		case ev := <-a.events:
			a.handle(ev)
		default:
			return
		}
	}
}

func (a *app) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a.detail >= 0 && a.detailKey(ev) {
			return
		}
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			a.quit = true
		case tcell.KeyEnter:
			if !a.intro.Stopped() {
				a.intro.Close()
			} else if a.hovered >= 0 {
				a.openDetail(a.hovered)
			}
		case tcell.KeyUp:
			a.scrollBy(-1)
		case tcell.KeyDown:
			a.scrollBy(1)
		case tcell.KeyPgUp:
			a.scrollBy(-(a.height - navRows))
		case tcell.KeyPgDn:
			a.scrollBy(a.height - navRows)
		case tcell.KeyHome:
			a.scrollBy(-a.scroll)
		case tcell.KeyEnd:
			a.scrollBy(a.layout.height)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				a.quit = true
			case ' ':
				a.intro.Close()
			case 'k':
				a.scrollBy(-1)
			case 'j':
				a.scrollBy(1)
			}
		}
	case *tcell.EventMouse:
		a.mouse(ev)
	case *tcell.EventResize:
		a.resize()
		a.screen.Sync()
	}
}

func (a *app) mouse(ev *tcell.EventMouse) {
	btn := ev.Buttons()
	if btn&tcell.Button1 == 0 {
		for _, t := range a.tilts {
			if t.Dragging() {
				t.EndDrag()
			}
		}
	}
	if a.detail >= 0 {
		a.detailMouse(ev)
		return
	}
	switch {
	case btn&tcell.WheelUp != 0:
		a.scrollBy(-scrollStep)
		return
	case btn&tcell.WheelDown != 0:
		a.scrollBy(scrollStep)
		return
	}

	x, y := ev.Position()
	p := image.Pt(x, y+a.scroll)
	card := a.layout.cardAt(p)
	if y < navRows {
		card = -1
	}
	if card != a.hovered && a.hovered >= 0 {
		a.tilts[a.hovered].Leave()
	}
	a.hovered = card
	if card < 0 {
		return
	}

	t := a.tilts[card]
	r := a.layout.cards[card]
	centre := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	t.Pointer(float64((p.X-centre.X)*cellPixelsX), float64((p.Y-centre.Y)*cellPixelsY))
	if btn&tcell.Button1 != 0 && !t.Dragging() {
		t.BeginDrag()
	}
}

func (a *app) openDetail(card int) {
	a.tilts[card].Leave()
	a.hovered = -1
	a.detail = card
	a.detailScroll = 0
}

func (a *app) closeDetail() {
	a.detail = -1
	a.detailScroll = 0
}

// detailKey handles keys while the detail view is open and reports whether
// the key was consumed.
func (a *app) detailKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		a.closeDetail()
	case tcell.KeyUp:
		a.scrollDetail(-1)
	case tcell.KeyDown:
		a.scrollDetail(1)
	case tcell.KeyPgUp:
		a.scrollDetail(-detailBox(a.width, a.height).Dy())
	case tcell.KeyPgDn:
		a.scrollDetail(detailBox(a.width, a.height).Dy())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			a.scrollDetail(-1)
		case 'j':
			a.scrollDetail(1)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (a *app) detailMouse(ev *tcell.EventMouse) {
	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		a.scrollDetail(-scrollStep)
	case btn&tcell.WheelDown != 0:
		a.scrollDetail(scrollStep)
	case btn&tcell.Button1 != 0:
		if x, y := ev.Position(); !image.Pt(x, y).In(detailBox(a.width, a.height)) {
			a.closeDetail()
		}
	}
}

func (a *app) scrollDetail(n int) {
	box := detailBox(a.width, a.height)
	lines := detailLines(content.Projects[a.detail], box.Dx()-4)
	limit := max(0, len(lines)-(box.Dy()-4))
	a.detailScroll = min(max(a.detailScroll+n, 0), limit)
}

func (a *app) scrollBy(n int) {
	a.scroll = min(max(a.scroll+n, 0), a.layout.maxScroll(a.height))
}

func (a *app) resize() {
	a.width, a.height = a.screen.Size()
	a.layout = layoutPage(a.width, a.reveal.Grid())
	a.scrollBy(0)
}

// observe feeds the visibility gates with the current viewport.
func (a *app) observe() {
	vp := viewport(a.scroll+navRows, a.width, a.height-navRows)
	a.typerGate.ObserveRect(a.layout.heading, vp)
	a.revealGate.ObserveRect(a.layout.portrait, vp)
}

func (a *app) draw() {
	base := tcell.StyleDefault.Background(toTcell(colorBg)).Foreground(toTcell(colorFg))
	a.screen.Fill(' ', base)
	if !a.intro.Stopped() {
		a.drawIntro()
	} else {
		a.drawPage(base)
		a.drawNav(base)
		if a.detail >= 0 {
			a.drawDetail(base)
		}
	}
	a.screen.Show()
}

func (a *app) drawIntro() {
	f := a.intro.Frame()
	row := a.height / 2
	// Paint the fainter glyphs first so the stronger item wins shared cells.
	layers := []struct {
		text string
		v    motion.Visual
	}{{f.Current, f.Out}, {f.Next, f.In}}
	if layers[0].v.Opacity > layers[1].v.Opacity {
		layers[0], layers[1] = layers[1], layers[0]
	}
	for i, l := range layers {
		if l.v.Opacity <= 0 {
			continue
		}
		text := scramble(l.text, l.v.Blur, a.frame/2+i)
		x := (a.width - len([]rune(text))) / 2
		style := visualStyle(l.v)
		for j, r := range []rune(text) {
			if r != ' ' {
				a.screen.SetContent(x+j, row, r, nil, style)
			}
		}
	}
}

// put draws s at page coordinates, clipped to the area under the nav bar.
func (a *app) put(x, pageY int, s string, style tcell.Style) {
	y := pageY - a.scroll
	if y < navRows || y >= a.height {
		return
	}
	for i, r := range []rune(s) {
		if x+i >= a.width {
			return
		}
		if x+i >= 0 {
			a.screen.SetContent(x+i, y, r, nil, style)
		}
	}
}

func (a *app) drawNav(base tcell.Style) {
	compact := motion.NavCompact(float64(a.scroll * cellPixelsY))
	style := base.Background(toTcell(fade(colorAccent, colorBg, 0.15)))
	rows := navRows
	if compact {
		rows = 1
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < a.width; x++ {
			a.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	x := sectionInset
	y := rows / 2
	for _, s := range content.Sections {
		st := style
		if r := a.layout.sections[s.ID]; a.scroll+navRows >= r.Min.Y && a.scroll+navRows < r.Max.Y {
			st = st.Foreground(toTcell(colorAccent)).Bold(true)
		}
		for i, r := range []rune(s.Title) {
			a.screen.SetContent(x+i, y, r, nil, st)
		}
		x += len([]rune(s.Title)) + 3
	}
}

func (a *app) drawPage(base tcell.Style) {
	heading := base.Foreground(toTcell(colorAccent)).Bold(true)
	muted := base.Foreground(toTcell(fade(colorFg, colorBg, 0.6)))
	for _, s := range content.Sections {
		r := a.layout.sections[s.ID]
		if s.ID != "hero" {
			a.put(sectionInset, r.Min.Y, s.Title, heading)
		}
	}

	a.drawHero(base, muted)
	a.drawAbout(base)
	a.drawSkills(base, muted)
	a.drawProjects(base, muted)
	a.drawExperience(base, muted)

	contact := a.layout.sections["contact"]
	x := sectionInset
	for _, l := range content.Socials {
		a.put(x, contact.Min.Y+2, l.Name, base.Underline(true))
		x += len([]rune(l.Name)) + 3
	}
	a.put(sectionInset, contact.Min.Y+3, fmt.Sprintf("© %d %s", time.Now().Year(), content.Name), muted)
}

func (a *app) drawHero(base, muted tcell.Style) {
	hero := a.layout.sections["hero"]
	a.put(sectionInset, hero.Min.Y+1, "Hi, I'm "+content.Name, base.Bold(true))

	text := a.typer.Text()
	if (a.elapsed/(500*time.Millisecond))%2 == 0 {
		text += a.typer.Cursor()
	}
	a.put(a.layout.heading.Min.X, a.layout.heading.Min.Y, text, base.Foreground(toTcell(colorAccent)))

	for i, line := range wrap(content.Tagline, a.width-2*sectionInset) {
		a.put(sectionInset, hero.Min.Y+5+i, line, muted)
	}
	a.put(sectionInset, hero.Min.Y+8, strings.Join(content.Roles, " | "), muted)
}

func (a *app) drawAbout(base tcell.Style) {
	frame := a.reveal.Frame()
	grid := a.reveal.Grid()
	p := a.layout.portrait
	for _, c := range frame.Cells {
		col := desaturate(tileColor(c.Row, c.Col, grid), frame.Saturation)
		st := base.Background(toTcell(fade(col, colorBg, c.Opacity)))
		a.put(p.Min.X+c.Col*tileWidth, p.Min.Y+c.Row, strings.Repeat(" ", tileWidth), st)
	}

	x := p.Max.X + sectionInset
	lines := wrap(strings.Join(strings.Fields(content.AboutMe), " "), a.width-x-sectionInset)
	for i, line := range lines {
		if i >= p.Dy() {
			break
		}
		a.put(x, p.Min.Y+i, line, base)
	}
}

func (a *app) drawSkills(base, muted tcell.Style) {
	r := a.layout.sections["skills"]
	cy := r.Min.Y + 2 + orbitRadius
	n := len(content.Skills)
	for i, group := range content.Skills {
		cx := a.width * (2*i + 1) / (2 * n)
		a.put(cx-len(group.Name)/2, cy, group.Name, base.Bold(true))
		for j, pt := range a.orbits[i].Positions(len(group.Skills), a.elapsed) {
			label := truncate(group.Skills[j], 4)
			// Cells are about twice as tall as wide.
			x := cx + int(math.Round(pt.X*2)) - len([]rune(label))/2
			y := cy + int(math.Round(pt.Y))
			a.put(x, y, label, muted)
		}
	}
}

func (a *app) drawProjects(base, muted tcell.Style) {
	for i, p := range content.Projects {
		r := a.layout.cards[i]
		if r.Dx() < 8 {
			continue
		}
		rotX, rotY, glare := a.tilts[i].Angles()
		// Tilt reads as a sideways lean of the card contents.
		dx := int(math.Round(rotY / 15 * 2))
		dy := int(math.Round(-rotX / 15))
		border := base.Foreground(toTcell(fade(colorWhite, colorAccent, glare*4)))

		a.put(r.Min.X, r.Min.Y, "┌"+strings.Repeat("─", r.Dx()-2)+"┐", border)
		for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
			a.put(r.Min.X, y, "│", border)
			a.put(r.Max.X-1, y, "│", border)
		}
		a.put(r.Min.X, r.Max.Y-1, "└"+strings.Repeat("─", r.Dx()-2)+"┘", border)

		inner := r.Dx() - 4
		ty := min(max(r.Min.Y+1+dy, r.Min.Y+1), r.Max.Y-3)
		a.put(r.Min.X+2+dx, ty, truncate(p.Title+"  "+strings.Join(p.Stack, " · "), inner-abs(dx)), base.Bold(true))
		a.put(r.Min.X+2+dx, ty+1, truncate(p.Summary, inner-abs(dx)), muted)
	}
}

// drawDetail paints the open project over the page in screen coordinates.
func (a *app) drawDetail(base tcell.Style) {
	box := detailBox(a.width, a.height)
	if box.Dx() < 8 || box.Dy() < 5 {
		return
	}
	p := content.Projects[a.detail]
	panel := base.Background(toTcell(fade(colorAccent, colorBg, 0.1)))
	border := panel.Foreground(toTcell(colorAccent))
	text := func(x, y int, s string, st tcell.Style) {
		for i, r := range []rune(truncate(s, box.Max.X-1-x)) {
			a.screen.SetContent(x+i, y, r, nil, st)
		}
	}

	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			r := ' '
			st := panel
			top, bottom := y == box.Min.Y, y == box.Max.Y-1
			left, right := x == box.Min.X, x == box.Max.X-1
			switch {
			case top && left:
				r = '┌'
			case top && right:
				r = '┐'
			case bottom && left:
				r = '└'
			case bottom && right:
				r = '┘'
			case top || bottom:
				r = '─'
			case left || right:
				r = '│'
			}
			if r != ' ' {
				st = border
			}
			a.screen.SetContent(x, y, r, nil, st)
		}
	}

	text(box.Min.X+2, box.Min.Y+1, truncate(p.Title, box.Dx()-10), panel.Bold(true).Foreground(toTcell(colorAccent)))
	text(box.Max.X-6, box.Min.Y+1, "[esc]", panel.Foreground(toTcell(fade(colorFg, colorBg, 0.6))))

	lines := detailLines(p, box.Dx()-4)
	rows := box.Dy() - 4
	for i := 0; i < rows && a.detailScroll+i < len(lines); i++ {
		text(box.Min.X+2, box.Min.Y+3+i, lines[a.detailScroll+i], panel)
	}
}

func (a *app) drawExperience(base, muted tcell.Style) {
	r := a.layout.sections["experience"]
	y := r.Min.Y + 2
	for _, group := range [][]content.Entry{content.Work, content.Education} {
		for _, e := range group {
			a.put(sectionInset, y, e.Title+" · "+e.Org, base.Bold(true))
			a.put(sectionInset, y+1, e.Start+" – "+e.End, muted)
			y += entryHeight
		}
		y++
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

const maxTraceFrames = 20000

type streamEvent struct {
	name string
	data any
}

func (s *server) setupMotionRoutes(r *gin.Engine) {
	r.GET("/intro/stream", s.streamIntro)

	// Deterministic frames for visual-regression runs.
	r.GET("/api/intro/trace", func(c *gin.Context) {
		fps, err := strconv.Atoi(c.DefaultQuery("fps", "60"))
		if err != nil || fps < 1 || fps > 240 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fps must be an integer between 1 and 240"})
			return
		}
		frames, err := motion.Trace(content.IntroItems, s.cfg.morphConfig(), time.Second/time.Duration(fps), maxTraceFrames)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"fps": fps, "items": content.IntroItems, "frames": frames})
	})

	// Each call is one mount: delays are drawn once here and the page keeps
	// them for its lifetime.
	r.GET("/api/reveal", func(c *gin.Context) {
		cfg := s.cfg.revealConfig()
		var custom *motion.Grid
		if g, ok := motion.ParseGrid(c.Query("shape")); ok {
			custom = &g
		}
		cfg.Grid = motion.ResolveGrid(c.DefaultQuery("grid", s.cfg.RevealGrid), custom)

		rv, err := motion.NewReveal(cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rv.Attach()
		c.JSON(http.StatusOK, rv.Plan())
	})
}

// streamIntro drives the intro morph with a live driver and pushes every
// frame to the page as a server-sent event. The page only paints.
func (s *server) streamIntro(c *gin.Context) {
	m, err := motion.NewMorph(content.IntroItems, s.cfg.morphConfig())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer m.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events := make(chan streamEvent, 16)
	send := func(ev streamEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	m.OnChange(func(ch motion.Change) {
		send(streamEvent{name: "change", data: ch})
	})

	driver := motion.NewDriver(s.cfg.frameInterval(), motion.WithMaxDelta(s.cfg.MaxFrameDelta))
	step := func(dt time.Duration) bool {
		running := m.Step(dt)
		if !send(streamEvent{name: "frame", data: m.Frame()}) {
			return false
		}
		return running
	}
	if err := driver.Start(ctx, step); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Releases the ticker on every exit path, including client disconnect.
	defer driver.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			c.SSEvent(ev.name, ev.data)
			return true
		case <-driver.Done():
			for {
				select {
				case ev := <-events:
					c.SSEvent(ev.name, ev.data)
				default:
					c.SSEvent("done", gin.H{"frames": driver.Frames()})
					return false
				}
			}
		case <-ctx.Done():
			log.Printf("Intro stream closed by client after %d frames", driver.Frames())
			return false
		}
	})
}

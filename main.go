package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type server struct {
	cfg    Config
	store  *Store
	mailer Mailer
	admin  *adminAuth
	salt   string

	// background tracks visitor inserts so shutdown can wait for them.
	background sync.WaitGroup
}

func newServer(cfg Config, store *Store, mailer Mailer, bcryptCost int) (*server, error) {
	admin, err := newAdminAuth(cfg, bcryptCost)
	if err != nil {
		return nil, err
	}
	return &server{
		cfg:    cfg,
		store:  store,
		mailer: mailer,
		admin:  admin,
		salt:   generateToken(),
	}, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	mailer := SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, To: cfg.ToEmail}
	s, err := newServer(cfg, store, mailer, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to set up admin: %v", err)
	}
	s.cleanupOldVisitorData()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Portfolio listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
	s.background.Wait()
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"join":  strings.Join,
		"inc":   func(i int) int { return i + 1 },
		"tiles": func(g motion.Grid) []struct{} { return make([]struct{}, g.Cells()) },
	}).ParseFS(templateFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("static assets: %v", err)
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", "./images")

	r.Use(s.visitorTrackingMiddleware())

	s.setupSiteRoutes(r)
	s.setupMotionRoutes(r)
	s.setupAdminRoutes(r)
	return r
}

func (s *server) setupSiteRoutes(r *gin.Engine) {
	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"name":      content.Name,
			"tagline":   content.Tagline,
			"roles":     content.Roles,
			"about":     content.AboutMe,
			"portrait":  content.Portrait,
			"sections":  content.Sections,
			"skills":    content.Skills,
			"projects":  content.Projects,
			"socials":   content.Socials,
			"phrases":   content.HeroPhrases,
			"intro":     content.IntroItems,
			"grid":      s.cfg.revealConfig().Grid,
			"threshold": s.cfg.RevealThreshold,
			"year":      time.Now().Year(),
		})
	})

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})

	// Work experience content
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "entries.html", gin.H{
			"heading": "Work Experience",
			"entries": content.Work,
		})
	})

	// Education content
	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "entries.html", gin.H{
			"heading": "Education",
			"entries": content.Education,
		})
	})

	// Project detail, swapped into the page's modal by HTMX
	r.GET("/project/:slug", func(c *gin.Context) {
		project, ok := content.ProjectBySlug(c.Param("slug"))
		if !ok {
			c.HTML(http.StatusNotFound, "project.html", gin.H{
				"error": "Project not found",
			})
			return
		}
		c.HTML(http.StatusOK, "project.html", gin.H{
			"project": project,
		})
	})

	r.POST("/contact", s.handleContact)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.cfg.VisitorRetention.String(),
		})
	})
}

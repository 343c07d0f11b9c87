// admin.go - privacy-conscious visitor tracking and the admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie = "admin_session"
	sessionIssuer = "folio-admin"
	sessionTTL    = 24 * time.Hour
)

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP for one salt)
func hashIP(ip, salt string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

type adminAuth struct {
	username string
	hash     []byte
	secret   []byte
	now      func() time.Time
}

func newAdminAuth(cfg Config, cost int) (*adminAuth, error) {
	a := &adminAuth{username: cfg.AdminUsername, now: time.Now}

	if cfg.AdminPasswordHash != "" {
		a.hash = []byte(cfg.AdminPasswordHash)
	} else {
		if gin.Mode() == gin.DebugMode && cfg.AdminPassword == "admin123" {
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH.")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		a.hash = hash
	}

	if cfg.AdminSecret != "" {
		a.secret = []byte(cfg.AdminSecret)
	} else {
		// Sessions do not survive a restart without a configured secret.
		a.secret = []byte(generateToken())
	}
	return a, nil
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return userOK && passOK
}

func (a *adminAuth) issue() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   a.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (a *adminAuth) verify(token string) error {
	if token == "" {
		return errors.New("no session")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return fmt.Errorf("verify session: %w", err)
	}
	if claims.Subject != a.username {
		return errors.New("session subject mismatch")
	}
	return nil
}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)
		if err := s.admin.verify(token); err != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip tracking for static files, streams, APIs and admin pages
		path := c.Request.URL.Path
		for _, prefix := range []string{"/static/", "/images/", "/admin", "/favicon", "/privacy", "/api/", "/intro/"} {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := hashIP(c.ClientIP(), s.salt)
		agent := c.GetHeader("User-Agent")
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.TrackVisit(ctx, hashed, agent, path); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// Cleanup old visitor data for privacy compliance
func (s *server) cleanupOldVisitorData() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := s.store.CleanupVisitors(ctx, s.cfg.VisitorRetention)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than %s", n, s.cfg.VisitorRetention)
	}
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			log.Printf("Failed admin login attempt from %s", hashIP(c.ClientIP(), s.salt))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"error": "Invalid credentials",
			})
			return
		}
		token, err := s.admin.issue()
		if err != nil {
			log.Printf("Error issuing admin session: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Could not start a session",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(sessionCookie, token, int(sessionTTL.Seconds()), "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		log.Printf("Admin login successful from %s", hashIP(c.ClientIP(), s.salt))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(sessionCookie, "", -1, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		log.Printf("Admin logout from %s", hashIP(c.ClientIP(), s.salt))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.GET("/messages", func(c *gin.Context) {
		messages, err := s.store.Messages(c.Request.Context(), 200)
		if err != nil {
			log.Printf("Error loading messages: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"messages": messages,
		})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
			return
		}
		deleted, err := s.store.DeleteMessage(c.Request.Context(), id)
		if err != nil {
			log.Printf("Error deleting message %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		log.Printf("Message %d deleted by admin from %s", id, hashIP(c.ClientIP(), s.salt))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.store.CleanupVisitors(c.Request.Context(), s.cfg.VisitorRetention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	// Admin statistics export (for backups or analysis)
	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", hashIP(c.ClientIP(), s.salt))
		c.JSON(http.StatusOK, stats)
	})
}

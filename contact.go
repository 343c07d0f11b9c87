package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
)

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

// Mailer delivers contact form submissions.
type Mailer interface {
	Send(name, email, message string) error
}

type SMTPMailer struct {
	Host, Port string
	User, Pass string
	To         string
}

func (m SMTPMailer) Send(name, email, message string) error {
	if m.User == "" || m.Pass == "" {
		return errSMTPNotConfigured
	}
	to := m.To
	if to == "" {
		to = m.User
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.User + "\r\n" +
		"Reply-To: " + email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.User, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// validateContact trims the form and rejects anything that could not be
// mailed. Header injection is blocked by refusing line breaks in single-line
// fields.
func validateContact(name, email, message string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	switch {
	case name == "" || email == "" || message == "":
		return "", "", "", errors.New("all fields are required")
	case strings.ContainsAny(name+email, "\r\n"):
		return "", "", "", errors.New("name and email must be a single line")
	case len(message) > 5000:
		return "", "", "", errors.New("message is too long")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", "", "", errors.New("email address is not valid")
	}
	return name, email, message, nil
}

// Handle contact form submission with HTMX. The message is stored first so
// nothing is lost when mail delivery fails.
func (s *server) handleContact(c *gin.Context) {
	name, email, message, err := validateContact(c.PostForm("fullName"), c.PostForm("email"), c.PostForm("message"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "contact-error.html", gin.H{
			"error": "Please check the form: " + err.Error() + ".",
		})
		return
	}

	ctx := c.Request.Context()
	id, err := s.store.SaveMessage(ctx, ContactMessage{Name: name, Email: email, Body: message})
	if err != nil {
		log.Printf("Error storing contact message: %v", err)
	}

	if err := s.mailer.Send(name, email, message); err != nil {
		log.Printf("Error sending email: %v", err)
		if id == 0 {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}
	} else if id != 0 {
		if err := s.store.MarkDelivered(ctx, id); err != nil {
			log.Printf("Error marking message delivered: %v", err)
		}
	}

	log.Printf("Contact message received from %s", hashIP(c.ClientIP(), s.salt))
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}

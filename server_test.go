package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/folio/internal/content"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *stubMailer) Send(name, email, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, name+"|"+email+"|"+message)
	return nil
}

func testConfig() Config {
	return Config{
		Port:             "0",
		DBPath:           ":memory:",
		AdminUsername:    "admin",
		AdminPassword:    "correct horse",
		AdminSecret:      "test-secret",
		VisitorRetention: 24 * time.Hour,
		IntroFPS:         240,
		MorphDuration:    30 * time.Millisecond,
		HoldDuration:     10 * time.Millisecond,
		MaxFrameDelta:    100 * time.Millisecond,
		RevealFadeIn:     time.Second,
		RevealMaxDelay:   1200 * time.Millisecond,
		RevealColorDelay: 1300 * time.Millisecond,
		RevealThreshold:  0.2,
		RevealGrid:       "6x4",
	}
}

func newTestServer(t *testing.T, mailer Mailer) (*server, http.Handler) {
	t.Helper()
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if mailer == nil {
		mailer = &stubMailer{}
	}
	s, err := newServer(testConfig(), store, mailer, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return s, s.routes()
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHomePage(t *testing.T) {
	s, h := newTestServer(t, nil)
	w := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{content.IntroItems[0], `data-stream="/intro/stream"`, "/api/reveal?grid=6x4", content.Tagline} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if n := strings.Count(body, `class="tile"`); n != 24 {
		t.Errorf("rendered %d tiles, want 24", n)
	}

	s.background.Wait()
	stats, err := s.store.Stats(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalVisitors != 1 {
		t.Errorf("TotalVisitors = %d, want 1", stats.TotalVisitors)
	}
}

func TestTrackingSkipsDNTAndAssets(t *testing.T) {
	s, h := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	do(h, req)
	do(h, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	do(h, httptest.NewRequest(http.MethodGet, "/api/reveal", nil))
	s.background.Wait()

	stats, err := s.store.Stats(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalVisitors != 0 {
		t.Errorf("TotalVisitors = %d, want 0", stats.TotalVisitors)
	}
}

func TestStaticAssets(t *testing.T) {
	_, h := newTestServer(t, nil)
	for _, path := range []string{"/static/motion.js", "/static/site.css"} {
		if w := do(h, httptest.NewRequest(http.MethodGet, path, nil)); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}
}

func TestMotionScriptWiring(t *testing.T) {
	_, h := newTestServer(t, nil)
	w := do(h, httptest.NewRequest(http.MethodGet, "/static/motion.js", nil))
	for _, want := range []string{"htmx:afterSwap", `"Escape"`, "--orbit-start", "Math.abs(nx)"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("motion.js missing %q", want)
		}
	}
	if strings.Contains(w.Body.String(), "Math.hypot") {
		t.Error("tilt glare still uses the pointer distance")
	}
}

func TestProjectDetail(t *testing.T) {
	_, h := newTestServer(t, nil)
	p := content.Projects[0]
	w := do(h, httptest.NewRequest(http.MethodGet, "/project/"+p.Slug, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /project/%s = %d", p.Slug, w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{p.Title, p.Details[0], `href="` + p.Link + `"`, p.Image, `class="modal-close"`} {
		if !strings.Contains(body, want) {
			t.Errorf("project detail missing %q", want)
		}
	}

	w = do(h, httptest.NewRequest(http.MethodGet, "/project/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /project/nope = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Project not found") {
		t.Errorf("missing not found message in %q", w.Body.String())
	}
}

func TestHomePageLinksProjects(t *testing.T) {
	_, h := newTestServer(t, nil)
	body := do(h, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	for _, p := range content.Projects {
		if want := `hx-get="/project/` + p.Slug + `"`; !strings.Contains(body, want) {
			t.Errorf("home page missing %s", want)
		}
	}
	if !strings.Contains(body, `id="modal"`) {
		t.Error("home page missing the modal host")
	}
}

func TestLoadConfigRejectsNegativeRevealTiming(t *testing.T) {
	for _, key := range []string{"REVEAL_FADE_IN", "REVEAL_MAX_DELAY", "REVEAL_COLOR_DELAY"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "-1s")
			if _, err := loadConfig(); err == nil {
				t.Errorf("loadConfig accepted %s=-1s", key)
			}
		})
	}
	if _, err := loadConfig(); err != nil {
		t.Errorf("loadConfig with defaults: %v", err)
	}
}

func TestFragments(t *testing.T) {
	_, h := newTestServer(t, nil)
	tests := []struct {
		path string
		want string
	}{
		{"/contact-form", `hx-post="/contact"`},
		{"/work-content", "Work Experience"},
		{"/education-content", "Education"},
		{"/privacy", "24h0m0s"},
	}
	for _, tt := range tests {
		w := do(h, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", tt.path, w.Code)
			continue
		}
		if !strings.Contains(w.Body.String(), tt.want) {
			t.Errorf("GET %s missing %q", tt.path, tt.want)
		}
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name, email, message string
		ok                   bool
	}{
		{"Ada", "ada@example.com", "hello", true},
		{"  Ada ", " ada@example.com ", " hi ", true},
		{"", "ada@example.com", "hello", false},
		{"Ada", "not-an-email", "hello", false},
		{"Ada\r\nBcc: x@y.z", "ada@example.com", "hello", false},
		{"Ada", "ada@example.com", strings.Repeat("a", 5001), false},
	}
	for _, tt := range tests {
		_, _, _, err := validateContact(tt.name, tt.email, tt.message)
		if (err == nil) != tt.ok {
			t.Errorf("validateContact(%q, %q, len %d) err = %v, want ok=%v", tt.name, tt.email, len(tt.message), err, tt.ok)
		}
	}
}

func TestContactStoresAndMails(t *testing.T) {
	mailer := &stubMailer{}
	s, h := newTestServer(t, mailer)
	w := do(h, postForm("/contact", url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Nice site"},
	}))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Thank you") {
		t.Fatalf("POST /contact = %d %q", w.Code, w.Body.String())
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "Ada|ada@example.com|Nice site" {
		t.Errorf("sent = %v", mailer.sent)
	}
	msgs, err := s.store.Messages(t.Context(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || !msgs[0].Delivered {
		t.Errorf("messages = %+v, want one delivered", msgs)
	}
}

func TestContactKeepsMessageWhenMailFails(t *testing.T) {
	s, h := newTestServer(t, &stubMailer{err: errors.New("smtp down")})
	w := do(h, postForm("/contact", url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Nice site"},
	}))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Thank you") {
		t.Fatalf("POST /contact = %d %q", w.Code, w.Body.String())
	}
	msgs, err := s.store.Messages(t.Context(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Delivered {
		t.Errorf("messages = %+v, want one undelivered", msgs)
	}
}

func TestContactRejectsBadInput(t *testing.T) {
	mailer := &stubMailer{}
	_, h := newTestServer(t, mailer)
	w := do(h, postForm("/contact", url.Values{"fullName": {"Ada"}}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /contact = %d, want 400", w.Code)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("mail sent for invalid form")
	}
}

func login(t *testing.T, h http.Handler, password string) *httptest.ResponseRecorder {
	t.Helper()
	return do(h, postForm("/admin/login", url.Values{
		"username": {"admin"},
		"password": {password},
	}))
}

func sessionFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

func TestAdminLogin(t *testing.T) {
	_, h := newTestServer(t, nil)

	if w := login(t, h, "wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d, want 401", w.Code)
	}

	w := login(t, h, "correct horse")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("login = %d to %q", w.Code, w.Header().Get("Location"))
	}
	cookie := sessionFrom(w)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("no session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(cookie)
	w = do(h, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats with session = %d", w.Code)
	}
	var stats AdminStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	if w := do(h, req); w.Code != http.StatusOK {
		t.Errorf("dashboard with session = %d", w.Code)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	_, h := newTestServer(t, nil)
	for _, path := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/messages", "/admin/visitors"} {
		w := do(h, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
			t.Errorf("GET %s = %d to %q", path, w.Code, w.Header().Get("Location"))
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "garbage"})
	if w := do(h, req); w.Code != http.StatusFound {
		t.Errorf("forged session = %d, want redirect", w.Code)
	}
}

func TestAdminSessionExpires(t *testing.T) {
	s, _ := newTestServer(t, nil)
	now := time.Unix(1_700_000_000, 0)
	s.admin.now = func() time.Time { return now }

	token, err := s.admin.issue()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.admin.verify(token); err != nil {
		t.Fatalf("fresh token: %v", err)
	}
	now = now.Add(sessionTTL + time.Minute)
	if err := s.admin.verify(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestAdminSessionRejectsOtherSecret(t *testing.T) {
	s, _ := newTestServer(t, nil)
	token, err := s.admin.issue()
	if err != nil {
		t.Fatal(err)
	}
	other := *s.admin
	other.secret = []byte("another-secret")
	if err := other.verify(token); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestAdminDeleteMessage(t *testing.T) {
	s, h := newTestServer(t, nil)
	id, err := s.store.SaveMessage(t.Context(), ContactMessage{Name: "Ada", Email: "ada@example.com", Body: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	cookie := sessionFrom(login(t, h, "correct horse"))

	del := func(path string) int {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		req.AddCookie(cookie)
		return do(h, req).Code
	}
	if code := del("/admin/messages/abc"); code != http.StatusBadRequest {
		t.Errorf("bad id = %d", code)
	}
	if code := del("/admin/messages/" + strconv.FormatInt(id, 10)); code != http.StatusOK {
		t.Errorf("delete = %d", code)
	}
	if code := del("/admin/messages/" + strconv.FormatInt(id, 10)); code != http.StatusNotFound {
		t.Errorf("second delete = %d", code)
	}
}

func TestIntroTrace(t *testing.T) {
	_, h := newTestServer(t, nil)

	w := do(h, httptest.NewRequest(http.MethodGet, "/api/intro/trace?fps=1000", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("fps=1000 = %d, want 400", w.Code)
	}

	w = do(h, httptest.NewRequest(http.MethodGet, "/api/intro/trace?fps=100", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("trace = %d", w.Code)
	}
	var resp struct {
		FPS    int      `json:"fps"`
		Items  []string `json:"items"`
		Frames []struct {
			AtMS   int64  `json:"at_ms"`
			Phase  string `json:"phase"`
			Cursor int    `json:"cursor"`
			In     struct {
				Opacity float64 `json:"opacity"`
			} `json:"in"`
		} `json:"frames"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Frames) == 0 {
		t.Fatal("no frames")
	}
	last := resp.Frames[len(resp.Frames)-1]
	if last.Phase != "final-fade" || last.In.Opacity != 0 {
		t.Errorf("last frame = %s at opacity %v, want final-fade at 0", last.Phase, last.In.Opacity)
	}
	if last.Cursor != len(resp.Items)-1 {
		t.Errorf("last cursor = %d, want %d", last.Cursor, len(resp.Items)-1)
	}
	for i := 1; i < len(resp.Frames); i++ {
		if resp.Frames[i].AtMS <= resp.Frames[i-1].AtMS {
			t.Fatalf("frame %d time %d not after %d", i, resp.Frames[i].AtMS, resp.Frames[i-1].AtMS)
		}
	}
}

func TestRevealPlan(t *testing.T) {
	_, h := newTestServer(t, nil)
	tests := []struct {
		query      string
		rows, cols int
	}{
		{"", 4, 6},
		{"?grid=8x8", 8, 8},
		{"?grid=3x8", 8, 3},
		{"?grid=nope", 4, 6},
		{"?shape=2x5", 5, 2},
		{"?grid=8x8&shape=99x2", 8, 8},
	}
	for _, tt := range tests {
		w := do(h, httptest.NewRequest(http.MethodGet, "/api/reveal"+tt.query, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s = %d", tt.query, w.Code)
			continue
		}
		var plan struct {
			Rows     int     `json:"rows"`
			Cols     int     `json:"cols"`
			DelaysMS []int64 `json:"delays_ms"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
			t.Fatal(err)
		}
		if plan.Rows != tt.rows || plan.Cols != tt.cols {
			t.Errorf("%s: grid %dx%d rows x cols, want %dx%d", tt.query, plan.Rows, plan.Cols, tt.rows, tt.cols)
		}
		if len(plan.DelaysMS) != tt.rows*tt.cols {
			t.Errorf("%s: %d delays, want %d", tt.query, len(plan.DelaysMS), tt.rows*tt.cols)
		}
		for _, d := range plan.DelaysMS {
			if d < 0 || d > 1200 {
				t.Errorf("%s: delay %dms outside [0, 1200]", tt.query, d)
			}
		}
	}
}

func TestIntroStream(t *testing.T) {
	_, h := newTestServer(t, nil)
	ts := httptest.NewServer(h)
	defer ts.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(ts.URL + "/intro/stream")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	out := string(body)
	for _, want := range []string{"event:frame", "event:change", "event:done", `"to":"final-fade"`, `"to":"stopped"`} {
		if !strings.Contains(out, want) {
			t.Errorf("stream missing %q", want)
		}
	}
	if strings.Index(out, "event:done") < strings.LastIndex(out, "event:frame") {
		t.Error("done event sent before the last frame")
	}
}

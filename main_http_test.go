package main

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// setupTestRouter creates a test router with all routes
func setupTestRouter(app *App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.LoadHTMLGlob("templates/*.html")
	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteNewRound, app.newRoundHandler)
	router.POST(RouteNewRound, app.rateLimitMiddleware(), app.newRoundHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.POST(RouteRetryRound, app.rateLimitMiddleware(), app.retryRoundHandler)
	router.GET(RouteRound, app.roundHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.GET("/healthz", app.healthzHandler)
	return router
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHomeHandler(t *testing.T) {
	router := setupTestRouter(testApp())
	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET / returned status %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Landludo") {
		t.Error("home page missing title")
	}
	sessionCookie(t, w)
}

func TestNewRoundHandlerRedirects(t *testing.T) {
	router := setupTestRouter(testApp())
	req, _ := http.NewRequest("GET", "/new-round", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther && w.Code != http.StatusFound {
		t.Errorf("GET /new-round returned status %d, want 303 or 302", w.Code)
	}
}

func TestGameStateHandler(t *testing.T) {
	router := setupTestRouter(testApp())
	req, _ := http.NewRequest("GET", "/game-state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /game-state returned status %d, want 200", w.Code)
	}
}

func TestGuessHandlerInvalidMethod(t *testing.T) {
	router := setupTestRouter(testApp())
	req, _ := http.NewRequest("GET", "/guess", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("GET /guess returned status %d, want 405 or 404", w.Code)
	}
}

func postGuess(router *gin.Engine, cookie *http.Cookie, guess string) *httptest.ResponseRecorder {
	form := url.Values{"guess": {guess}}
	req, _ := http.NewRequest("POST", "/guess", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGuessFlowWrongThenUnknown(t *testing.T) {
	app := testApp()
	router := setupTestRouter(app)

	// Establish a session first.
	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	cookie := sessionCookie(t, w)

	app.SessionMutex.RLock()
	var session *GameSession
	for _, s := range app.GameSessions {
		session = s
	}
	app.SessionMutex.RUnlock()
	if session == nil {
		t.Fatal("no session registered after GET /")
	}

	// A wrong-but-valid guess counts an attempt.
	wrong := "france"
	if session.Target == "france" {
		wrong = "germany"
	}
	if w := postGuess(router, cookie, wrong); w.Code != http.StatusOK {
		t.Fatalf("POST /guess returned status %d, want 200", w.Code)
	}
	if session.WrongAttempts != 1 {
		t.Errorf("WrongAttempts = %d after wrong guess, want 1", session.WrongAttempts)
	}

	// An unrecognised guess does not.
	w2 := postGuess(router, cookie, "xyzzy")
	if w2.Code != http.StatusOK {
		t.Fatalf("POST /guess returned status %d, want 200", w2.Code)
	}
	if session.WrongAttempts != 1 {
		t.Errorf("WrongAttempts = %d after unknown guess, want still 1", session.WrongAttempts)
	}
	if !strings.Contains(w2.Body.String(), ErrorNotACountry) {
		t.Error("response missing unrecognised-country feedback")
	}
}

func TestGuessFlowWin(t *testing.T) {
	app := testApp()
	router := setupTestRouter(app)

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	cookie := sessionCookie(t, w)

	app.SessionMutex.RLock()
	var session *GameSession
	for _, s := range app.GameSessions {
		session = s
	}
	app.SessionMutex.RUnlock()

	w2 := postGuess(router, cookie, session.Target)
	if w2.Code != http.StatusOK {
		t.Fatalf("POST /guess returned status %d, want 200", w2.Code)
	}
	if session.Status != StatusWon {
		t.Errorf("Status = %q after correct guess, want won", session.Status)
	}
	if !strings.Contains(w2.Body.String(), "Correct!") {
		t.Error("win response missing result text")
	}

	// A follow-up guess on the finished round reports round-over feedback.
	w3 := postGuess(router, cookie, "france")
	if !strings.Contains(w3.Body.String(), ErrorRoundOver) {
		t.Error("response missing round-over feedback")
	}
	if session.Status != StatusWon {
		t.Errorf("Status changed after post-win guess: %q", session.Status)
	}
}

func TestNewRoundCompletedCountriesExhausted(t *testing.T) {
	app := testApp()
	router := setupTestRouter(app)

	form := url.Values{"completedCountries": {`["iran", "japan"]`}}
	req, _ := http.NewRequest("POST", "/new-round", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-round returned status %d, want 200", w.Code)
	}
	if w.Header().Get("HX-Trigger") != "clear-completed-countries" {
		t.Errorf("HX-Trigger = %q, want clear-completed-countries", w.Header().Get("HX-Trigger"))
	}
}

func TestRoundHandlerJSON(t *testing.T) {
	router := setupTestRouter(testApp())
	req, _ := http.NewRequest("GET", "/round", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /round returned status %d, want 200", w.Code)
	}

	var payload struct {
		Country        string   `json:"country"`
		Hints          []string `json:"hints"`
		ValidCountries []string `json:"valid_countries"`
		ImagePath      *string  `json:"image_path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON from /round: %v", err)
	}
	if payload.Country == "" {
		t.Error("round payload missing country")
	}
	if len(payload.Hints) == 0 {
		t.Error("round payload missing hints")
	}
	if len(payload.ValidCountries) == 0 {
		t.Error("round payload missing valid_countries")
	}
	if payload.Country == "Japan" && payload.ImagePath != nil {
		t.Error("image_path should be null for an entry without an image")
	}
	if payload.Country == "Iran" && (payload.ImagePath == nil || *payload.ImagePath == "") {
		t.Error("image_path missing for an entry with an image")
	}
}

func TestRoundHandlerNoData(t *testing.T) {
	app := testAppWithCountries(nil, []string{"france"})
	router := setupTestRouter(app)
	req, _ := http.NewRequest("GET", "/round", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /round with no data returned status %d, want 503", w.Code)
	}
}

func TestHealthzHandler(t *testing.T) {
	router := setupTestRouter(testApp())
	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz returned status %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON from /healthz: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("healthz status = %v, want ok", body["status"])
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	app := testApp()
	app.RateLimitRPS = 1
	app.RateLimitBurst = 2
	router := setupTestRouter(app)

	limited := false
	for i := 0; i < 10; i++ {
		w := postGuess(router, nil, "france")
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("rate limiter never returned 429")
	}
}

func TestGzipCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts"})))
	router.GET("/static/test.js", func(c *gin.Context) {
		c.Header("Content-Type", "application/javascript")
		c.String(http.StatusOK, "var x = 1;")
	})
	router.GET("/static/test.svg", func(c *gin.Context) {
		c.Header("Content-Type", "image/svg+xml")
		c.String(http.StatusOK, "<svg></svg>")
	})

	req, _ := http.NewRequest("GET", "/static/test.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Error("JS response not gzipped")
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("invalid gzip body: %v", err)
	}
	decompressed, _ := io.ReadAll(zr)
	if string(decompressed) != "var x = 1;" {
		t.Errorf("decompressed body = %q", decompressed)
	}

	req2, _ := http.NewRequest("GET", "/static/test.svg", nil)
	req2.Header.Set("Accept-Encoding", "gzip")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	if w2.Header().Get("Content-Encoding") == "gzip" {
		t.Error("SVG response should be excluded from gzip")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		reqID, _ := c.Request.Context().Value(requestIDKey).(string)
		if reqID == "" {
			t.Error("request ID missing from context")
		}
		c.String(http.StatusOK, "pong")
	})

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header not set")
	}

	req2, _ := http.NewRequest("GET", "/ping", nil)
	req2.Header.Set("X-Request-Id", "fixed-id")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	if w2.Header().Get("X-Request-Id") != "fixed-id" {
		t.Errorf("X-Request-Id = %q, want fixed-id", w2.Header().Get("X-Request-Id"))
	}
}

package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aivora/aivora-backend/logger"
	"github.com/aivora/aivora-backend/middleware"
	"github.com/aivora/aivora-backend/routes"
	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/testutil"
	"github.com/aivora/aivora-backend/utils"
)

type fakeAI struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeAI) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeAI) GenerateFromImage(_ context.Context, prompt string, _ []byte, _ string) (string, error) {
	return f.GenerateText(context.Background(), prompt)
}

func (f *fakeAI) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
}

func (f *fakeStorage) Upload(_ context.Context, objectPath string, data []byte, _ string) (string, error) {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[objectPath] = data
	return "https://storage.test/public/uploads/" + objectPath, nil
}

func (f *fakeStorage) Delete(_ context.Context, publicURL string) error {
	f.deleted = append(f.deleted, publicURL)
	return nil
}

type fakeSpeech struct{}

func (fakeSpeech) Synthesize(context.Context, string, string, float64) ([]byte, error) {
	return []byte("not-really-mp3-audio"), nil
}

type fakeGoogle struct {
	profile services.GoogleProfile
	err     error
}

func (f fakeGoogle) Verify(context.Context, string) (services.GoogleProfile, error) {
	return f.profile, f.err
}

type testApp struct {
	router    *gin.Engine
	db        *gorm.DB
	ai        *fakeAI
	svc       *services.Container
	staticDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.ConfigureTokens("controllers-test-secret", time.Hour, 24*time.Hour)

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	ai := &fakeAI{reply: "model answer"}
	svc := &services.Container{AI: ai, Log: logger.Nop()}
	db := testutil.NewDB(t)

	r := gin.New()
	r.Use(middleware.Recovery(logger.Nop()))
	routes.SetupRouter(r, routes.Deps{
		DB:           db,
		Services:     svc,
		LoginLimiter: middleware.NewIPRateLimiter(1000),
		StaticDir:    staticDir,
	})
	return &testApp{router: r, db: db, ai: ai, svc: svc, staticDir: staticDir}
}

type response struct {
	*httptest.ResponseRecorder
}

func (r response) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &out), r.Body.String())
	return out
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.send(req)
}

func (a *testApp) send(req *http.Request) response {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return response{w}
}

// register creates an account and returns its access and refresh tokens.
func (a *testApp) register(t *testing.T, email string) (string, string) {
	t.Helper()
	res := a.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "SecurePass123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	body := res.JSON(t)
	return body["access_token"].(string), body["refresh_token"].(string)
}

const sampleText = "This is a test note with some learning material about physics and chemistry."

func (a *testApp) uploadText(t *testing.T, token, title string) string {
	t.Helper()
	res := a.do(t, http.MethodPost, "/api/notes/upload", token, gin.H{
		"title":       title,
		"source_type": "text",
		"text":        sampleText,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	note := res.JSON(t)["note"].(map[string]any)
	return note["id"].(string)
}

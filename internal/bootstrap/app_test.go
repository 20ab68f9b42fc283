package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintake/internal/documents"
	"docintake/internal/emails"
	"docintake/internal/llm"
	"docintake/internal/llm/gemini"
	"docintake/internal/mail"
	"docintake/internal/shared/config"
)

func TestBuildMemoryDefaults(t *testing.T) {
	app, err := Build(config.Config{LocalStoreDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Equal(t, "memory", app.Config.DBDriver)
	assert.IsType(t, &documents.MemoryRepo{}, app.DocumentsRepo)
	assert.IsType(t, &emails.MemoryRepo{}, app.EmailRepo)
	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)
	assert.IsType(t, &mail.SMTPSender{}, app.Mailer)
	require.NotNil(t, app.Router)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBuildSQLite(t *testing.T) {
	cfg := config.Config{
		DBDriver:      "sqlite",
		SQLitePath:    filepath.Join(t.TempDir(), "data", "docs.db"),
		LocalStoreDir: t.TempDir(),
	}
	app, err := Build(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.IsType(t, &documents.GormRepo{}, app.DocumentsRepo)
	assert.IsType(t, &emails.GormRepo{}, app.EmailRepo)
	assert.FileExists(t, cfg.SQLitePath)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"database":"ok"`)
}

func TestBuildUsesGeminiWhenKeyPresent(t *testing.T) {
	app, err := Build(config.Config{
		LocalStoreDir:        t.TempDir(),
		GeminiAPIKey:         "key",
		GeminiModel:          "gemini-pro",
		GeminiTimeoutSeconds: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.IsType(t, &gemini.Client{}, app.LLM)
}

func TestBuildUnknownDriver(t *testing.T) {
	_, err := Build(config.Config{DBDriver: "mongo"})
	assert.Error(t, err)
}

func TestBuildPostgresFallsBackInDev(t *testing.T) {
	app, err := Build(config.Config{
		Env:           "dev",
		DBDriver:      "postgres",
		LocalStoreDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Equal(t, "memory", app.Config.DBDriver)
	assert.IsType(t, &documents.MemoryRepo{}, app.DocumentsRepo)
}

func TestBuildPostgresFailsOutsideDev(t *testing.T) {
	_, err := Build(config.Config{Env: "production", DBDriver: "postgres"})
	assert.Error(t, err)
}

func TestBuildSendsFromSMTPLogin(t *testing.T) {
	app, err := Build(config.Config{LocalStoreDir: t.TempDir(), SMTPUser: "ops@example.com", SMTPPass: "secret"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Equal(t, "ops@example.com", app.EmailService.From)
}

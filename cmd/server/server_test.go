package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luisdiher22/DetectorEstafaCR/internal/config"
	"github.com/luisdiher22/DetectorEstafaCR/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.SetTestMode(true)

	tmpDir := t.TempDir()
	templatePath := filepath.Join(tmpDir, "index.html")
	template := `<!DOCTYPE html><html><body>
<h1>Detector de Estafas</h1>
{{if .Notice}}<div>{{.Notice}}</div>{{end}}
{{if .ResultMessage}}<p>{{.ResultMessage}}</p><p>reporte {{.ReportID}}</p>{{end}}
{{range .AdviceLines}}<li>{{.}}</li>{{end}}
</body></html>`
	require.NoError(t, os.WriteFile(templatePath, []byte(template), 0644))

	cfg := config.DefaultConfig()
	cfg.Database.DSN = filepath.Join(tmpDir, "test.db")
	cfg.Web.TemplatesGlob = filepath.Join(tmpDir, "*.html")
	cfg.Logging.Path = filepath.Join(tmpDir, "server.log")
	return cfg
}

func TestSetupServerValidation(t *testing.T) {
	srv, database, err := SetupServer(nil)
	assert.Error(t, err)
	assert.Nil(t, srv)
	assert.Nil(t, database)

	cfg := testConfig(t)
	cfg.Server.Port = 0
	srv, database, err = SetupServer(cfg)
	assert.Error(t, err)
	assert.Nil(t, srv)
	assert.Nil(t, database)

	cfg = testConfig(t)
	cfg.Web.TemplatesGlob = filepath.Join(t.TempDir(), "*.html")
	srv, database, err = SetupServer(cfg)
	assert.Error(t, err)
	assert.Nil(t, srv)
	assert.Nil(t, database)

	cfg = testConfig(t)
	cfg.Database.DSN = ""
	srv, database, err = SetupServer(cfg)
	assert.Error(t, err)
	assert.Nil(t, srv)
	assert.Nil(t, database)
}

func TestSetupServer(t *testing.T) {
	cfg := testConfig(t)

	srv, database, err := SetupServer(cfg)
	require.NoError(t, err)
	require.NotNil(t, srv)
	require.NotNil(t, database)
	defer database.Close()

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestServerEndToEnd(t *testing.T) {
	cfg := testConfig(t)

	srv, database, err := SetupServer(cfg)
	require.NoError(t, err)
	defer database.Close()

	t.Run("health check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("index page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Detector de Estafas")
	})

	submit := func(phone, text string) *httptest.ResponseRecorder {
		form := url.Values{"phone_number": {phone}, "text_message": {text}}
		req := httptest.NewRequest(http.MethodPost, "/check_scam", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)
		return w
	}

	t.Run("first submission is a first sighting", func(t *testing.T) {
		w := submit("88881234", "hola, nos vemos mañana")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Aún no ha sido reportado")
	})

	t.Run("repeated text climbs the report tiers", func(t *testing.T) {
		w := submit("", "hola, nos vemos mañana")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ha sido reportado 2 veces")
		assert.Contains(t, w.Body.String(), "muy probable")
	})

	t.Run("suspicious content is flagged", func(t *testing.T) {
		w := submit("", "URGENTE: ganaste un premio, ingrese su contraseña en http://example.com")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "¡Posible estafa detectada!")
		assert.Contains(t, w.Body.String(), "No haga clic en enlaces")
	})

	t.Run("confirmation redirects with notice", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/confirm_scam/1", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?notice=confirmed", w.Header().Get("Location"))
	})

	t.Run("confirming a missing report redirects with failure notice", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/confirm_scam/99999", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?notice=not_found", w.Header().Get("Location"))
	})

	t.Run("reports api lists submissions", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reports?limit=10", nil)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "hola, nos vemos mañana")
	})
}

func TestStartServerWithContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = 18099

	srv, database, err := SetupServer(cfg)
	require.NoError(t, err)
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- StartServerWithContext(ctx, srv)
	}()

	// Give the server a moment to start, then trigger shutdown
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

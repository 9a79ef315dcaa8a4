package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxnote/voxnote/internal/config"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestCheckStorePathWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "projects.db")
	check := checkStorePath(path)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "writable")
}

func TestCheckStorePathEmpty(t *testing.T) {
	check := checkStorePath("")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "empty")
}

func TestCheckAuthorizationMockMode(t *testing.T) {
	cfg := config.Default()
	cfg.Recognizer.Mode = "mock"

	check := checkAuthorization(context.Background(), cfg)
	require.True(t, check.Pass)
	require.Equal(t, "authorized", check.Message)
}

func TestCheckAuthorizationDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Recognizer.AuthEndpoint = server.URL

	check := checkAuthorization(context.Background(), cfg)
	require.False(t, check.Pass)
	require.Equal(t, "denied", check.Message)
}

func TestCheckRecognizerHTTPSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Recognizer.HealthHTTP = server.URL

	check := checkRecognizerHTTP(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "ready at")
}

func TestCheckRecognizerHTTPFailureStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Recognizer.HealthHTTP = server.URL

	check := checkRecognizerHTTP(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "HTTP 503")
}

func TestCheckRecognizerGRPCUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Recognizer.HealthGRPC = "127.0.0.1:1"
	cfg.Recognizer.DialTimeoutMS = 200

	check := checkRecognizerGRPC(context.Background(), cfg)
	require.False(t, check.Pass)
}

func TestRunSkipsUnconfiguredHealthChecks(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	cfg := config.Loaded{Path: "/tmp/none.yaml", Config: config.Default()}
	cfg.Config.Recognizer.Mode = "mock"
	cfg.Config.Recognizer.HealthHTTP = ""
	cfg.Config.Recognizer.HealthGRPC = ""

	report := Run(context.Background(), cfg, filepath.Join(t.TempDir(), "projects.db"))

	names := make(map[string]bool)
	for _, check := range report.Checks {
		names[check.Name] = true
	}
	require.True(t, names["config"])
	require.True(t, names["store.path"])
	require.True(t, names["audio.device"])
	require.True(t, names["recognizer.auth"])
	require.False(t, names["recognizer.http"])
	require.False(t, names["recognizer.grpc"])
}

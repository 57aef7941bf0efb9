package e2e

import (
	"net/http/httptest"
	"time"

	"github.com/abelbrown/shopper/internal/config"
	"github.com/abelbrown/shopper/internal/mockapi"
)

// startMockBackend serves the mock recommendation API. Latency keeps the
// "Searching…" status on screen long enough to observe.
func startMockBackend() *httptest.Server {
	return httptest.NewServer(mockapi.New(mockapi.Config{Latency: 300 * time.Millisecond}))
}

// seedConfig writes <dataDir>/config.json pointing at backendURL.
func seedConfig(dataDir, backendURL string) error {
	cfg, err := config.LoadFrom(dataDir)
	if err != nil {
		return err
	}
	cfg.Backend.URL = backendURL
	cfg.Backend.TimeoutMs = 5000
	cfg.UI.HintDelayMs = 200
	return cfg.Save()
}

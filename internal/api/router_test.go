package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/testutil"
)

func newTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := testutil.NewHolding().WithCode("0050").Build(t, db)

	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	router := api.NewRouter(api.Services{
		System:    testutil.NewTestSystemService(t, db),
		Holding:   testutil.NewTestHoldingService(t, db),
		Portfolio: testutil.NewTestPortfolioService(t, db),
		Settings:  testutil.NewTestSettingsService(t, db),
		Dividend:  testutil.NewTestDividendService(t, db),
		Snapshot:  testutil.NewTestSnapshotService(t, db),
		Backup:    testutil.NewTestBackupService(t, db, "", ""),
	}, cfg, zap.NewNop())

	return router, h.ID
}

func TestRouter(t *testing.T) {
	router, holdingID := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/system/health", "", http.StatusOK},
		{"version", http.MethodGet, "/api/system/version", "", http.StatusOK},
		{"list holdings", http.MethodGet, "/api/holding", "", http.StatusOK},
		{"get holding", http.MethodGet, "/api/holding/" + holdingID, "", http.StatusOK},
		{"holding id rejected by middleware", http.MethodGet, "/api/holding/bad.id", "", http.StatusBadRequest},
		{"unknown holding", http.MethodGet, "/api/holding/missing", "", http.StatusNotFound},
		{"manual prices", http.MethodPut, "/api/holding/prices", `{"prices":{"0050":150}}`, http.StatusOK},
		{"refresh without quotes", http.MethodPost, "/api/holding/prices/refresh", "", http.StatusBadGateway},
		{"portfolio", http.MethodGet, "/api/portfolio", "", http.StatusOK},
		{"summary", http.MethodGet, "/api/portfolio/summary", "", http.StatusOK},
		{"rebalance", http.MethodGet, "/api/portfolio/rebalance?target=0.6", "", http.StatusOK},
		{"cash", http.MethodGet, "/api/cash", "", http.StatusOK},
		{"settings", http.MethodGet, "/api/settings", "", http.StatusOK},
		{"dividends", http.MethodGet, "/api/dividend", "", http.StatusOK},
		{"dividend analysis", http.MethodGet, "/api/dividend/analysis?year=2024", "", http.StatusOK},
		{"unknown dividend", http.MethodDelete, "/api/dividend/missing", "", http.StatusNotFound},
		{"export", http.MethodGet, "/api/snapshot/export", "", http.StatusOK},
		{"import garbage", http.MethodPost, "/api/snapshot/import", "nope", http.StatusBadRequest},
		{"backups disabled", http.MethodGet, "/api/backup", "", http.StatusServiceUnavailable},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s: expected %d, got %d: %s", tt.method, tt.path, tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/holding", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

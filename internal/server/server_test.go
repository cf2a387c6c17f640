package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrolabs/uncertain"
	"github.com/metrolabs/uncertain/internal/config"
)

// newTestServer builds the one server instance shared by all subtests;
// metrics collectors register with the default Prometheus registry, so
// the server can only be constructed once per test binary.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	cfg.Engine.Trials = 2000
	cfg.Engine.MaxTrials = 10000

	srv, err := New(cfg)
	require.NoError(t, err)
	return srv.Router()
}

func post(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServer(t *testing.T) {
	router := newTestServer(t)

	t.Run("root banner", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "uncertaind")
	})

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("evaluate", func(t *testing.T) {
		w := post(t, router, `{
			"values": {
				"a": {"nominal": 10, "sigma_low": 1, "sigma_up": 1, "distribution": "normal"},
				"b": {"nominal": 5, "sigma_low": 0.5, "sigma_up": 0.5, "distribution": "normal"}
			},
			"expr": {"op": "add", "operands": [{"ref": "a"}, {"ref": "b"}]},
			"seed": 42
		}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			RunID  string           `json:"run_id"`
			Result uncertain.Result `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.RunID, "run_")
		assert.Equal(t, 2000, resp.Result.Trials)
		assert.InDelta(t, 15.0, resp.Result.Mean, 0.2)
	})

	t.Run("repeated requests with one seed match", func(t *testing.T) {
		body := `{
			"values": {"x": {"nominal": 10, "sigma_low": 1, "sigma_up": 2}},
			"expr": {"op": "mul", "operands": [{"ref": "x"}, {"ref": "x"}]},
			"seed": 42
		}`

		run := func() uncertain.Result {
			w := post(t, router, body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var resp struct {
				Result uncertain.Result `json:"result"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			return resp.Result
		}
		require.Equal(t, run(), run())
	})

	t.Run("correlated references collapse", func(t *testing.T) {
		w := post(t, router, `{
			"values": {"x": {"nominal": 10, "sigma_low": 1, "sigma_up": 1}},
			"expr": {"op": "sub", "operands": [{"ref": "x"}, {"ref": "x"}]}
		}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Result uncertain.Result `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Zero(t, resp.Result.Mean)
		assert.Zero(t, resp.Result.LowerBound)
		assert.Zero(t, resp.Result.UpperBound)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := post(t, router, `{"values": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown reference", func(t *testing.T) {
		w := post(t, router, `{"values": {}, "expr": {"ref": "ghost"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid value parameters", func(t *testing.T) {
		w := post(t, router, `{
			"values": {"x": {"nominal": 1, "sigma_low": -1, "sigma_up": 1}},
			"expr": {"ref": "x"}
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("trial count above the server limit", func(t *testing.T) {
		w := post(t, router, `{
			"values": {"x": {"nominal": 1, "sigma_low": 0.1, "sigma_up": 0.1}},
			"expr": {"ref": "x"},
			"trials": 100000
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too few valid trials", func(t *testing.T) {
		w := post(t, router, `{
			"values": {"x": {"nominal": -50, "sigma_low": 1, "sigma_up": 1, "distribution": "normal"}},
			"expr": {"op": "sqrt", "operands": [{"ref": "x"}]}
		}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metrolabs/uncertain"
	"github.com/metrolabs/uncertain/codec"
	"github.com/metrolabs/uncertain/internal/config"
	"github.com/metrolabs/uncertain/internal/logging"
	"github.com/metrolabs/uncertain/internal/monitoring"
	"github.com/metrolabs/uncertain/internal/shared/id"
)

type handlers struct {
	engine  config.EngineConfig
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

func newHandlers(engine config.EngineConfig, logger *logging.Logger, metrics *monitoring.Metrics) *handlers {
	return &handlers{engine: engine, logger: logger, metrics: metrics}
}

// evaluateRequest is a serialized expression document plus per-run
// overrides of the engine defaults.
type evaluateRequest struct {
	codec.Document
	Trials   int      `json:"trials,omitempty"`
	Coverage *float64 `json:"coverage,omitempty"`
	Seed     *uint64  `json:"seed,omitempty"`
}

type evaluateResponse struct {
	RunID  string           `json:"run_id"`
	Result uncertain.Result `json:"result"`
}

// Root handles the service banner.
func (h *handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "uncertaind",
		"version": "0.1.0",
	})
}

// Health handles health checks.
func (h *handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"default_trials":   h.engine.Trials,
		"default_coverage": h.engine.Coverage,
	})
}

// Evaluate runs one propagation for a serialized expression document.
func (h *handlers) Evaluate(c *gin.Context) {
	runID := id.NewRunID()

	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, runID, http.StatusBadRequest, "malformed", err)
		return
	}

	expr, err := req.Document.Build()
	if err != nil {
		h.fail(c, runID, http.StatusBadRequest, "malformed", err)
		return
	}

	opts, err := h.options(&req)
	if err != nil {
		h.fail(c, runID, http.StatusBadRequest, "invalid_parameter", err)
		return
	}

	start := time.Now()
	result, err := uncertain.Evaluate(expr, opts...)
	if err != nil {
		status := http.StatusUnprocessableEntity
		reason := "insufficient_samples"
		if errors.Is(err, uncertain.ErrInvalidParameter) {
			status = http.StatusBadRequest
			reason = "invalid_parameter"
		}
		h.fail(c, runID, status, reason, err)
		return
	}

	h.metrics.RecordEvaluation("ok", time.Since(start), result.Trials, result.InvalidFraction)
	h.logger.Info("evaluation complete",
		zap.String("run_id", runID.String()),
		zap.Int("trials", result.Trials),
		zap.Float64("invalid_fraction", result.InvalidFraction),
		zap.Duration("elapsed", time.Since(start)),
	)

	c.JSON(http.StatusOK, evaluateResponse{
		RunID:  runID.String(),
		Result: result,
	})
}

func (h *handlers) options(req *evaluateRequest) ([]uncertain.Option, error) {
	trials := h.engine.Trials
	if req.Trials != 0 {
		trials = req.Trials
	}
	if trials > h.engine.MaxTrials {
		return nil, errors.New("trial count exceeds server limit")
	}

	coverage := h.engine.Coverage
	if req.Coverage != nil {
		coverage = *req.Coverage
	}

	seed := h.engine.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}

	return []uncertain.Option{
		uncertain.WithTrials(trials),
		uncertain.WithCoverage(coverage),
		uncertain.WithSeed(seed),
		uncertain.WithMinValid(h.engine.MinValid),
	}, nil
}

func (h *handlers) fail(c *gin.Context, runID id.RunID, status int, reason string, err error) {
	h.metrics.RecordEvaluation(reason, 0, 0, 0)
	h.logger.Warn("evaluation rejected",
		zap.String("run_id", runID.String()),
		zap.String("reason", reason),
		zap.Error(err),
	)
	c.JSON(status, gin.H{
		"run_id": runID.String(),
		"error":  err.Error(),
	})
}

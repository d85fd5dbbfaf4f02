package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"studperf_backend/internal/model"
	"studperf_backend/internal/service"
	"studperf_backend/internal/util"
	"studperf_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type stubModelClient struct {
	result model.PredictionResult
	err    error
}

func (c *stubModelClient) Predict(ctx context.Context, in model.MetricInput) (model.PredictionResult, error) {
	return c.result, c.err
}

func newSimulateRouter(client service.ModelClient) *gin.Engine {
	scores := service.NewScoreService(nil)
	predictor := service.NewPredictorService(client, scores, nil)
	ctrl := NewPredictController(predictor, scores)

	router := gin.New()
	router.POST("/api/predict/simulate", ctrl.Simulate)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSimulateEndpoint_OK(t *testing.T) {
	router := newSimulateRouter(&stubModelClient{
		result: model.PredictionResult{Prediction: model.PredictionPass, Confidence: 0.9, Source: model.SourceModel},
	})

	w := postJSON(router, "/api/predict/simulate", `{
		"attendance": 85,
		"studyHours": 3,
		"internalTotal": 180,
		"assignments": 5,
		"participation": "High"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Prediction model.PredictionResult `json:"prediction"`
			Score      struct {
				CompositeScore int `json:"compositeScore"`
			} `json:"score"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Prediction.Prediction != model.PredictionPass {
		t.Errorf("unexpected prediction: %+v", resp.Data.Prediction)
	}
	// 85*0.3 + 24*0.2 + 72*0.25 + 50*0.1 + 10*0.15 = 25.5+4.8+18+5+1.5 = 54.8 -> 55
	if resp.Data.Score.CompositeScore != 55 {
		t.Errorf("expected composite 55, got %d", resp.Data.Score.CompositeScore)
	}
}

func TestSimulateEndpoint_LegacyFieldSpellings(t *testing.T) {
	router := newSimulateRouter(&stubModelClient{
		result: model.PredictionResult{Prediction: model.PredictionPass, Confidence: 0.9, Source: model.SourceModel},
	})

	w := postJSON(router, "/api/predict/simulate", `{
		"attendance": 85,
		"study_hours": 3,
		"internal_total": 180,
		"assignments": 5,
		"participation": "High"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Score struct {
				CompositeScore int `json:"compositeScore"`
			} `json:"score"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Score.CompositeScore != 55 {
		t.Errorf("legacy spellings not normalized, composite %d", resp.Data.Score.CompositeScore)
	}
}

func TestSimulateEndpoint_InvalidParticipation(t *testing.T) {
	router := newSimulateRouter(&stubModelClient{})

	w := postJSON(router, "/api/predict/simulate", `{"participation": "Sometimes"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSimulateEndpoint_SessionExpired(t *testing.T) {
	router := newSimulateRouter(&stubModelClient{err: util.ErrSessionExpired})

	w := postJSON(router, "/api/predict/simulate", `{
		"attendance": 85,
		"studyHours": 3,
		"internalTotal": 180,
		"assignments": 5,
		"participation": "High"
	}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

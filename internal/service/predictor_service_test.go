package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"studperf_backend/internal/config"
	"studperf_backend/internal/model"
	"studperf_backend/internal/util"
	"studperf_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
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

func testInput() model.MetricInput {
	return model.MetricInput{
		Attendance:    100,
		StudyHours:    6,
		InternalTotal: 250,
		Assignments:   5,
		Participation: model.ParticipationMedium,
	}
}

func TestSimulate_ModelResponsePassthrough(t *testing.T) {
	client := &stubModelClient{
		result: model.PredictionResult{
			Prediction: model.PredictionFail,
			Confidence: 0.82,
			Source:     model.SourceModel,
		},
	}
	svc := NewPredictorService(client, NewScoreService(nil), nil)

	result, score, err := svc.Simulate(context.Background(), testInput(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Prediction != model.PredictionFail || result.Confidence != 0.82 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Source != model.SourceModel {
		t.Errorf("expected model source, got %s", result.Source)
	}
	if score.CompositeScore != 70 {
		t.Errorf("expected composite 70, got %d", score.CompositeScore)
	}
}

func TestSimulate_FallbackOnModelFailure(t *testing.T) {
	client := &stubModelClient{err: util.ErrModelUnavailable}
	svc := NewPredictorService(client, NewScoreService(nil), nil)

	// 综合分 70 >= 65，兜底判 Pass，置信度 0.70
	result, _, err := svc.Simulate(context.Background(), testInput(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Prediction != model.PredictionPass {
		t.Errorf("expected Pass, got %s", result.Prediction)
	}
	if result.Confidence != 0.70 {
		t.Errorf("expected confidence 0.70, got %v", result.Confidence)
	}
	if result.Source != model.SourceHeuristic {
		t.Errorf("expected heuristic source, got %s", result.Source)
	}
}

func TestSimulate_SessionExpiredNotFallback(t *testing.T) {
	client := &stubModelClient{err: util.ErrSessionExpired}
	svc := NewPredictorService(client, NewScoreService(nil), nil)

	_, _, err := svc.Simulate(context.Background(), testInput(), nil)
	if err != util.ErrSessionExpired {
		t.Fatalf("expected session expired error, got %v", err)
	}
}

func TestSimulate_SubjectMarksOverrideTotal(t *testing.T) {
	client := &stubModelClient{err: util.ErrModelUnavailable}
	svc := NewPredictorService(client, NewScoreService(nil), nil)

	in := testInput()
	in.InternalTotal = 999
	marks := &model.SubjectMarks{SEPM: 10, CN: 20, TOC: 30, CVCC: 25, RM: 15}

	_, score, err := svc.Simulate(context.Background(), in, marks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// internalTotal 取五科之和 100：30 + 9.6 + 10 + 5 + 0.75 = 55.35 -> 55
	if score.CompositeScore != 55 {
		t.Errorf("expected composite 55, got %d", score.CompositeScore)
	}
}

func newTestModelClient(url string) *HTTPModelClient {
	return NewHTTPModelClient(config.ModelConfig{BaseURL: url, TimeoutSeconds: 2})
}

func TestHTTPModelClient_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction":"Pass","confidence":0.87}`))
	}))
	defer srv.Close()

	result, err := newTestModelClient(srv.URL).Predict(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Prediction != model.PredictionPass || result.Confidence != 0.87 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Source != model.SourceModel {
		t.Errorf("expected model source, got %s", result.Source)
	}
}

func TestHTTPModelClient_UnauthorizedMeansSessionExpired(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := newTestModelClient(srv.URL).Predict(context.Background(), testInput())
		srv.Close()
		if err != util.ErrSessionExpired {
			t.Errorf("status %d: expected session expired, got %v", status, err)
		}
	}
}

func TestHTTPModelClient_ServerErrorMeansUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestModelClient(srv.URL).Predict(context.Background(), testInput())
	if err != util.ErrModelUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestHTTPModelClient_MalformedResponse(t *testing.T) {
	cases := []string{
		`not json`,
		`{"prediction":"Maybe","confidence":0.5}`,
		`{"prediction":"Pass","confidence":1.5}`,
	}
	for _, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		_, err := newTestModelClient(srv.URL).Predict(context.Background(), testInput())
		srv.Close()
		if err != util.ErrModelUnavailable {
			t.Errorf("body %q: expected unavailable, got %v", body, err)
		}
	}
}

func TestHTTPModelClient_Unreachable(t *testing.T) {
	_, err := newTestModelClient("http://127.0.0.1:1").Predict(context.Background(), testInput())
	if err != util.ErrModelUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

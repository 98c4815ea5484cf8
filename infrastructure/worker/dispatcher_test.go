package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	appservices "pursuit-backend/application/services"
	domainservices "pursuit-backend/domain/services"
	"pursuit-backend/infrastructure/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAnalytics returns canned results with a configurable delay
type stubAnalytics struct {
	delay time.Duration
	err   error
}

func (s *stubAnalytics) Velocity(ctx context.Context, entityID string, now time.Time) (domainservices.VelocityResult, error) {
	time.Sleep(s.delay)
	return domainservices.VelocityResult{ProgressPerDay: 2.5, AccelerationTrend: domainservices.TrendStable}, s.err
}

func (s *stubAnalytics) Prediction(ctx context.Context, entityID string, now time.Time) (domainservices.PredictionResult, error) {
	time.Sleep(s.delay)
	return domainservices.PredictionResult{Probability: 72, Confidence: domainservices.ConfidenceMedium}, s.err
}

func (s *stubAnalytics) BatchAnalytics(ctx context.Context, now time.Time) (appservices.BatchAnalyticsResult, error) {
	time.Sleep(s.delay)
	return appservices.BatchAnalyticsResult{ComputedAt: now}, s.err
}

// stubRecorder captures recorded computations by kind and outcome
type stubRecorder struct {
	mu       sync.Mutex
	outcomes map[string]string
}

func newStubRecorder() *stubRecorder {
	return &stubRecorder{outcomes: make(map[string]string)}
}

func (r *stubRecorder) RecordComputation(kind string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.outcomes[kind] = "error"
	} else {
		r.outcomes[kind] = "ok"
	}
}

func (r *stubRecorder) outcome(kind string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[kind]
}

func TestDispatcher_TrendRequest(t *testing.T) {
	// Arrange
	d := worker.NewDispatcher(&stubAnalytics{}, nil, time.Second, 2, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Act
	resp, err := d.Submit(context.Background(), worker.Request{
		Type:    worker.RequestTrendAnalysis,
		Payload: worker.TrendPayload{EntityID: "g1"},
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, worker.ResultTrendAnalysis, resp.Type)
	result, ok := resp.Payload.(domainservices.VelocityResult)
	require.True(t, ok)
	assert.Equal(t, 2.5, result.ProgressPerDay)
}

func TestDispatcher_PredictionRequest(t *testing.T) {
	// Arrange
	d := worker.NewDispatcher(&stubAnalytics{}, nil, time.Second, 1, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Act
	resp, err := d.Submit(context.Background(), worker.Request{
		Type:    worker.RequestPrediction,
		Payload: worker.PredictionPayload{EntityID: "g1"},
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, worker.ResultPrediction, resp.Type)
	result, ok := resp.Payload.(domainservices.PredictionResult)
	require.True(t, ok)
	assert.Equal(t, 72, result.Probability)
}

func TestDispatcher_TimeoutResolvesWithAbsentResult(t *testing.T) {
	// Arrange: computation takes far longer than the submission timeout
	d := worker.NewDispatcher(&stubAnalytics{delay: 500 * time.Millisecond}, nil, 50*time.Millisecond, 1, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Act
	resp, err := d.Submit(context.Background(), worker.Request{
		Type: worker.RequestBatchAnalytics,
	})

	// Assert: a timeout is an absent result, not an error
	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestDispatcher_ConcurrentDifferentTypes(t *testing.T) {
	// Arrange
	d := worker.NewDispatcher(&stubAnalytics{delay: 20 * time.Millisecond}, nil, time.Second, 3, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Act: three different request types in flight at once
	results := make(chan *worker.Response, 3)
	for _, req := range []worker.Request{
		{Type: worker.RequestTrendAnalysis, Payload: worker.TrendPayload{EntityID: "g1"}},
		{Type: worker.RequestPrediction, Payload: worker.PredictionPayload{EntityID: "g1"}},
		{Type: worker.RequestBatchAnalytics},
	} {
		go func(r worker.Request) {
			resp, err := d.Submit(context.Background(), r)
			require.NoError(t, err)
			results <- resp
		}(req)
	}

	// Assert
	seen := make(map[worker.ResultType]bool)
	for i := 0; i < 3; i++ {
		resp := <-results
		require.NotNil(t, resp)
		seen[resp.Type] = true
	}
	assert.Len(t, seen, 3)
}

func TestDispatcher_RecordsComputationOutcomes(t *testing.T) {
	// Arrange
	recorder := newStubRecorder()
	d := worker.NewDispatcher(&stubAnalytics{}, recorder, time.Second, 1, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Act
	for _, req := range []worker.Request{
		{Type: worker.RequestTrendAnalysis, Payload: worker.TrendPayload{EntityID: "g1"}},
		{Type: worker.RequestPrediction, Payload: worker.PredictionPayload{EntityID: "g1"}},
		{Type: worker.RequestBatchAnalytics},
	} {
		resp, err := d.Submit(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, resp)
	}

	// Assert: every computation kind was counted as successful
	assert.Equal(t, "ok", recorder.outcome("trend_analysis"))
	assert.Equal(t, "ok", recorder.outcome("prediction"))
	assert.Equal(t, "ok", recorder.outcome("batch_analytics"))
}

func TestDispatcher_RecordsFailedComputation(t *testing.T) {
	// Arrange
	recorder := newStubRecorder()
	d := worker.NewDispatcher(&stubAnalytics{err: assert.AnError}, recorder, time.Second, 1, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Act
	resp, err := d.Submit(context.Background(), worker.Request{
		Type:    worker.RequestPrediction,
		Payload: worker.PredictionPayload{EntityID: "g1"},
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Error(t, resp.Err)
	assert.Equal(t, "error", recorder.outcome("prediction"))
}

func TestDispatcher_BadPayload(t *testing.T) {
	// Arrange
	d := worker.NewDispatcher(&stubAnalytics{}, nil, time.Second, 1, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Act
	resp, err := d.Submit(context.Background(), worker.Request{
		Type:    worker.RequestTrendAnalysis,
		Payload: 42,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Error(t, resp.Err)
}

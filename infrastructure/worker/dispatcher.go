package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	appservices "pursuit-backend/application/services"
	domainservices "pursuit-backend/domain/services"
)

// RequestType tags an outbound computation request
type RequestType string

const (
	RequestTrendAnalysis  RequestType = "COMPUTE_TREND_ANALYSIS"
	RequestPrediction     RequestType = "COMPUTE_PREDICTION"
	RequestBatchAnalytics RequestType = "COMPUTE_BATCH_ANALYTICS"
)

// ResultType tags a response message
type ResultType string

const (
	ResultTrendAnalysis  ResultType = "TREND_ANALYSIS_RESULT"
	ResultPrediction     ResultType = "PREDICTION_RESULT"
	ResultBatchAnalytics ResultType = "BATCH_ANALYTICS_RESULT"
)

// TrendPayload requests a velocity computation for one entity
type TrendPayload struct {
	EntityID string
}

// PredictionPayload requests a completion-probability computation
type PredictionPayload struct {
	EntityID string
}

// Request is one computation message. Payload shape depends on Type;
// batch analytics needs no payload.
type Request struct {
	Type    RequestType
	Payload interface{}

	reply chan *Response
}

// Response carries a computation result back to the submitter
type Response struct {
	Type    ResultType
	Payload interface{}
	Err     error
}

// Analytics is the slice of the application facade the dispatcher drives
type Analytics interface {
	Velocity(ctx context.Context, entityID string, now time.Time) (domainservices.VelocityResult, error)
	Prediction(ctx context.Context, entityID string, now time.Time) (domainservices.PredictionResult, error)
	BatchAnalytics(ctx context.Context, now time.Time) (appservices.BatchAnalyticsResult, error)
}

// ComputationRecorder counts finished computations by kind and outcome.
// A nil recorder disables counting.
type ComputationRecorder interface {
	RecordComputation(kind string, err error)
}

// Dispatcher runs the pure analytics computations off the caller's
// goroutine. Each submission gets its own reply channel; a timed-out
// submission resolves with an absent result rather than an error, since
// the in-flight computation is synchronous and cannot be interrupted.
// Requests of the same type are not deduplicated.
type Dispatcher struct {
	analytics Analytics
	recorder  ComputationRecorder
	requests  chan *Request
	timeout   time.Duration
	workers   int
	logger    *zap.Logger
	stopCh    chan struct{}
}

// NewDispatcher creates a dispatcher with the given submission timeout
func NewDispatcher(analytics Analytics, recorder ComputationRecorder, timeout time.Duration, workers int, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		analytics: analytics,
		recorder:  recorder,
		requests:  make(chan *Request, 64),
		timeout:   timeout,
		workers:   workers,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		go d.run()
	}
	d.logger.Info("analytics dispatcher started", zap.Int("workers", d.workers))
}

// Stop shuts the workers down. In-flight computations finish; queued
// requests are dropped.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
}

// Submit sends a request and waits for its response. A nil response with
// a nil error means the submission timed out and the result is absent.
func (d *Dispatcher) Submit(ctx context.Context, req Request) (*Response, error) {
	req.reply = make(chan *Response, 1)

	select {
	case d.requests <- &req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(d.timeout):
		d.logger.Warn("dispatcher queue full, dropping request", zap.String("type", string(req.Type)))
		return nil, nil
	}

	select {
	case resp := <-req.reply:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(d.timeout):
		d.logger.Warn("computation timed out", zap.String("type", string(req.Type)))
		return nil, nil
	}
}

func (d *Dispatcher) run() {
	for {
		select {
		case <-d.stopCh:
			return
		case req := <-d.requests:
			resp := d.handle(req)
			// The reply channel is buffered; if the submitter already
			// timed out the response is simply discarded.
			req.reply <- resp
		}
	}
}

func (d *Dispatcher) handle(req *Request) *Response {
	ctx := context.Background()
	now := time.Now()

	switch req.Type {
	case RequestTrendAnalysis:
		payload, ok := req.Payload.(TrendPayload)
		if !ok {
			return &Response{Type: ResultTrendAnalysis, Err: errBadPayload(req.Type)}
		}
		result, err := d.analytics.Velocity(ctx, payload.EntityID, now)
		d.record("trend_analysis", err)
		return &Response{Type: ResultTrendAnalysis, Payload: result, Err: err}

	case RequestPrediction:
		payload, ok := req.Payload.(PredictionPayload)
		if !ok {
			return &Response{Type: ResultPrediction, Err: errBadPayload(req.Type)}
		}
		result, err := d.analytics.Prediction(ctx, payload.EntityID, now)
		d.record("prediction", err)
		return &Response{Type: ResultPrediction, Payload: result, Err: err}

	case RequestBatchAnalytics:
		result, err := d.analytics.BatchAnalytics(ctx, now)
		d.record("batch_analytics", err)
		return &Response{Type: ResultBatchAnalytics, Payload: result, Err: err}

	default:
		d.logger.Warn("unknown request type", zap.String("type", string(req.Type)))
		return &Response{Err: errBadPayload(req.Type)}
	}
}

func (d *Dispatcher) record(kind string, err error) {
	if d.recorder != nil {
		d.recorder.RecordComputation(kind, err)
	}
}

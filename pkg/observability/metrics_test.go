package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordComputation(t *testing.T) {
	// Arrange
	m := NewMetrics()

	// Act
	m.RecordComputation("prediction", nil)
	m.RecordComputation("prediction", nil)
	m.RecordComputation("prediction", errors.New("boom"))
	m.RecordComputation("batch_analytics", nil)

	// Assert: outcomes are split per kind
	assert.Equal(t, 2.0, testutil.ToFloat64(m.computations.WithLabelValues("prediction", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.computations.WithLabelValues("prediction", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.computations.WithLabelValues("batch_analytics", "ok")))
}

func TestMetrics_Increment(t *testing.T) {
	// Arrange
	m := NewMetrics()

	// Act
	m.Increment("query", "GetGoalQuery")
	m.Increment("query", "GetGoalQuery")

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(m.busOps.WithLabelValues("query", "GetGoalQuery")))
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	// Arrange
	m := NewMetrics()

	// Act
	m.RecordHTTPRequest("GET", "/api/v1/goals", 200, 25*time.Millisecond)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/goals", "200")))
}

package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(measurementsRecorded)
	RecordMeasurement()
	assert.Equal(t, before+1, testutil.ToFloat64(measurementsRecorded))

	RecordBattleFinished("duration")
	assert.Equal(t, 1.0, testutil.ToFloat64(battlesFinished.WithLabelValues("duration")))

	ObserveRequest("", http.MethodGet, http.StatusNotFound, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("unmatched", http.MethodGet, "404")))
}

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, ResultSuccess, Outcome(nil))
	assert.Equal(t, ResultFailure, Outcome(errors.New("x")))
}

func TestCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(Uploads.WithLabelValues(ResultSuccess))
	Uploads.WithLabelValues(ResultSuccess).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Uploads.WithLabelValues(ResultSuccess)))
}

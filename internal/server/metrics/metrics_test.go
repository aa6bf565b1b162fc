package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(AccountOperations.WithLabelValues("delete_user", "failed"))

	ObserveOperation("delete_user", false)
	ObserveOperation("delete_user", true)

	assert.Equal(t, before+1, testutil.ToFloat64(AccountOperations.WithLabelValues("delete_user", "failed")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(AccountOperations.WithLabelValues("delete_user", "ok")), 1.0)
}

func TestLoginAttempts_Labels(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues(OutcomeLockout))
	LoginAttempts.WithLabelValues(OutcomeLockout).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues(OutcomeLockout)))
}

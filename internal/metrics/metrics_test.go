package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// promauto registers on package init.
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, EbayAPICallsTotal)
	assert.NotNil(t, TokenGrantsTotal)
	assert.NotNil(t, EbayDailyUsage)
	assert.NotNil(t, EbayDailyLimitHits)
	assert.NotNil(t, CopyGenerationDuration)
	assert.NotNil(t, CopyGenerationFailuresTotal)
	assert.NotNil(t, SessionsActive)
	assert.NotNil(t, SessionSavesTotal)
	assert.NotNil(t, SessionsEvictedTotal)
	assert.NotNil(t, AuthTransitionsTotal)
}

package panels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnJob(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `elc_readyz_up{job="listing-creator"}`, OnJob("elc_readyz_up"))
}

func TestProbeStat(t *testing.T) {
	t.Parallel()

	p, err := ProbeStat("Readyz", "store reachability", "elc_readyz_up").Build()
	require.NoError(t, err)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Readyz", *p.Title)
	require.Len(t, p.Targets, 1)
}

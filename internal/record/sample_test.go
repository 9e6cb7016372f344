package record

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iffidb/internal/audit"
)

func TestGenerateSampleSeedsRequestedCount(t *testing.T) {
	svc, log, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.GenerateSample(ctx, 4))

	records, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)

	for _, r := range records {
		assert.NotEmpty(t, r.Name)
		assert.Contains(t, r.Email, "@example.com")
		assert.NotEqual(t, SentinelNA, r.Phone)
		assert.NotEqual(t, SentinelNA, r.Address)
	}

	system := entriesByAction(log, audit.ActionSystem)
	require.Len(t, system, 1)
	assert.Equal(t, "Generated 4 sample records.", system[0].Details)
}

func TestGenerateSampleDefaultsToTen(t *testing.T) {
	svc, log, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.GenerateSample(ctx, 0))

	records, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, DefaultSampleSize)

	system := entriesByAction(log, audit.ActionSystem)
	require.Len(t, system, 1)
	assert.Equal(t, fmt.Sprintf("Generated %d sample records.", DefaultSampleSize), system[0].Details)
}

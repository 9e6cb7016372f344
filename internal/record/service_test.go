package record

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iffidb/internal/audit"
	"iffidb/internal/store"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *audit.Log, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "iffidb.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := audit.New(st, "", zap.NewNop())
	base := append([]Option{WithDelays(Delays{})}, opts...)
	svc := NewService(st, log, st.Notifier(), zap.NewNop(), base...)
	return svc, log, st
}

func entriesByAction(log *audit.Log, action audit.Action) []audit.Entry {
	var out []audit.Entry
	for _, e := range log.List() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func strptr(s string) *string { return &s }

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	svc, log, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, Fields{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.NotZero(t, rec.CreatedAt)
	assert.Equal(t, SentinelNA, rec.Phone)
	assert.Equal(t, SentinelNA, rec.Address)

	created := entriesByAction(log, audit.ActionCreate)
	require.Len(t, created, 1)
	assert.Equal(t, "Created record: Jane Doe", created[0].Details)
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		fields Fields
	}{
		{"no name", Fields{Email: "a@b.com"}},
		{"no email", Fields{Name: "Jane"}},
		{"blank name", Fields{Name: "   ", Email: "a@b.com"}},
		{"nothing", Fields{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.fields)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateInsertsAtHeadWithUniqueIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	names := []string{"First", "Second", "Third"}
	for _, n := range names {
		_, err := svc.Create(ctx, Fields{Name: n, Email: n + "@example.com"})
		require.NoError(t, err)
	}

	records, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "Third", records[0].Name)
	assert.Equal(t, "First", records[2].Name)

	seen := map[string]bool{}
	for _, r := range records {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}

	// CreatedAt is non-decreasing in insertion order (records are listed
	// newest first, so the stored values decrease down the slice).
	for i := 0; i < len(records)-1; i++ {
		assert.GreaterOrEqual(t, records[i].CreatedAt, records[i+1].CreatedAt)
	}
}

func TestCreatePublishesChange(t *testing.T) {
	svc, _, st := newTestService(t)

	published := 0
	cancel := st.Notifier().Subscribe(func() { published++ })
	defer cancel()

	_, err := svc.Create(context.Background(), Fields{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, published)
}

func TestUpdateMergesOnlyGivenFields(t *testing.T) {
	svc, log, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, Fields{
		Name: "Jane Doe", Email: "jane@example.com", Phone: "123-4567", Address: "1 Main St",
	})
	require.NoError(t, err)

	got, err := svc.Update(ctx, rec.ID, Partial{Name: strptr("Jane Smith")})
	require.NoError(t, err)

	want := rec
	want.Name = "Jane Smith"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged record mismatch (-want +got):\n%s", diff)
	}

	updated := entriesByAction(log, audit.ActionUpdate)
	require.Len(t, updated, 1)
	assert.Equal(t, "Updated record: Jane Smith", updated[0].Details)
}

func TestUpdateWithEmptyPartialLeavesRecordUnchanged(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, Fields{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, rec.ID, Partial{})
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	svc, log, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "missing-id", Partial{Name: strptr("x")})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing-id", nf.ID)

	errs := entriesByAction(log, audit.ActionError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Details, "Update failed")
}

func TestDeleteRemovesRecordPermanently(t *testing.T) {
	svc, log, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, Fields{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID))

	records, err := svc.List(ctx)
	require.NoError(t, err)
	for _, r := range records {
		assert.NotEqual(t, rec.ID, r.ID)
	}

	deleted := entriesByAction(log, audit.ActionDelete)
	require.Len(t, deleted, 1)
	assert.Equal(t, "Deleted record: Jane", deleted[0].Details)
}

func TestDeleteUnknownIDLeavesCollectionUntouched(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Fields{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	err = svc.Delete(ctx, "missing-id")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	records, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListEmptyStore(t *testing.T) {
	svc, _, _ := newTestService(t)

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStats(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	clock := &fakeClock{t: yesterday}
	svc, _, _ := newTestService(t, WithClock(clock.Now))
	ctx := context.Background()

	// One record created "yesterday", two created "today".
	_, err := svc.Create(ctx, Fields{Name: "Old", Email: "old@example.com"})
	require.NoError(t, err)

	clock.t = time.Now()
	for _, n := range []string{"A", "B"} {
		_, err := svc.Create(ctx, Fields{Name: n, Email: n + "@example.com"})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.NewToday)
	assert.GreaterOrEqual(t, stats.DeletedCount, 5)
	assert.Less(t, stats.DeletedCount, 25)
	require.Len(t, stats.LastAdded, 3)
	assert.Equal(t, "B", stats.LastAdded[0].Name)
}

func TestStatsLastAddedCapsAtFive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		_, err := svc.Create(ctx, Fields{Name: n, Email: n + "@example.com"})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalRecords)
	assert.Len(t, stats.LastAdded, 5)
	assert.Equal(t, "g", stats.LastAdded[0].Name)
}

func TestMutationHonorsContextCancellation(t *testing.T) {
	svc, _, _ := newTestService(t, WithDelays(Delays{Mutate: time.Minute}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, Fields{Name: "Jane", Email: "jane@example.com"})
	assert.True(t, errors.Is(err, context.Canceled))
}

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagesign/jutsu/internal/catalog"
	"github.com/kagesign/jutsu/internal/gesture"
	"github.com/kagesign/jutsu/internal/progress"
	"github.com/kagesign/jutsu/internal/tracker"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestIdleSnapshot(t *testing.T) {
	tr, err := tracker.New(catalog.Default())
	require.NoError(t, err)

	r := progress.Snapshot(tr, epoch)
	assert.False(t, r.Active)
	assert.Empty(t, r.Accepted)
	assert.Zero(t, r.Elapsed)
	assert.Empty(t, r.Possible)
}

func TestTrackingSnapshot(t *testing.T) {
	tr, err := tracker.New(catalog.Default(), tracker.WithInstantAcceptance())
	require.NoError(t, err)

	// Ox keeps chidori (4s window) and water-dragon (10s window) alive.
	out := tr.Update(gesture.Ox, 0.9, epoch)
	require.IsType(t, tracker.Progressed{}, out)

	now := epoch.Add(time.Second)
	r := progress.Snapshot(tr, now)

	assert.True(t, r.Active)
	assert.Equal(t, []gesture.Seal{gesture.Ox}, r.Accepted)
	assert.Equal(t, time.Second, r.Elapsed)

	require.Len(t, r.Possible, 2)
	// Sorted by ascending time left: chidori (3s) before water-dragon (9s).
	assert.Equal(t, "chidori", r.Possible[0].ComboID)
	assert.Equal(t, 3*time.Second, r.Possible[0].TimeLeft)
	assert.Equal(t, gesture.Hare, r.Possible[0].Next)
	assert.Equal(t, []gesture.Seal{gesture.Hare, gesture.Monkey}, r.Possible[0].Remaining)

	assert.Equal(t, "water-dragon", r.Possible[1].ComboID)
	assert.Equal(t, 9*time.Second, r.Possible[1].TimeLeft)
	assert.Equal(t, gesture.Monkey, r.Possible[1].Next)
}

func TestTimeLeftClampsToZero(t *testing.T) {
	tr, err := tracker.New(catalog.Default(), tracker.WithInstantAcceptance())
	require.NoError(t, err)

	tr.Update(gesture.Snake, 0.9, epoch) // fireball, 5s default window

	r := progress.Snapshot(tr, epoch.Add(7*time.Second))
	require.Len(t, r.Possible, 1)
	assert.Equal(t, time.Duration(0), r.Possible[0].TimeLeft)
	// Snapshots never mutate: the expired attempt is still reported until
	// the next Update call observes the timeout.
	assert.True(t, r.Active)
}

func TestSnapshotIsIdempotent(t *testing.T) {
	tr, err := tracker.New(catalog.Default(), tracker.WithInstantAcceptance())
	require.NoError(t, err)

	tr.Update(gesture.Ox, 0.9, epoch)

	now := epoch.Add(1500 * time.Millisecond)
	first := progress.Snapshot(tr, now)
	second := progress.Snapshot(tr, now)
	assert.Equal(t, first, second)

	// The snapshot itself must not have advanced the machine.
	third := progress.Snapshot(tr, now)
	assert.Equal(t, first, third)
}

func TestTargetedIdleSnapshot(t *testing.T) {
	tr, err := tracker.New(catalog.Default(),
		tracker.WithInstantAcceptance(), tracker.WithTarget("fireball"))
	require.NoError(t, err)

	r := progress.Snapshot(tr, epoch)
	assert.True(t, r.Active)
	require.Len(t, r.Possible, 1)
	assert.Equal(t, "fireball", r.Possible[0].ComboID)
	assert.Equal(t, gesture.Snake, r.Possible[0].Next)
	assert.Len(t, r.Possible[0].Remaining, 3)
	assert.Equal(t, 5*time.Second, r.Possible[0].TimeLeft)
}

func TestUrgencyBands(t *testing.T) {
	cases := []struct {
		left time.Duration
		want progress.Urgency
	}{
		{5 * time.Second, progress.UrgencyLow},
		{2001 * time.Millisecond, progress.UrgencyLow},
		{2 * time.Second, progress.UrgencyMedium},
		{time.Second, progress.UrgencyMedium},
		{999 * time.Millisecond, progress.UrgencyCritical},
		{0, progress.UrgencyCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, progress.UrgencyFor(tc.left), "left=%v", tc.left)
	}
}

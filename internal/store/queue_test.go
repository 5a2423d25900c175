package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enqueueAll adds the ids in order with the given priority.
func enqueueAll(t *testing.T, s *Store, priority Priority, trackIDs ...string) {
	t.Helper()

	for _, trackID := range trackIDs {
		added, err := s.Enqueue(trackID, priority)
		require.NoError(t, err)
		require.True(t, added, "track %s should be new", trackID)
	}
}

// drainIDs returns the queue drain order as a plain id list.
func drainIDs(s *Store) []string {
	entries := s.DequeueSorted()

	trackIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		trackIDs = append(trackIDs, entry.TrackID)
	}

	return trackIDs
}

func TestEnqueueDeduplicates(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	added, err := s.Enqueue("100", PriorityNormal)
	require.NoError(t, err)
	assert.True(t, added)

	// Re-enqueueing the same id is a no-op, regardless of priority.
	added, err = s.Enqueue("100", PriorityHigh)
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, s.QueueLength())

	entries := s.DequeueSorted()
	require.Len(t, entries, 1)
	assert.Equal(t, PriorityNormal, entries[0].Priority)
}

func TestEnqueueRejectsGrantedTracks(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityNormal, "200")
	require.NoError(t, s.PromoteToAvailable("200"))

	// The queue and the granted set stay disjoint.
	added, err := s.Enqueue("200", PriorityHigh)
	require.NoError(t, err)
	assert.False(t, added)

	assert.False(t, s.IsQueued("200"))
	assert.True(t, s.IsAvailable("200"))
}

func TestOrderKeysAreStrictlyMonotonic(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	// Enqueue fast enough that wall-clock milliseconds collide.
	enqueueAll(t, s, PriorityNormal, "1", "2", "3", "4", "5")

	entries := s.DequeueSorted()
	require.Len(t, entries, 5)

	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].OrderKey, entries[i-1].OrderKey)
	}

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, drainIDs(s))
}

func TestDrainOrderRespectsPriorityTiers(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityLow, "low-1")
	enqueueAll(t, s, PriorityNormal, "normal-1", "normal-2")
	enqueueAll(t, s, PriorityHigh, "high-1")
	enqueueAll(t, s, PriorityNormal, "normal-3")

	assert.Equal(t, []string{"high-1", "normal-1", "normal-2", "normal-3", "low-1"}, drainIDs(s))
}

func TestPromoteToTopPreservesInputOrder(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityNormal, "a", "b", "c", "d", "e")

	moved, err := s.PromoteToTop([]string{"d", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	// d and b jump ahead of everything else, in the requested order.
	assert.Equal(t, []string{"d", "b", "a", "c", "e"}, drainIDs(s))
}

func TestPromoteToTopStaysWithinTier(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityHigh, "h1")
	enqueueAll(t, s, PriorityNormal, "n1", "n2")
	enqueueAll(t, s, PriorityLow, "l1")

	moved, err := s.PromoteToTop([]string{"n2"})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	// Promotion reorders within the tier; it never outranks High entries.
	assert.Equal(t, []string{"h1", "n2", "n1", "l1"}, drainIDs(s))
}

func TestPromoteToTopIgnoresUnknownIDs(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityNormal, "a", "b")

	moved, err := s.PromoteToTop([]string{"missing", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	assert.Equal(t, []string{"b", "a"}, drainIDs(s))

	moved, err = s.PromoteToTop(nil)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestCompactOrderKeys(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityNormal, "a", "b", "c")

	// Promotion pushes keys below the millisecond range.
	_, err := s.PromoteToTop([]string{"c"})
	require.NoError(t, err)

	before := drainIDs(s)

	require.NoError(t, s.CompactOrderKeys())

	// Compaction renumbers to 1..n without changing the order.
	assert.Equal(t, before, drainIDs(s))

	entries := s.DequeueSorted()
	require.Len(t, entries, 3)

	keys := make(map[float64]bool, len(entries))
	for _, entry := range entries {
		keys[entry.OrderKey] = true
	}

	assert.True(t, keys[1] && keys[2] && keys[3], "keys should be dense ranks, got %v", keys)

	// Compacting an empty queue is a no-op.
	empty := openTestStore(t)
	require.NoError(t, empty.CompactOrderKeys())
}

func TestUpdatePriority(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityLow, "x")
	enqueueAll(t, s, PriorityNormal, "y")

	updated, err := s.UpdatePriority("x", PriorityHigh)
	require.NoError(t, err)
	assert.True(t, updated)

	assert.Equal(t, []string{"x", "y"}, drainIDs(s))

	updated, err = s.UpdatePriority("missing", PriorityHigh)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRemoveQueued(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityNormal, "a", "b")

	removed, err := s.RemoveQueued("a")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"b"}, drainIDs(s))

	removed, err = s.RemoveQueued("a")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPromoteToAvailablePersistsAtomically(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultSnapshotFilename)

	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.Enqueue("303", PriorityNormal)
	require.NoError(t, err)

	require.NoError(t, s.PromoteToAvailable("303"))

	// A reopened store sees the grant exactly once and the queue entry gone.
	reopened, err := Open(path)
	require.NoError(t, err)

	assert.False(t, reopened.IsQueued("303"))
	assert.Equal(t, []string{"303"}, reopened.ListAvailable())

	// Promoting again is idempotent.
	require.NoError(t, reopened.PromoteToAvailable("303"))
	assert.Equal(t, []string{"303"}, reopened.ListAvailable())
}

func TestQueueMirrorMarking(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	enqueueAll(t, s, PriorityNormal, "1", "2", "3")

	pending := s.ListPendingMirrorQueue()
	assert.Len(t, pending, 3)

	require.NoError(t, s.MarkQueueMirrored([]string{"1", "3"}))

	pending = s.ListPendingMirrorQueue()
	require.Len(t, pending, 1)
	assert.Equal(t, "2", pending[0].TrackID)

	assert.True(t, s.IsQueueMigrated("1"))
	assert.True(t, s.IsQueueMigrated("3"))
	assert.False(t, s.IsQueueMigrated("2"))
}

package rtable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHost string

func (h testHost) Name() string { return string(h) }

func TestNewEntryRejectsNilDestination(t *testing.T) {
	_, err := NewEntry(nil, 0, 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEntry))
}

func TestNewEntryRejectsNegativePort(t *testing.T) {
	_, err := NewEntry(testHost("h1"), -1, 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEntry))
}

func TestEntryIsExpired(t *testing.T) {
	e := MustNewEntry(testHost("h1"), 0, 1, 10)
	assert.False(t, e.IsExpired(10))
	assert.True(t, e.IsExpired(10.0001))
	assert.False(t, e.IsExpired(9.9999))
}

func TestForeverEntryNeverExpires(t *testing.T) {
	e := MustNewEntry(testHost("h1"), 0, 1, Forever)
	assert.False(t, e.IsExpired(1_000_000))
	assert.True(t, e.IsStatic())
}

func TestTablePutRejectsNilDestination(t *testing.T) {
	tbl := New("R1")
	err := tbl.Put(Entry{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRouteTable))
}

func TestTablePutAndGet(t *testing.T) {
	tbl := New("R1")
	h1 := testHost("h1")
	e := MustNewEntry(h1, 2, 3, 10)
	require.NoError(t, tbl.Put(e))

	got, ok := tbl.Get(h1)
	require.True(t, ok)
	assert.Equal(t, e, got)
	assert.Equal(t, 1, tbl.Len())
}

func TestTableExactlyOneEntryPerDestination(t *testing.T) {
	tbl := New("R1")
	h1 := testHost("h1")
	require.NoError(t, tbl.Put(MustNewEntry(h1, 1, 1, 10)))
	require.NoError(t, tbl.Put(MustNewEntry(h1, 2, 5, 20)))

	assert.Equal(t, 1, tbl.Len())
	got, _ := tbl.Get(h1)
	assert.Equal(t, 2, got.Port)
}

func TestTableSnapshotIsIndependent(t *testing.T) {
	tbl := New("R1")
	h1 := testHost("h1")
	require.NoError(t, tbl.Put(MustNewEntry(h1, 1, 1, 10)))

	snap := tbl.Snapshot()
	require.NoError(t, tbl.Put(MustNewEntry(h1, 9, 9, 90)))

	got, _ := snap.Get(h1)
	assert.Equal(t, 1, got.Port, "snapshot must not observe later mutations")

	live, _ := tbl.Get(h1)
	assert.Equal(t, 9, live.Port)
}

func TestTableStringEmptyAndPopulated(t *testing.T) {
	tbl := New("R1")
	assert.Contains(t, tbl.String(0), "(empty table)")

	h1 := testHost("h1")
	require.NoError(t, tbl.Put(MustNewEntry(h1, 1, 1, 10)))
	out := tbl.String(0)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "h1")
}

func TestTableDestinationsDeterministicOrder(t *testing.T) {
	tbl := New("R1")
	require.NoError(t, tbl.Put(MustNewEntry(testHost("b"), 0, 1, 10)))
	require.NoError(t, tbl.Put(MustNewEntry(testHost("a"), 0, 1, 10)))

	dests := tbl.Destinations()
	require.Len(t, dests, 2)
	assert.Equal(t, "a", dests[0].Name())
	assert.Equal(t, "b", dests[1].Name())
}

package rtable

import (
	"fmt"
	"sort"

	"github.com/adiboy6/routing/pkg/simnet"
)

// Table is a validated mapping from destination host to its table
// entry. It owns its entries: the only way to mutate it is through Put
// and Delete, both of which enforce the routing-table invariants (one
// entry per destination, keyed by that destination).
type Table struct {
	entries map[simnet.Host]Entry
	owner   string // router name, used only for String()
}

// New returns an empty, ready-to-use Table.
func New(owner string) *Table {
	return &Table{entries: make(map[simnet.Host]Entry), owner: owner}
}

// Put inserts or replaces the entry for its own destination. It returns
// ErrInvalidRouteTable if entry.Destination is nil.
func (t *Table) Put(entry Entry) error {
	if entry.Destination == nil {
		return fmt.Errorf("%w: entry has nil destination", ErrInvalidRouteTable)
	}
	if t.entries == nil {
		t.entries = make(map[simnet.Host]Entry)
	}
	t.entries[entry.Destination] = entry
	return nil
}

// Get returns the entry for destination and whether it was present.
func (t *Table) Get(destination simnet.Host) (Entry, bool) {
	e, ok := t.entries[destination]
	return e, ok
}

// Has reports whether destination has an entry.
func (t *Table) Has(destination simnet.Host) bool {
	_, ok := t.entries[destination]
	return ok
}

// Delete removes the entry for destination, if any.
func (t *Table) Delete(destination simnet.Host) {
	delete(t.entries, destination)
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Destinations returns every destination currently in the table, in an
// unspecified but stable-for-iteration order (sorted by name, so output
// is deterministic for tests and for String's rendering).
func (t *Table) Destinations() []simnet.Host {
	hosts := make([]simnet.Host, 0, len(t.entries))
	for h := range t.entries {
		hosts = append(hosts, h)
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Name() < hosts[j].Name() })
	return hosts
}

// Each calls fn for every (destination, entry) pair, in the same
// deterministic order as Destinations.
func (t *Table) Each(fn func(destination simnet.Host, entry Entry)) {
	for _, h := range t.Destinations() {
		fn(h, t.entries[h])
	}
}

// Snapshot returns a copy of the table whose entry map is independent of
// t: mutating t afterward does not retroactively change the snapshot.
// Entry values are themselves immutable, so a shallow map copy suffices.
func (t *Table) Snapshot() *Table {
	cp := New(t.owner)
	for h, e := range t.entries {
		cp.entries[h] = e
	}
	return cp
}

// String renders the table using the fixed four-column layout
// (name, port, latency, seconds-until-expiry), for use in tests and
// diagnostic logging.
func (t *Table) String(now float64) string {
	out := "=== Table"
	if t.owner != "" {
		out += " for " + t.owner
	}
	out += " ===\n"

	if len(t.entries) == 0 {
		return out + "(empty table)"
	}

	out += fmt.Sprintf("%-6s %-3s %-4s %s\n", "name", "prt", "lat", "sec")
	out += "------ --- ---- -----\n"
	rows := make([]string, 0, len(t.entries))
	t.Each(func(_ simnet.Host, e Entry) {
		rows = append(rows, e.Dump(now))
	})
	for i, r := range rows {
		out += r
		if i < len(rows)-1 {
			out += "\n"
		}
	}
	return out
}

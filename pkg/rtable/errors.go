package rtable

import "errors"

// ErrInvalidEntry is returned when a TableEntry is constructed with an
// invalid destination, port, latency, or expire time.
var ErrInvalidEntry = errors.New("rtable: invalid table entry")

// ErrInvalidRouteTable is returned when an insertion into a Table would
// store an entry under a nil destination. Put always keys an entry by
// its own destination, so a mismatched key cannot arise.
var ErrInvalidRouteTable = errors.New("rtable: invalid route table mutation")

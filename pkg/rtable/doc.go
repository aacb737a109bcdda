// Package rtable implements the routing table and its entries: the
// validated (destination -> entry) mapping every DV router and its
// previously-advertised shadow table are built from.
//
// Table is deliberately not a bare map. The Python original modeled the
// routing table as a dict subclass that validated on __setitem__; here
// Put is the only insertion path (Delete the only other mutation) and
// it enforces the same invariant
// (every key equals its entry's own destination) without giving callers
// a way around it.
package rtable

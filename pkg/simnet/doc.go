/*
Package simnet defines the narrow interface boundary between a protocol
engine (pkg/dvengine, pkg/lswitch) and the discrete-event simulator that
hosts it.

No engine in this module imports a concrete simulator. Instead, engines
are constructed with a Clock, a Scheduler, and a Sender, all satisfied
either by a real simulator or by the deterministic test harness in
pkg/simharness. This lets protocol logic be driven by virtual time in
tests without a goroutine or a wall clock in sight.
*/
package simnet

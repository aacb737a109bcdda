/*
Package config implements the engine's configuration surface: a fixed,
enumerated table of named options (ttl, inf, period, sh, pr, p, link-up,
link-down, unsync, nohairpin, plus the reserved pttl) with typed parsing
and apply-once semantics.

A Registry accumulates Set calls and freezes them into an immutable
Policy the first time Build succeeds; every engine constructor takes a
Policy, never a Registry, so protocol code can never observe a
configuration change mid-run.
*/
package config

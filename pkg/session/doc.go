/*
Package session serializes access to calculator sessions.

A Manager wraps a ports.StateStore with per-session mutexes and, optionally,
a ports.DistributedLocker so that replicas sharing a Redis backend never
interleave key presses on the same session.
*/
package session

// Package server exposes a feedback Manager over HTTP and WebSocket.
//
// The HTTP surface mirrors the Manager's public operations (add, update,
// remove, removeAll, read accessors) so backends and tooling can drive
// feedback remotely, while /ws streams every lifecycle event to connected
// rendering clients as JSON frames:
//
//	{"event": "feedback:statusChanged", "payload": {"id": "…", "from": "visible", "to": "exiting"}}
//
// Clients keep their local widget state in sync by applying these frames;
// they never mutate status themselves. Slow consumers are handled with a
// bounded per-client send buffer: frames are dropped, not queued
// unboundedly, and the drop is logged.
package server

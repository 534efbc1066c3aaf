// Package migrate brings existing instances up to the layout the
// current tool version expects. Steps are versioned, idempotent, and
// applied per instance without persisted markers: re-running the driver
// against a migrated fleet changes nothing.
package migrate

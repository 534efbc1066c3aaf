// Package pm2 adapts the PM2 process supervisor for Ghosler instance
// management.
//
// Ownership boundary:
// - raw supervisor subprocess protocol (ping, jlist, start, stop,
//   restart, delete, flush, logs)
//
// - the instance registry: marker-filtered listings, cached lookups,
//   unique name generation, registration liveness checks
package pm2

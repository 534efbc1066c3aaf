// Package lifecycle orchestrates the multi-step instance workflows:
// install, update, restart, backup, uninstall, and the supervisor
// pass-throughs behind them.
//
// Ownership boundary:
// - workflow step ordering and failure semantics
//
// - instance-root file transactions (replace, keep-lists, scratch)
//
// - backup artifact creation
package lifecycle

package pm2

import "strings"

// Status is the supervisor-reported state of a managed process.
type Status string

const (
	StatusOnline  Status = "online"
	StatusStopped Status = "stopped"
	StatusErrored Status = "errored"
	StatusUnknown Status = "unknown"
)

// Instance is one supervised Ghosler process as reported by the
// supervisor listing.
type Instance struct {
	Name   string
	Path   string
	PID    int
	Status Status
	OutLog string
	ErrLog string
}

// statusFromSupervisor maps raw supervisor status strings onto the
// states this tool acts on. Transitional states it has no verdict for
// land on StatusUnknown.
func statusFromSupervisor(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "online":
		return StatusOnline
	case "stopped", "stopping":
		return StatusStopped
	case "errored":
		return StatusErrored
	default:
		return StatusUnknown
	}
}

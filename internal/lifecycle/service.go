package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/danmuck/ghoslerctl/internal/ghosler"
	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/release"
)

var (
	// ErrDirNotEmpty rejects an install target that already has contents.
	ErrDirNotEmpty = errors.New("lifecycle: target directory not empty")

	// ErrNotInstalled marks a registered instance whose directory holds
	// no recognizable application files.
	ErrNotInstalled = errors.New("lifecycle: instance files missing")
)

// ReleaseSource locates and downloads application archives.
type ReleaseSource interface {
	LatestRelease(ctx context.Context) (release.Release, error)
	BranchArchive(branch string) release.Release
	Download(ctx context.Context, url string) (string, error)
}

// Service coordinates instance workflows over the process registry, the
// release source, and the instance filesystem.
type Service struct {
	registry    *pm2.Registry
	source      ReleaseSource
	defaultPort int
}

// ServiceConfig carries the orchestrator's collaborators.
type ServiceConfig struct {
	Registry    *pm2.Registry
	Source      ReleaseSource
	DefaultPort int
}

// NewService constructs a lifecycle orchestrator.
func NewService(cfg ServiceConfig) *Service {
	port := cfg.DefaultPort
	if port <= 0 {
		port = ghosler.DefaultPort
	}
	return &Service{
		registry:    cfg.Registry,
		source:      cfg.Source,
		defaultPort: port,
	}
}

// InstanceStatus joins the supervisor's view of an instance with the
// version installed on disk.
type InstanceStatus struct {
	pm2.Instance
	Version string
}

// List returns every registered instance with its installed version.
// Instances whose directory holds no manifest report an empty version.
func (s *Service) List() ([]InstanceStatus, error) {
	instances, err := s.registry.Instances(false)
	if err != nil {
		return nil, err
	}
	out := make([]InstanceStatus, 0, len(instances))
	for _, inst := range instances {
		status := InstanceStatus{Instance: inst}
		if m, ok := ghosler.ReadManifest(inst.Path); ok {
			status.Version = m.Version
		}
		out = append(out, status)
	}
	return out, nil
}

// Restart restarts a running instance without reinstalling dependencies.
func (s *Service) Restart(name string) error {
	if _, ok, err := s.registry.Get(name, true); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", pm2.ErrUnknownInstance, name)
	}
	return s.registry.Restart(name, false)
}

// Logs returns recent log output for an instance.
func (s *Service) Logs(name string, stream string, lines int) (string, error) {
	return s.registry.Logs(name, stream, lines)
}

// Flush truncates an instance's log files.
func (s *Service) Flush(name string) error {
	return s.registry.Flush(name)
}

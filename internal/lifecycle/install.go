package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ghoslerctl/internal/archive"
	"github.com/danmuck/ghoslerctl/internal/ghosler"
	"github.com/danmuck/ghoslerctl/internal/release"
)

// InstallResult reports where a fresh instance landed.
type InstallResult struct {
	Name    string
	Path    string
	Port    int
	Version string
}

// Install provisions a new instance in dir from the requested branch and
// registers it with the supervisor under a unique name. The directory
// must be empty or absent; nothing is fetched until that holds. When the
// supervisor rejects the registration the extracted files stay on disk
// for inspection.
func (s *Service) Install(ctx context.Context, dir string, branch string) (InstallResult, error) {
	path, err := filepath.Abs(strings.TrimSpace(dir))
	if err != nil {
		return InstallResult{}, err
	}
	if err := ensureEmptyDir(path); err != nil {
		return InstallResult{}, err
	}

	branchLabel := strings.TrimSpace(branch)
	if branchLabel == "" {
		branchLabel = ghosler.DefaultBranch
	}

	rel, err := s.resolveArchive(ctx, branchLabel)
	if err != nil {
		return InstallResult{}, err
	}
	log.Info().Str("dir", path).Str("branch", branchLabel).Str("version", rel.Version).Msg("installing instance")

	zipPath, err := s.source.Download(ctx, rel.ArchiveURL)
	if err != nil {
		return InstallResult{}, err
	}
	defer os.Remove(zipPath)

	if err := archive.Extract(zipPath, path); err != nil {
		return InstallResult{}, err
	}
	if err := flattenPayload(path); err != nil {
		return InstallResult{}, err
	}

	name, err := s.registry.UniqueName(ghosler.BaseName)
	if err != nil {
		return InstallResult{}, err
	}

	if _, err := ghosler.ApplyIdentity(path, ghosler.Identity{
		Branch:      branchLabel,
		Name:        name,
		ChangePort:  true,
		DefaultPort: s.defaultPort,
	}); err != nil {
		return InstallResult{}, err
	}

	if err := s.registry.Register(branchLabel, name, path); err != nil {
		return InstallResult{}, fmt.Errorf("instance files remain at %s: %w", path, err)
	}

	result := InstallResult{Name: name, Path: path}
	if settings, ok := ghosler.ReadAppSettings(path); ok {
		result.Port = settings.Port
	}
	if m, ok := ghosler.ReadManifest(path); ok {
		result.Version = m.Version
	}
	return result, nil
}

// resolveArchive maps a branch label onto a concrete archive location.
// The default branch means the latest published release.
func (s *Service) resolveArchive(ctx context.Context, branchLabel string) (release.Release, error) {
	if branchLabel == ghosler.DefaultBranch {
		return s.source.LatestRelease(ctx)
	}
	return s.source.BranchArchive(branchLabel), nil
}

package lifecycle

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ghoslerctl/internal/pm2"
)

// UninstallResult reports what uninstall removed.
type UninstallResult struct {
	Name         string
	Path         string
	FilesRemoved bool
}

// Uninstall removes the instance from the supervisor, then deletes its
// files. Deregistration always goes first so nothing keeps running
// against a half-deleted directory. When no directory can be resolved
// for the name the deletion is skipped with a warning; the directory
// itself stays in place either way, only its contents go.
func (s *Service) Uninstall(name string) (UninstallResult, error) {
	path, ok, err := s.registry.Deregister(name)
	if err != nil {
		return UninstallResult{}, err
	}
	if !ok {
		return UninstallResult{}, fmt.Errorf("%w: %s", pm2.ErrUnknownInstance, name)
	}

	result := UninstallResult{Name: name, Path: path}
	if path == "" {
		log.Warn().Str("name", name).Msg("no directory recorded for instance, skipping file removal")
		return result, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("name", name).Str("dir", path).Msg("instance directory missing, skipping file removal")
		return result, nil
	}

	log.Info().Str("name", name).Str("dir", path).Msg("removing instance files")
	if err := removeContents(path); err != nil {
		return result, err
	}
	result.FilesRemoved = true
	return result, nil
}

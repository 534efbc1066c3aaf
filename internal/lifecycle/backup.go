package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ghoslerctl/internal/archive"
	"github.com/danmuck/ghoslerctl/internal/ghosler"
	"github.com/danmuck/ghoslerctl/internal/pm2"
)

// Backup writes a timestamped zip of the instance under its backups
// directory and returns the artifact path. Existing artifacts are never
// overwritten and never pruned.
func (s *Service) Backup(name string) (string, error) {
	inst, ok, err := s.registry.Get(name, true)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", pm2.ErrUnknownInstance, name)
	}
	return s.backupInstance(inst.Path)
}

func (s *Service) backupInstance(root string) (string, error) {
	dir := filepath.Join(root, ghosler.BackupsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	target := filepath.Join(dir, fmt.Sprintf("backup-%s.zip", stamp))
	for i := 2; ; i++ {
		if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
			break
		}
		target = filepath.Join(dir, fmt.Sprintf("backup-%s-%d.zip", stamp, i))
	}

	log.Info().Str("artifact", target).Msg("backing up instance")
	if err := archive.Create(target, root, backupExclude); err != nil {
		return "", err
	}
	return target, nil
}

// backupExclude drops the subtrees that are regenerated (dependencies),
// unbounded (logs, prior backups), or transient (update scratch).
func backupExclude(rel string) bool {
	switch rel {
	case ghosler.LogsDirName, ghosler.DependenciesDir, ghosler.BackupsDirName, ghosler.ScratchDirName:
		return true
	}
	return false
}

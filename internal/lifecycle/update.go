package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ghoslerctl/internal/archive"
	"github.com/danmuck/ghoslerctl/internal/ghosler"
	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/semver"
)

// UpdateResult reports what an update run did. Updated is false when the
// instance was already on the latest release and nothing was touched.
type UpdateResult struct {
	Name        string
	FromVersion string
	ToVersion   string
	BackupPath  string
	Updated     bool
}

// updateKeep lists the instance-root entries an update never removes:
// operator data, prior backups, the production configuration in either
// layout, and the scratch area holding the incoming payload.
func updateKeep() map[string]struct{} {
	return map[string]struct{}{
		ghosler.LogsDirName:    {},
		ghosler.ContentDirName: {},
		ghosler.BackupsDirName: {},
		ghosler.ScratchDirName: {},
		ghosler.ConfigFileName: {},
		ghosler.ConfigDirName:  {},
	}
}

// Update replaces an instance's application files with the latest
// published release. The version gate runs first: when the installed
// version is already current the call returns without backing up,
// downloading, or touching any file. Otherwise a backup is taken before
// anything is removed, and failures past the point of file removal are
// reported with restore guidance instead of being rolled back.
func (s *Service) Update(ctx context.Context, name string) (UpdateResult, error) {
	inst, ok, err := s.registry.Get(name, true)
	if err != nil {
		return UpdateResult{}, err
	}
	if !ok {
		return UpdateResult{}, fmt.Errorf("%w: %s", pm2.ErrUnknownInstance, name)
	}

	manifest, ok := ghosler.ReadManifest(inst.Path)
	if !ok {
		return UpdateResult{}, fmt.Errorf("%w: no manifest under %s", ErrNotInstalled, inst.Path)
	}

	latest, err := s.source.LatestRelease(ctx)
	if err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{Name: name, FromVersion: manifest.Version, ToVersion: latest.Version}
	if !semver.IsNewer(latest.Version, manifest.Version) {
		log.Info().Str("name", name).Str("version", manifest.Version).Msg("already on the latest release")
		return result, nil
	}
	log.Info().Str("name", name).Str("from", manifest.Version).Str("to", latest.Version).Msg("updating instance")

	backupPath, err := s.backupInstance(inst.Path)
	if err != nil {
		return UpdateResult{}, err
	}
	result.BackupPath = backupPath

	branchLabel := ghosler.DefaultBranch
	if settings, ok := ghosler.ReadAppSettings(inst.Path); ok && settings.Branch != "" {
		branchLabel = settings.Branch
	}
	rel := latest
	if branchLabel != ghosler.DefaultBranch {
		rel = s.source.BranchArchive(branchLabel)
	}

	zipPath, err := s.source.Download(ctx, rel.ArchiveURL)
	if err != nil {
		return UpdateResult{}, err
	}
	defer os.Remove(zipPath)

	scratch := filepath.Join(inst.Path, ghosler.ScratchDirName)
	if err := os.RemoveAll(scratch); err != nil {
		return UpdateResult{}, err
	}
	if err := archive.Extract(zipPath, scratch); err != nil {
		os.RemoveAll(scratch)
		return UpdateResult{}, err
	}
	payload, err := archive.PayloadRoot(scratch)
	if err != nil {
		os.RemoveAll(scratch)
		return UpdateResult{}, err
	}

	// Past this point the old application files are gone.
	if err := s.replaceInstanceFiles(inst.Path, payload); err != nil {
		return UpdateResult{}, restoreErr(backupPath, err)
	}
	os.RemoveAll(scratch)

	if _, err := ghosler.ApplyIdentity(inst.Path, ghosler.Identity{
		Branch: branchLabel,
		Name:   name,
	}); err != nil {
		return UpdateResult{}, restoreErr(backupPath, err)
	}

	if err := s.registry.Restart(name, true); err != nil {
		return UpdateResult{}, restoreErr(backupPath, err)
	}

	if m, ok := ghosler.ReadManifest(inst.Path); ok {
		result.ToVersion = m.Version
	}
	result.Updated = true
	return result, nil
}

// replaceInstanceFiles removes everything outside the keep list, then
// moves the payload in. Kept entries shadow their payload counterparts.
func (s *Service) replaceInstanceFiles(root string, payload string) error {
	keep := updateKeep()
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, kept := keep[entry.Name()]; kept {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
			return err
		}
	}
	return moveContents(payload, root)
}

// restoreErr decorates a mid-update failure with the backup to restore.
func restoreErr(backupPath string, err error) error {
	return fmt.Errorf("update interrupted; restore the backup at %s and retry: %w", backupPath, err)
}

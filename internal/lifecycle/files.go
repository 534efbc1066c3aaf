package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ghoslerctl/internal/archive"
)

// ensureEmptyDir accepts an absent or empty directory, creating it when
// missing.
func ensureEmptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrDirNotEmpty, dir)
	}
	return nil
}

// flattenPayload lifts the contents of a freshly extracted archive's
// single top-level folder up into dir, then drops the folder.
func flattenPayload(dir string) error {
	payload, err := archive.PayloadRoot(dir)
	if err != nil {
		return err
	}
	if payload == dir {
		return nil
	}
	if err := moveContents(payload, dir); err != nil {
		return err
	}
	return os.RemoveAll(payload)
}

// moveContents renames every entry of srcDir into dstDir. Entries whose
// names already exist in dstDir stay put: operator data beats archive
// payload.
func moveContents(srcDir string, dstDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())
		if _, err := os.Stat(dst); err == nil {
			log.Debug().Str("entry", entry.Name()).Msg("keeping existing copy")
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.Rename(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// removeContents deletes every entry under dir, leaving dir itself in
// place.
func removeContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

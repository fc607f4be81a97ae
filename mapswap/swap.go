package mapswap

import (
	"fmt"
	"io"
	"match-handler/applog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// placeholderFilename is the installed map slot overwritten by custom maps.
	placeholderFilename = "Labs_Utopia_P.upk"
	// PlaceholderMapName is the engine map name that loads placeholderFilename.
	PlaceholderMapName = "UtopiaRetro"

	backupTimestampLayout = "2006-01-02T15-04-05"
)

// Metadata describes the custom map that was swapped in.
type Metadata struct {
	OriginalPath string
	// ConfigPath is the companion "_<name>.cfg" script, empty when there is none.
	ConfigPath string
}

// Swap is an installed custom map. Restore must be called exactly when the match
// no longer needs the file, typically deferred right after Prepare.
type Swap struct {
	GameMap    string
	Metadata   Metadata
	slotPath   string
	backupPath string
	once       sync.Once
	restoreErr error
}

// Prepare backs up the placeholder slot in mapsDir and copies customMapFile over it.
func Prepare(customMapFile, mapsDir string) (*Swap, error) {
	meta := Metadata{
		OriginalPath: customMapFile,
	}
	if configPath := companionConfigPath(customMapFile); fileExists(configPath) {
		meta.ConfigPath = configPath
	}

	slotPath := filepath.Join(mapsDir, placeholderFilename)
	backupPath := slotPath + "." + time.Now().Format(backupTimestampLayout)

	if err := copyFile(slotPath, backupPath); err != nil {
		return nil, fmt.Errorf("failed to back up installed map: %w", err)
	}
	applog.Info("Copied real map", zap.String("backupPath", backupPath))

	swap := &Swap{
		GameMap:    PlaceholderMapName,
		Metadata:   meta,
		slotPath:   slotPath,
		backupPath: backupPath,
	}

	if err := copyFile(customMapFile, slotPath); err != nil {
		if restoreErr := swap.Restore(); restoreErr != nil {
			applog.Error("Failed to revert map after failed copy", zap.Error(restoreErr))
		}
		return nil, fmt.Errorf("failed to install custom map: %w", err)
	}
	applog.Info("Copied custom map", zap.String("customMapFile", customMapFile))

	return swap, nil
}

// Restore atomically moves the backup back into the slot. Safe to call more than once.
func (s *Swap) Restore() error {
	s.once.Do(func() {
		if err := os.Rename(s.backupPath, s.slotPath); err != nil {
			s.restoreErr = fmt.Errorf("failed to revert real map %s: %w", s.slotPath, err)
			return
		}
		applog.Info("Reverted real map", zap.String("slotPath", s.slotPath))
	})
	return s.restoreErr
}

// With runs fn while customMapFile is installed. The original map is restored on every
// exit path, including a panic inside fn.
func With(customMapFile, mapsDir string, fn func(swap *Swap) error) (err error) {
	swap, err := Prepare(customMapFile, mapsDir)
	if err != nil {
		return err
	}

	defer func() {
		if restoreErr := swap.Restore(); restoreErr != nil {
			applog.Error("Failed to restore installed map", zap.Error(restoreErr))
			if err == nil {
				err = restoreErr
			}
		}
	}()

	return fn(swap)
}

func companionConfigPath(customMapFile string) string {
	base := filepath.Base(customMapFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(customMapFile), "_"+name+".cfg")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// copyFile copies content, mode and modification time, like a metadata-preserving copy.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func(in *os.File) {
		_ = in.Close()
	}(in)

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

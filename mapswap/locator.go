package mapswap

import (
	"encoding/json"
	"errors"
	"fmt"
	"match-handler/applog"
	"match-handler/launcher"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrMapDirectoryNotFound = errors.New("couldn't find path to the game's maps folder")

// Locator finds the executables the maps directory is derived from.
type Locator interface {
	SteamExecutable() (string, bool)
	EpicGameExecutable() (string, bool)
}

// IdentifyMapDirectory resolves the installed game's maps directory for pref.
//
// Steam libraries on a secondary disk are not probed (that needs parsing
// libraryfolders.vdf), so such installs report ErrMapDirectoryNotFound.
func IdentifyMapDirectory(pref launcher.Preference, locator Locator) (string, error) {
	var finalPath string

	switch pref.Kind {
	case launcher.KindSteam:
		steam, ok := locator.SteamExecutable()
		if !ok {
			return "", fmt.Errorf("%w: steam executable not found", ErrMapDirectoryNotFound)
		}
		finalPath = filepath.Join(filepath.Dir(steam), "steamapps", "common", "rocketleague", "TAGame", "CookedPCConsole")
	default:
		gameExe := pref.ExePath
		if gameExe == "" {
			var ok bool
			if gameExe, ok = locator.EpicGameExecutable(); !ok {
				return "", fmt.Errorf("%w: epic game executable not found", ErrMapDirectoryNotFound)
			}
		}
		// Strip Binaries/Win64 off the executable's directory.
		finalPath = filepath.Join(filepath.Dir(gameExe), "..", "..", "TAGame", "CookedPCConsole")
	}

	finalPath = filepath.Clean(finalPath)
	if info, err := os.Stat(finalPath); err != nil || !info.IsDir() {
		applog.Warn("Maps directory doesn't exist", zap.String("path", finalPath))
		return "", fmt.Errorf("%w: %s", ErrMapDirectoryNotFound, finalPath)
	}
	return finalPath, nil
}

// SystemLocator looks executables up from the local installation.
type SystemLocator struct {
	// ProgramData overrides the %ProgramData% directory holding the Epic manifest.
	ProgramData string
}

const epicAppName = "Sugar"

type epicLauncherInstalled struct {
	InstallationList []struct {
		InstallLocation string `json:"InstallLocation"`
		AppName         string `json:"AppName"`
	} `json:"InstallationList"`
}

func (l SystemLocator) EpicGameExecutable() (string, bool) {
	programData := l.ProgramData
	if programData == "" {
		programData = os.Getenv("ProgramData")
	}
	if programData == "" {
		return "", false
	}

	manifestPath := filepath.Join(programData, "Epic", "UnrealEngineLauncher", "LauncherInstalled.dat")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		applog.Debug("Epic launcher manifest not readable", zap.String("path", manifestPath), zap.Error(err))
		return "", false
	}

	var installed epicLauncherInstalled
	if err = json.Unmarshal(data, &installed); err != nil {
		applog.Warn("Epic launcher manifest is malformed", zap.String("path", manifestPath), zap.Error(err))
		return "", false
	}

	for _, app := range installed.InstallationList {
		if !strings.EqualFold(app.AppName, epicAppName) {
			continue
		}
		exe := filepath.Join(app.InstallLocation, "Binaries", "Win64", "RocketLeague.exe")
		if fileExists(exe) {
			return exe, true
		}
	}
	return "", false
}

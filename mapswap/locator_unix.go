//go:build !windows

package mapswap

import (
	"os"
	"path/filepath"
)

func (l SystemLocator) SteamExecutable() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	for _, root := range []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
	} {
		exe := filepath.Join(root, "steam.sh")
		if fileExists(exe) {
			return exe, true
		}
	}
	return "", false
}

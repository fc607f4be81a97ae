//go:build windows

package mapswap

import (
	"golang.org/x/sys/windows/registry"
)

func (l SystemLocator) SteamExecutable() (string, bool) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Software\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer func(key registry.Key) {
		_ = key.Close()
	}(key)

	exe, _, err := key.GetStringValue("SteamExe")
	if err != nil || exe == "" {
		return "", false
	}
	return exe, fileExists(exe)
}

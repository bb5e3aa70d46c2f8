//go:build windows

package steam

import (
	"strings"

	"golang.org/x/sys/windows/registry"
)

// registryPath читает путь установки Steam из реестра.
// HKCU хранит путь с прямыми слешами, нормализуем к виндовым.
func registryPath() string {
	if key, err := registry.OpenKey(registry.CURRENT_USER, `SOFTWARE\Valve\Steam`, registry.QUERY_VALUE); err == nil {
		path, _, err := key.GetStringValue("SteamPath")
		key.Close()
		if err == nil && path != "" {
			return strings.ReplaceAll(path, "/", `\`)
		}
	}

	if key, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Valve\Steam`, registry.QUERY_VALUE); err == nil {
		path, _, err := key.GetStringValue("InstallPath")
		key.Close()
		if err == nil && path != "" {
			return path
		}
	}

	return ""
}

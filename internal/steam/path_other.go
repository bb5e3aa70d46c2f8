//go:build !windows

package steam

// registryPath доступен только на Windows
func registryPath() string {
	return ""
}

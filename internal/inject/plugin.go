package inject

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ActivatePlugin копирует файлы плагина в корень установки Steam.
// Перезаписываемый файл один раз сохраняется рядом с суффиксом
// .backup; существующий backup не трогается. Возвращает количество
// скопированных файлов.
func ActivatePlugin(pluginDir, steamPath string, logger *slog.Logger) (int, error) {
	entries, err := os.ReadDir(pluginDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read plugin dir: %w", err)
	}

	copied := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		src := filepath.Join(pluginDir, entry.Name())
		dst := filepath.Join(steamPath, entry.Name())

		if _, err := os.Stat(dst); err == nil {
			backup := dst + ".backup"
			if _, err := os.Stat(backup); os.IsNotExist(err) {
				if err := copyFile(dst, backup); err != nil {
					return copied, fmt.Errorf("failed to backup %s: %w", entry.Name(), err)
				}
				logger.Info("backed up original file", "file", entry.Name())
			}
		}

		if err := copyFile(src, dst); err != nil {
			return copied, fmt.Errorf("failed to copy %s: %w", entry.Name(), err)
		}
		copied++
	}

	logger.Info("plugin activated", "files", copied, "steam_path", steamPath)
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

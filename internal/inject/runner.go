package inject

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/valtools/valtools/internal/models"
)

// maxStatusLine ограничивает длину одной NDJSON строки от подпроцесса
const maxStatusLine = 64 * 1024

// StatusFunc получает события прогресса от подпроцесса
type StatusFunc func(models.StatusEvent)

// Runner запускает подпроцесс автоматизации входа в Steam-клиент и
// транслирует его NDJSON события прогресса. Отмена контекста убивает
// подпроцесс.
type Runner struct {
	binaryPath string
	logger     *slog.Logger
}

// NewRunner создает runner для указанного бинаря автоматизации
func NewRunner(binaryPath string, logger *slog.Logger) *Runner {
	return &Runner{
		binaryPath: binaryPath,
		logger:     logger,
	}
}

// Run выполняет вход с переданными учетными данными.
// События `{"type":"status",...}` со stdout доставляются в onStatus;
// остальные строки игнорируются. Ненулевой код выхода возвращается
// ошибкой с содержимым stderr.
func (r *Runner) Run(ctx context.Context, username, password, steamPath string, onStatus StatusFunc) error {
	cmd := exec.CommandContext(ctx, r.binaryPath,
		"--username", username,
		"--password", password,
		"--steam-path", steamPath,
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start injection process: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 4096), maxStatusLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var event models.StatusEvent
		if err := json.Unmarshal(line, &event); err != nil {
			r.logger.Debug("skipping non-json output line", "line", string(line))
			continue
		}
		if event.Type != "status" {
			continue
		}
		if onStatus != nil {
			onStatus(event)
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("stdout scan interrupted", "error", err)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("injection canceled: %w", ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("injection process failed: %w: %s", err, msg)
		}
		return fmt.Errorf("injection process failed: %w", err)
	}
	return nil
}

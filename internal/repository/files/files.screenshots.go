// FilePath: internal/repository/files/files.screenshots.go
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

const (
	defaultPermissions  = 0755
	screenshotExtension = ".png"
	defaultDateFormat   = "20060102_150405"
)

// ScreenshotConfig holds configuration for the screenshot store
type ScreenshotConfig struct {
	BasePath    string
	MaxFileSize int64
}

// ScreenshotRepo stores screenshot bytes on disk. The paths it hands out
// are relative to BasePath and are the opaque references recorded on
// snapshot rows.
type ScreenshotRepo struct {
	config ScreenshotConfig
}

// NewScreenshotRepository creates a new disk-backed screenshot store
func NewScreenshotRepository(config ScreenshotConfig) (*ScreenshotRepo, error) {
	if err := createDirectoryIfNotExists(config.BasePath); err != nil {
		return nil, err
	}
	return &ScreenshotRepo{config: config}, nil
}

func (r *ScreenshotRepo) Save(ctx context.Context, workerID string, timestamp time.Time, src io.Reader) (string, error) {
	relPath := r.generatePath(workerID, timestamp)

	dirPath := filepath.Dir(filepath.Join(r.config.BasePath, relPath))
	if err := createDirectoryIfNotExists(dirPath); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(r.config.BasePath, relPath))
	if err != nil {
		return "", errors.NewInternalError("failed to create screenshot file", err)
	}
	defer dst.Close()

	var written int64
	if r.config.MaxFileSize > 0 {
		written, err = io.Copy(dst, io.LimitReader(src, r.config.MaxFileSize+1))
		if err == nil && written > r.config.MaxFileSize {
			os.Remove(filepath.Join(r.config.BasePath, relPath))
			return "", errors.NewValidationError("screenshot exceeds maximum allowed size", nil)
		}
	} else {
		written, err = io.Copy(dst, src)
	}
	if err != nil {
		return "", errors.NewInternalError("failed to write screenshot file", err)
	}

	nuts.L.Infof("[ScreenshotRepo] Stored screenshot %s (%d bytes)", relPath, written)
	return relPath, nil
}

// Delete removes a screenshot by its relative path. A missing file is
// reported as found=false so re-running a sweep stays idempotent.
func (r *ScreenshotRepo) Delete(ctx context.Context, path string) (bool, error) {
	cleaned, err := r.resolve(path)
	if err != nil {
		return false, err
	}

	if err := os.Remove(cleaned); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.NewInternalError("failed to delete screenshot", err)
	}
	return true, nil
}

func (r *ScreenshotRepo) Stream(ctx context.Context, path string, w io.Writer) error {
	cleaned, err := r.resolve(path)
	if err != nil {
		return err
	}

	f, err := os.Open(cleaned)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("screenshot not found", err)
		}
		return errors.NewInternalError("failed to open screenshot", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return errors.NewInternalError("failed to stream screenshot", err)
	}
	return nil
}

// resolve joins a stored relative path with the base path and rejects
// anything that escapes it.
func (r *ScreenshotRepo) resolve(path string) (string, error) {
	joined := filepath.Join(r.config.BasePath, filepath.Clean("/"+path))
	if !strings.HasPrefix(joined, filepath.Clean(r.config.BasePath)+string(os.PathSeparator)) {
		return "", errors.NewValidationError("invalid screenshot path", nil)
	}
	return joined, nil
}

func (r *ScreenshotRepo) generatePath(workerID string, timestamp time.Time) string {
	filename := fmt.Sprintf("%s_%s%s",
		workerID,
		timestamp.UTC().Format(defaultDateFormat),
		screenshotExtension,
	)
	return filepath.Join(workerID, filename)
}

func createDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		err := os.MkdirAll(path, defaultPermissions)
		if err != nil {
			return errors.NewInternalError("failed to create directory", err)
		}
	}
	return nil
}

package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"vision-infra/internal/logging"
)

// RetryConfig bounds how long a filesystem call is retried after an NFS
// stale file handle. The backoff doubles after each attempt up to
// MaxBackoff.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the retry budget used by [OS].
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

func (c RetryConfig) next(backoff time.Duration) time.Duration {
	return min(backoff*2, c.MaxBackoff)
}

func isNFSStaleError(err error) bool {
	return errors.Is(err, syscall.ESTALE)
}

// retry calls fn until it returns a value, fails with anything but
// ESTALE, or MaxRetries extra attempts have been made.
func retry[T any](op, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	backoff := config.InitialBackoff
	attempt := 0
	for {
		v, err := fn()
		switch {
		case err == nil:
			if attempt > 0 {
				logging.Info("NFS %s of %s recovered after %d retries", op, path, attempt)
			}
			return v, nil
		case !isNFSStaleError(err):
			return v, err
		case attempt == config.MaxRetries:
			logging.Warn("NFS %s of %s still stale after %d retries: %v", op, path, attempt, err)
			return v, err
		}

		attempt++
		logging.Debug("NFS %s of %s: stale file handle, attempt %d/%d in %v", op, path, attempt, config.MaxRetries, backoff)
		time.Sleep(backoff)
		backoff = config.next(backoff)
	}
}

func withRetry(op, path string, config RetryConfig, fn func() error) error {
	_, err := retry(op, path, config, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// StatWithRetry is os.Stat retried on stale NFS handles.
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return retry("stat", path, config, func() (os.FileInfo, error) { return os.Stat(path) })
}

// OpenWithRetry is os.Open retried on stale NFS handles.
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	return retry("open", path, config, func() (*os.File, error) { return os.Open(path) })
}

// ReadFileWithRetry is os.ReadFile retried on stale NFS handles.
func ReadFileWithRetry(path string, config RetryConfig) ([]byte, error) {
	return retry("read", path, config, func() ([]byte, error) { return os.ReadFile(path) })
}

package test

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WaitForHTTPStatus polls testURL until it responds with the wanted status
// code. The first channel closes on success; when the attempts run out, the
// last failure is reported on the error channel instead.
func WaitForHTTPStatus(testURL string, statusCode int) (chan struct{}, chan error) {
	return waitForHTTPStatus(testURL, statusCode, 10, 1*time.Second)
}

func waitForHTTPStatus(testURL string, statusCode int, attempts int, interval time.Duration) (chan struct{}, chan error) {
	done := make(chan struct{})
	errChan := make(chan error)

	go func() {
		var lastErr error
		for i := 0; i < attempts; i++ {
			resp, err := http.Get(testURL)
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == statusCode {
					close(done)
					return
				}
				err = fmt.Errorf("unexpected status code %d (want %d) from %s", resp.StatusCode, statusCode, testURL)
			}
			lastErr = err
			if i < attempts-1 {
				time.Sleep(interval)
			}
		}
		errChan <- lastErr
	}()

	return done, errChan
}

// TempDir creates a temporary directory and makes it the working directory for
// the duration of the test.
func TempDir(t *testing.T) string {
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(tmpDir)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(oldWd)
	})
	return tmpDir
}

package probe

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/atlas/pkg/logger"
)

const logFilePermission = 0600

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging initializes the global logger on stdout and, when logFile is
// set, appends the same records to that file. The returned closer releases
// the file.
func SetupLogging(logFile, format string) (io.Closer, error) {
	if logFile == "" {
		if err := logger.Init(logger.WithFormat(format)); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nopCloser{}, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := logger.Init(logger.WithFormat(format), logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file, nil
}

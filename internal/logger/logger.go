package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const logFileName = "sinkswitch.log"

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
)

// Init directs the standard logger to sinkswitch.log inside dir. When
// mirror is true, output is copied to stderr as well.
func Init(dir string, mirror bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	logFile = f
	mu.Unlock()

	var out io.Writer = f
	if mirror {
		out = io.MultiWriter(f, os.Stderr)
	}
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	log.Println("--- Logger initialized ---")
	return path, nil
}

// SetDebug toggles Debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		log.Println("--- Logger closing ---")
		log.SetOutput(os.Stderr)
		logFile.Close()
		logFile = nil
	}
}

// Info logs an informational message.
func Info(format string, v ...interface{}) {
	log.Printf("INFO "+format, v...)
}

// Warn logs a recoverable problem.
func Warn(format string, v ...interface{}) {
	log.Printf("WARN "+format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	log.Printf("ERROR "+format, v...)
}

// Debug logs a debug message when debug output is enabled.
func Debug(format string, v ...interface{}) {
	mu.Lock()
	enabled := debug
	mu.Unlock()
	if enabled {
		log.Printf("DEBUG "+format, v...)
	}
}

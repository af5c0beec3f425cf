package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Debug gates verbose logging across the application. Enabled with
// OMNICHAT_DEBUG=1; DebugLog then writes to <data_dir>/debug.log.
var (
	Debug    bool
	DebugLog *log.Logger
)

// InitDebugLog wires up the debug logger if OMNICHAT_DEBUG is set.
func InitDebugLog(dataDir string) error {
	if os.Getenv("OMNICHAT_DEBUG") == "" {
		return nil
	}

	logPath := filepath.Join(dataDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}

	Debug = true
	DebugLog = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	DebugLog.Printf("[Config] debug logging enabled")
	return nil
}

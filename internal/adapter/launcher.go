package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher starts the background player process
type Launcher struct {
	command string   // configured player command, empty to auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger
}

// candidatePlayers lists where a headless mpv is found on each platform, in order
var candidatePlayers = map[string][]string{
	"darwin":  {"mpv", "/opt/homebrew/bin/mpv", "/usr/local/bin/mpv", "/Applications/mpv.app/Contents/MacOS/mpv"},
	"linux":   {"mpv", "/usr/bin/mpv", "/usr/local/bin/mpv"},
	"windows": {"mpv.exe", "mpv"},
}

// lookPath is swapped out in tests
var lookPath = exec.LookPath

// NewLauncher creates a Launcher for command, auto-detecting mpv when empty
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
	}
}

// Resolve returns the executable path the launcher would start
func (l *Launcher) Resolve() (string, error) {
	if l.command != "" {
		path, err := lookPath(l.command)
		if err != nil {
			return "", fmt.Errorf("player %q not found: %w", l.command, err)
		}
		return path, nil
	}

	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, candidate := range candidates {
		path, err := lookPath(candidate)
		if err == nil {
			l.logger.Debug("detected player", "path", path)
			return path, nil
		}
		l.logger.Debug("player candidate not available", "candidate", candidate, "error", err)
	}

	return "", fmt.Errorf("no candidate players found")
}

// Start launches the player with processArgs followed by the configured args.
// It returns as soon as the process is running.
func (l *Launcher) Start(processArgs ...string) (*exec.Cmd, error) {
	path, err := l.Resolve()
	if err != nil {
		return nil, err
	}

	args := append(append([]string{}, processArgs...), l.args...)
	l.logger.Info("launching player", "command", path, "args", args)

	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start player: %w", err)
	}
	return cmd, nil
}

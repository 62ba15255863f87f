// Package mpv drives a headless mpv process over its JSON IPC socket.
package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"
)

const (
	socketCheckRetries  = 20
	socketCheckInterval = 100 * time.Millisecond
	socketReadDeadline  = 2 * time.Second
	quitGracePeriod     = 500 * time.Millisecond
)

// launcher starts the mpv process (consumer-defined interface)
type launcher interface {
	Start(args ...string) (*exec.Cmd, error)
}

type command struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type response struct {
	Error     string `json:"error"`
	Data      any    `json:"data"`
	RequestID int    `json:"request_id"`
	Event     string `json:"event"`
}

// Player implements domain.MediaPlayer. The mpv process is started lazily on
// the first Play that has a URI to load.
type Player struct {
	socketPath string
	launcher   launcher
	logger     *slog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	exited  chan struct{}
	uri     string
	loaded  bool // uri has been handed to mpv
	started bool
	nextID  int
}

// NewPlayer creates a player talking to mpv on socketPath
func NewPlayer(socketPath string, l launcher, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		socketPath: socketPath,
		launcher:   l,
		logger:     logger,
	}
}

// SetURI records the next stream to play, stopping whatever mpv has loaded.
// Playback does not start until Play.
func (p *Player) SetURI(uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.loaded && p.running() {
		_, err = p.send(command{Command: []any{"stop"}})
	}
	p.uri = uri
	p.loaded = false
	return err
}

// Play loads the current URI or resumes it when paused. Without a URI it does nothing.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.uri == "" {
		p.logger.Debug("play without uri ignored")
		return nil
	}

	if err := p.ensureProcess(); err != nil {
		return err
	}

	if p.loaded {
		_, err := p.send(command{Command: []any{"set_property", "pause", false}})
		return err
	}

	_, err := p.send(
		command{Command: []any{"loadfile", p.uri, "replace"}},
		command{Command: []any{"set_property", "pause", false}},
	)
	if err != nil {
		return err
	}
	p.loaded = true
	p.logger.Info("playing", "uri", p.uri)
	return nil
}

// Pause pauses a loaded stream
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded || !p.running() {
		return nil
	}
	_, err := p.send(command{Command: []any{"set_property", "pause", true}})
	return err
}

// Stop unloads the stream; the URI is kept for a later Play
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running() {
		p.loaded = false
		return nil
	}
	_, err := p.send(command{Command: []any{"stop"}})
	p.loaded = false
	return err
}

// Close asks mpv to quit and kills it if it lingers
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running() {
		return nil
	}

	if _, err := p.send(command{Command: []any{"quit"}}); err != nil {
		p.logger.Warn("mpv did not accept quit", "error", err)
	}

	if p.cmd != nil && p.cmd.Process != nil {
		select {
		case <-p.exited:
		case <-time.After(quitGracePeriod):
			p.logger.Warn("killing mpv")
			p.cmd.Process.Kill()
		}
	}

	p.started = false
	p.loaded = false
	os.Remove(p.socketPath)
	return nil
}

func (p *Player) running() bool {
	if !p.started {
		return false
	}
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

func (p *Player) ensureProcess() error {
	if p.running() {
		return nil
	}

	if p.started {
		p.logger.Warn("mpv exited, restarting")
	}
	p.loaded = false
	os.Remove(p.socketPath)

	cmd, err := p.launcher.Start(
		"--idle",
		"--no-video",
		"--no-terminal",
		"--input-ipc-server="+p.socketPath,
	)
	if err != nil {
		return fmt.Errorf("could not start mpv: %w", err)
	}

	p.cmd = cmd
	p.exited = make(chan struct{})
	if cmd != nil && cmd.Process != nil {
		exited := p.exited
		go func() {
			cmd.Wait()
			close(exited)
		}()
	}
	p.started = true

	for i := 0; i < socketCheckRetries; i++ {
		if _, err := os.Stat(p.socketPath); err == nil {
			p.logger.Debug("mpv socket ready", "socket", p.socketPath)
			return nil
		}
		time.Sleep(socketCheckInterval)
	}

	p.logger.Error("timed out waiting for mpv socket", "socket", p.socketPath)
	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
	p.started = false
	return fmt.Errorf("mpv started but socket did not appear at %s", p.socketPath)
}

// send writes cmds in one connection and waits for their replies, skipping events
func (p *Player) send(cmds ...command) ([]response, error) {
	conn, err := net.Dial("unix", p.socketPath)
	if err != nil {
		return nil, fmt.Errorf("could not connect to mpv socket: %w", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(socketReadDeadline))

	pending := make(map[int]command, len(cmds))
	encoder := json.NewEncoder(conn)
	for _, cmd := range cmds {
		p.nextID++
		cmd.RequestID = p.nextID
		pending[cmd.RequestID] = cmd
		if err := encoder.Encode(cmd); err != nil {
			return nil, fmt.Errorf("error sending mpv command: %w", err)
		}
	}

	var responses []response
	scanner := bufio.NewScanner(conn)
	for len(pending) > 0 {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return responses, fmt.Errorf("error reading from mpv socket: %w", err)
			}
			return responses, fmt.Errorf("mpv closed the connection")
		}

		var resp response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			p.logger.Warn("could not parse line from mpv", "line", scanner.Text(), "error", err)
			continue
		}
		if resp.Event != "" {
			continue
		}

		cmd, ok := pending[resp.RequestID]
		if !ok {
			continue
		}
		delete(pending, resp.RequestID)
		responses = append(responses, resp)

		if resp.Error != "success" {
			return responses, fmt.Errorf("mpv %v: %s", cmd.Command[0], resp.Error)
		}
	}
	return responses, nil
}

package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMpv listens on the IPC socket once "started" and records every command
type fakeMpv struct {
	t        *testing.T
	socket   string
	failWith map[string]string // command name -> error reply

	mu       sync.Mutex
	starts   int
	args     []string
	commands []string
}

func (f *fakeMpv) Start(args ...string) (*exec.Cmd, error) {
	f.mu.Lock()
	f.starts++
	f.args = args
	f.mu.Unlock()

	ln, err := net.Listen("unix", f.socket)
	if err != nil {
		return nil, err
	}
	f.t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return &exec.Cmd{}, nil
}

func (f *fakeMpv) serve(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd command
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			return
		}

		parts := make([]string, len(cmd.Command))
		for i, c := range cmd.Command {
			parts[i] = fmt.Sprint(c)
		}
		f.mu.Lock()
		f.commands = append(f.commands, strings.Join(parts, " "))
		f.mu.Unlock()

		status := "success"
		if e, ok := f.failWith[parts[0]]; ok {
			status = e
		}
		fmt.Fprintln(conn, `{"event":"property-change"}`)
		fmt.Fprintf(conn, `{"error":%q,"request_id":%d}`+"\n", status, cmd.RequestID)
	}
}

func (f *fakeMpv) takeCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.commands
	f.commands = nil
	return out
}

func newTestPlayer(t *testing.T) (*Player, *fakeMpv) {
	t.Helper()
	fake := &fakeMpv{t: t, socket: filepath.Join(t.TempDir(), "mpv.sock")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPlayer(fake.socket, fake, logger), fake
}

func TestPlayer_PlayWithoutURIIsNoop(t *testing.T) {
	p, fake := newTestPlayer(t)

	require.NoError(t, p.Play())
	require.NoError(t, p.Pause())
	require.NoError(t, p.Stop())

	assert.Zero(t, fake.starts, "mpv must not be started without a uri")
}

func TestPlayer_Transport(t *testing.T) {
	p, fake := newTestPlayer(t)

	require.NoError(t, p.SetURI("http://media/a.mp3"))
	assert.Zero(t, fake.starts, "setting a uri does not start playback")

	require.NoError(t, p.Play())
	assert.Equal(t, 1, fake.starts)
	assert.Contains(t, fake.args, "--input-ipc-server="+fake.socket)
	assert.Equal(t, []string{"loadfile http://media/a.mp3 replace", "set_property pause false"}, fake.takeCommands())

	require.NoError(t, p.Pause())
	require.NoError(t, p.Play())
	assert.Equal(t, []string{"set_property pause true", "set_property pause false"}, fake.takeCommands())

	require.NoError(t, p.Stop())
	require.NoError(t, p.Play())
	assert.Equal(t, []string{"stop", "loadfile http://media/a.mp3 replace", "set_property pause false"}, fake.takeCommands())

	require.NoError(t, p.SetURI("http://media/b.mp3"))
	require.NoError(t, p.Play())
	assert.Equal(t, []string{"stop", "loadfile http://media/b.mp3 replace", "set_property pause false"}, fake.takeCommands())

	require.NoError(t, p.Close())
	assert.Equal(t, []string{"quit"}, fake.takeCommands())
	assert.Equal(t, 1, fake.starts)
}

func TestPlayer_ErrorReply(t *testing.T) {
	p, fake := newTestPlayer(t)
	fake.failWith = map[string]string{"loadfile": "loading failed"}

	require.NoError(t, p.SetURI("http://media/broken.mp3"))
	err := p.Play()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading failed")

	require.NoError(t, p.Pause(), "nothing is loaded after a failed play")
	assert.NotContains(t, fake.takeCommands(), "set_property pause true")
}

package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Terminal reads single keystrokes from a tty without line buffering.
// Raw mode is held only for the duration of one ReadRune, so everything the
// session prints between reads goes through the normal cooked output path.
// Keys typed while a command runs are echoed by the tty and queued; the next
// ReadRune returns them in order. Ctrl-C outside a read raises SIGINT.
type Terminal struct {
	in     io.Reader
	fd     int
	isTTY  bool
	logger *slog.Logger
}

// NewTerminal wraps f, usually os.Stdin
func NewTerminal(f *os.File, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	fd := int(f.Fd())
	return &Terminal{
		in:     f,
		fd:     fd,
		isTTY:  term.IsTerminal(fd),
		logger: logger,
	}
}

// ReadRune blocks until one character is available and returns it, control
// characters included. Multi-byte UTF-8 sequences are decoded whole.
func (t *Terminal) ReadRune() (rune, int, error) {
	if t.isTTY {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() {
			if err := term.Restore(t.fd, state); err != nil {
				t.logger.Error("failed to restore terminal", "error", err)
			}
		}()
	}

	var buf [utf8.UTFMax]byte
	if err := t.readByte(buf[:1]); err != nil {
		return 0, 0, err
	}

	need := utf8SequenceLength(buf[0])
	for n := 1; n < need; n++ {
		if err := t.readByte(buf[n : n+1]); err != nil {
			return 0, 0, err
		}
	}

	r, size := utf8.DecodeRune(buf[:need])
	return r, size, nil
}

// ReadLine reads cooked input up to a newline, so the tty's own echo and
// line editing apply. The terminator is stripped.
func (t *Terminal) ReadLine() (string, error) {
	var sb strings.Builder
	var b [1]byte
	for {
		err := t.readByte(b[:])
		if err == io.EOF && sb.Len() > 0 {
			break
		}
		if err != nil {
			return "", err
		}
		if b[0] == '\n' {
			break
		}
		sb.WriteByte(b[0])
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}

func (t *Terminal) readByte(b []byte) error {
	for {
		n, err := t.in.Read(b)
		if n == 1 {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// utf8SequenceLength returns the byte length announced by a UTF-8 lead byte.
// Invalid lead bytes count as a single byte and decode to RuneError.
func utf8SequenceLength(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

package session

import (
	"fmt"
	"io"
	"strconv"
)

// ReadIndex reads a display index typed as keystrokes: a single digit 1-9 is
// the whole index, a leading 0 announces a three-character index 0XY.
// Carriage return, newline or q cancel the read (ok is false). Any other
// character is ignored and does not count toward the expected length.
// Accepted digits are echoed to echo.
func ReadIndex(in io.RuneReader, echo io.Writer) (n int, ok bool, err error) {
	return readDigits(in, echo, 1, true)
}

// ReadTwoDigits reads exactly two digits with the same cancel and ignore
// rules as ReadIndex
func ReadTwoDigits(in io.RuneReader, echo io.Writer) (n int, ok bool, err error) {
	return readDigits(in, echo, 2, false)
}

func readDigits(in io.RuneReader, echo io.Writer, want int, zeroWidens bool) (int, bool, error) {
	n, got := 0, 0
	for got < want {
		r, _, err := in.ReadRune()
		if err != nil {
			return 0, false, err
		}
		if isCancel(r) {
			fmt.Fprintln(echo)
			return 0, false, nil
		}
		if !isDigit(r) {
			continue
		}
		if zeroWidens && got == 0 && r == '0' {
			want = 3
		}
		n = n*10 + int(r-'0')
		got++
		fmt.Fprint(echo, string(r))
	}
	fmt.Fprintln(echo)
	return n, true, nil
}

// FormatIndex renders a 1-based index the way it is typed: 1-9 as one digit,
// larger indices zero-padded to three characters
func FormatIndex(n int) string {
	if n < 10 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%03d", n)
}

func isCancel(r rune) bool {
	return r == '\r' || r == '\n' || r == 'q'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

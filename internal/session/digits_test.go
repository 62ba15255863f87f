package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIndex_SingleDigits(t *testing.T) {
	for d := 1; d <= 9; d++ {
		n, ok, err := ReadIndex(strings.NewReader(fmt.Sprint(d)), io.Discard)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, d, n)
	}
}

func TestReadIndex_ZeroPaddedThreeDigits(t *testing.T) {
	for n := 10; n <= 99; n++ {
		in := strings.NewReader(fmt.Sprintf("%03d", n))
		got, ok, err := ReadIndex(in, io.Discard)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, n, got)
		assert.Zero(t, in.Len(), "exactly three characters are consumed for %d", n)
	}
}

func TestReadIndex_SingleDigitStopsReading(t *testing.T) {
	in := strings.NewReader("45")
	n, ok, err := ReadIndex(in, io.Discard)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, in.Len())
}

func TestReadIndex_Cancel(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"carriage return", "\r12"},
		{"newline", "\n5"},
		{"q", "q7"},
		{"cancel inside zero-padded index", "0\r12"},
		{"q after ignored characters", "xyq3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := ReadIndex(strings.NewReader(tt.input), io.Discard)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestReadIndex_IgnoresNonDigits(t *testing.T) {
	var echo bytes.Buffer
	n, ok, err := ReadIndex(strings.NewReader("x0a- 1!2"), &echo)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, n)
	assert.Equal(t, "012\n", echo.String(), "only accepted digits are echoed")
}

func TestReadIndex_SourceError(t *testing.T) {
	_, ok, err := ReadIndex(strings.NewReader("0"), io.Discard)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReadTwoDigits(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"10", 10, true},
		{"99", 99, true},
		{"05", 5, true},
		{"00", 0, true},
		{"1x2", 12, true},
		{"\r", 0, false},
		{"3q", 0, false},
		{"\n", 0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			n, ok, err := ReadTwoDigits(strings.NewReader(tt.input), io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}

func TestFormatIndex(t *testing.T) {
	assert.Equal(t, "1", FormatIndex(1))
	assert.Equal(t, "9", FormatIndex(9))
	assert.Equal(t, "010", FormatIndex(10))
	assert.Equal(t, "099", FormatIndex(99))
}

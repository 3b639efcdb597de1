package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSource_SequentialLines(t *testing.T) {
	src := NewLineSource(strings.NewReader("git status\npush it\n"))

	first, err := src.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "git status", first)

	second, err := src.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "push it", second)
}

func TestLineSource_PastedBlockStaysOrdered(t *testing.T) {
	// A multi-line paste arrives in one write; every consumer of the source
	// still sees the lines one at a time, in order.
	src := NewLineSource(strings.NewReader("one\ntwo\nthree\n"))

	var got []string
	for i := 0; i < 3; i++ {
		line, err := src.ReadLine(context.Background())
		require.NoError(t, err)
		got = append(got, line)
	}
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestLineSource_PendingReadSurvivesCancellation(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	src := NewLineSource(r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := src.ReadLine(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The line typed after the cancelled read reaches the next caller.
	_, err = w.Write([]byte("y\n"))
	require.NoError(t, err)

	line, err := src.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "y", line)
}

func TestLineSource_EOF(t *testing.T) {
	src := NewLineSource(strings.NewReader("last line"))

	line, err := src.ReadLine(context.Background())
	assert.Equal(t, "last line", line)
	assert.ErrorIs(t, err, io.EOF)

	_, err = src.ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineSource_StripsCarriageReturn(t *testing.T) {
	src := NewLineSource(strings.NewReader("yes\r\n"))

	line, err := src.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "yes", line)
}

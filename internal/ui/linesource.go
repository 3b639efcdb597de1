package ui

import (
	"bufio"
	"context"
	"io"
	"strings"
)

type lineResult struct {
	text string
	err  error
}

// LineSource serializes line reads from a terminal stream. A single
// goroutine owns the underlying reader for the life of the source, so every
// consumer (the REPL, the confirmation prompter) sees one ordered stream of
// lines instead of racing independent buffers over the same fd. A read
// abandoned by cancellation stays pending and satisfies the next call, so
// the line the user was typing is delivered rather than lost.
type LineSource struct {
	lines chan lineResult
}

// NewLineSource starts the reader goroutine over r. The goroutine exits
// after delivering the first read error (EOF included).
func NewLineSource(r io.Reader) *LineSource {
	s := &LineSource{lines: make(chan lineResult)}
	go func() {
		reader := bufio.NewReaderSize(r, 64*1024)
		for {
			line, err := reader.ReadString('\n')
			s.lines <- lineResult{text: strings.TrimRight(line, "\r\n"), err: err}
			if err != nil {
				close(s.lines)
				return
			}
		}
	}()
	return s
}

// ReadLine returns the next line without its trailing newline, racing the
// read against ctx. On cancellation the pending read is not discarded; it
// completes in the background and is returned by the next call.
func (s *LineSource) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

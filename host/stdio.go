package host

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/user/clip-trimmer/trim"
)

// StdioBridge exchanges newline-delimited JSON with a parent process:
// one Args object is read from r and one result object is written to w.
type StdioBridge struct {
	r    *bufio.Reader
	w    io.Writer
	mu   sync.Mutex
	once once
}

// NewStdioBridge wraps the given reader and writer.
func NewStdioBridge(r io.Reader, w io.Writer) *StdioBridge {
	return &StdioBridge{r: bufio.NewReader(r), w: w}
}

// Args reads the first non-empty line and decodes it.
func (b *StdioBridge) Args(ctx context.Context) (Args, error) {
	type lineResult struct {
		line string
		err  error
	}
	ch := make(chan lineResult, 1)
	go func() {
		for {
			line, err := b.r.ReadString('\n')
			if strings.TrimSpace(line) != "" || err != nil {
				ch <- lineResult{line, err}
				return
			}
		}
	}()

	var lr lineResult
	select {
	case lr = <-ch:
	case <-ctx.Done():
		return Args{}, ctx.Err()
	}
	if strings.TrimSpace(lr.line) == "" {
		if lr.err == io.EOF {
			return Args{}, ErrNoArgs
		}
		return Args{}, fmt.Errorf("host: read args: %w", lr.err)
	}

	var a Args
	if err := json.Unmarshal([]byte(lr.line), &a); err != nil {
		return Args{}, fmt.Errorf("host: decode args: %w", err)
	}
	return a, nil
}

// Emit writes the result as a single JSON line.
func (b *StdioBridge) Emit(ctx context.Context, res trim.Result) error {
	if err := b.once.claim(); err != nil {
		return err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("host: encode result: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("host: write result: %w", err)
	}
	return nil
}

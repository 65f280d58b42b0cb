package host

import (
	"context"
	"errors"
	"sync"

	"github.com/user/clip-trimmer/trim"
)

var (
	// ErrAlreadyEmitted is returned when a bridge is asked to emit a second result.
	ErrAlreadyEmitted = errors.New("host: result already emitted")
	// ErrNoArgs is returned when the host closed the channel without sending args.
	ErrNoArgs = errors.New("host: no arguments delivered")
)

// Bridge is the boundary between the widget and its host: arguments are received
// once, and exactly one result is emitted back.
type Bridge interface {
	Args(ctx context.Context) (Args, error)
	Emit(ctx context.Context, res trim.Result) error
}

// once guards single emission for the bridge implementations.
type once struct {
	mu      sync.Mutex
	emitted bool
}

func (o *once) claim() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.emitted {
		return ErrAlreadyEmitted
	}
	o.emitted = true
	return nil
}

// ChanBridge is an in-process Bridge backed by channels.
type ChanBridge struct {
	args    chan Args
	results chan trim.Result
	once    once
}

// NewChanBridge returns a bridge whose host side is driven through Deliver and Results.
func NewChanBridge() *ChanBridge {
	return &ChanBridge{
		args:    make(chan Args, 1),
		results: make(chan trim.Result, 1),
	}
}

// Deliver hands the widget its arguments. Only the first delivery is kept.
func (b *ChanBridge) Deliver(a Args) bool {
	select {
	case b.args <- a:
		return true
	default:
		return false
	}
}

// Results is the host's receive side. It yields at most one value.
func (b *ChanBridge) Results() <-chan trim.Result {
	return b.results
}

// Args blocks until the host delivers arguments or ctx ends.
func (b *ChanBridge) Args(ctx context.Context) (Args, error) {
	select {
	case a := <-b.args:
		return a, nil
	case <-ctx.Done():
		return Args{}, ctx.Err()
	}
}

// Emit sends the result to the host.
func (b *ChanBridge) Emit(ctx context.Context, res trim.Result) error {
	if err := b.once.claim(); err != nil {
		return err
	}
	b.results <- res
	return nil
}

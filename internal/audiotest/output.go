package audiotest

import (
	"errors"
	"slices"
	"sync"
)

// ErrOutputBroken is returned by Output once its write budget is spent.
var ErrOutputBroken = errors.New("audiotest: output broken")

// Output records every buffer written to it. It satisfies sink.Output.
type Output struct {
	// FailAfter makes Write fail once that many buffers were accepted.
	// Zero never fails.
	FailAfter int

	mu      sync.Mutex
	samples []int16
	writes  int
	closed  bool
}

func (o *Output) Write(buf []int16) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.FailAfter > 0 && o.writes >= o.FailAfter {
		return ErrOutputBroken
	}
	o.writes++
	o.samples = append(o.samples, buf...)
	return nil
}

func (o *Output) Close() error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	return nil
}

// Samples returns a copy of everything written so far.
func (o *Output) Samples() []int16 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.samples)
}

// Writes reports how many buffers were accepted.
func (o *Output) Writes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes
}

func (o *Output) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

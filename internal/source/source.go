package source

import (
	"context"
	"fmt"
	"strings"
)

// Source provides the next text value for the display. Fetch is synchronous
// from the caller's perspective; the context carries the hard timeout so a
// single fetch can never stall rendering indefinitely.
type Source interface {
	Fetch(ctx context.Context) Result
	Name() string
}

// Static always returns the same text and never fails.
type Static struct {
	text string
}

// NewStatic creates a source for a fixed text value.
func NewStatic(text string) *Static {
	return &Static{text: text}
}

func (s *Static) Fetch(context.Context) Result {
	return Success(s.text)
}

func (s *Static) Name() string {
	return "static"
}

// Producer is a user-supplied zero-argument text provider.
type Producer func() (string, error)

// Callable wraps a user-supplied producer. Errors and panics from the
// producer become transport failures; an empty return yields Empty.
type Callable struct {
	producer Producer
}

// NewCallable creates a source backed by the given producer.
func NewCallable(producer Producer) *Callable {
	return &Callable{producer: producer}
}

func (c *Callable) Fetch(context.Context) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = TransportFailure(fmt.Errorf("producer panicked: %v", r))
		}
	}()

	text, err := c.producer()
	if err != nil {
		return TransportFailure(fmt.Errorf("producer failed: %w", err))
	}
	if strings.TrimSpace(text) == "" {
		return Empty()
	}
	return Success(text)
}

func (c *Callable) Name() string {
	return "callable"
}

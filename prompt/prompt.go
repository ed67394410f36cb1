// Package prompt collects one value from the user out of band, for example
// a formula source or an image URL.
//
// A prompt suspends only the interaction that opened it. A dismissed
// prompt is not an error: Prompt returns ok=false and the caller performs
// no mutation.
package prompt

import (
	"context"
	"sync"
)

// Kind says what is being asked for.
type Kind uint8

const (
	KindFormula Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	default:
		return "formula"
	}
}

// Request describes one prompt.
type Request struct {
	Kind        Kind
	Title       string
	Initial     string
	Placeholder string
}

// FormulaRequest asks for a formula source seeded with initial.
func FormulaRequest(initial string) Request {
	return Request{Kind: KindFormula, Title: "Formula", Initial: initial, Placeholder: `e.g. \frac{a}{b}`}
}

// ImageRequest asks for an image URL.
func ImageRequest() Request {
	return Request{Kind: KindImage, Title: "Image URL", Placeholder: "https://"}
}

// Prompter collects a value. ok=false means the user cancelled; an empty
// value with ok=true is an explicit empty answer.
type Prompter interface {
	Prompt(ctx context.Context, req Request) (value string, ok bool, err error)
}

// Func adapts a function to Prompter.
type Func func(ctx context.Context, req Request) (string, bool, error)

func (f Func) Prompt(ctx context.Context, req Request) (string, bool, error) { return f(ctx, req) }

// Answer is one scripted reply.
type Answer struct {
	Value  string
	Cancel bool
}

// Static replies with scripted answers in order and records the requests
// it saw. When the script runs out it cancels.
type Static struct {
	mu       sync.Mutex
	answers  []Answer
	requests []Request
}

// NewStatic returns a prompter that replies with answers in order.
func NewStatic(answers ...Answer) *Static {
	return &Static{answers: answers}
}

func (s *Static) Prompt(ctx context.Context, req Request) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.answers) == 0 {
		return "", false, nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if a.Cancel {
		return "", false, nil
	}
	return a.Value, true, nil
}

// Requests returns the requests seen so far.
func (s *Static) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

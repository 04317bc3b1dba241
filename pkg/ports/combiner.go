package ports

import "context"

// Combiner merges the codes picked from both lists into a display message.
// It may be slow or fail; the coordinator never runs two combinations at once.
type Combiner interface {
	Combine(ctx context.Context, codeA, codeB string) (string, error)
}

// CombinerFunc adapts a function to the Combiner interface.
type CombinerFunc func(ctx context.Context, codeA, codeB string) (string, error)

// Combine calls f(ctx, codeA, codeB).
func (f CombinerFunc) Combine(ctx context.Context, codeA, codeB string) (string, error) {
	return f(ctx, codeA, codeB)
}

package runner

import "context"

// RunFunc adapts a plain function to Runner.
type RunFunc func(ctx context.Context, cmd Command) (Result, error)

func (f RunFunc) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// Sequence runs cmds in order with r and stops at the first error.
func Sequence(ctx context.Context, r Runner, cmds ...Command) ([]Result, error) {
	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		res, err := r.Run(ctx, cmd)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

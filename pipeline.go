// Package hugodist runs the steps that turn hugo release sources into a staged
// binary and platform wheels, and the external tools those steps need.
package hugodist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
)

// Pipeline runs packaging steps in order. Steps share nothing but the context
// they receive; the first failing step aborts the pipeline, nothing is retried.
// Hooks run before the first step and after the last one, the post hook also
// runs when a step failed so it can clean up.
type Pipeline struct {
	PreExecHook  Step
	PostExecHook Step
}

// Step is a single unit of work executed by a [Pipeline].
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Do builds a step out of a plain function.
func Do(name string, fn func(ctx context.Context) error) Step {
	return Step{Name: name, Run: fn}
}

// New constructs a pipeline.
func New(opts ...Option) *Pipeline {
	p := Pipeline{
		PreExecHook:  Do("", func(_ context.Context) error { return nil }),
		PostExecHook: Do("", func(_ context.Context) error { return nil }),
	}

	for _, opt := range opts {
		opt(&p)
	}

	return &p
}

// Execute runs the steps sequentially, printing the name and timing of each one.
func (p *Pipeline) Execute(ctx context.Context, steps ...Step) (err error) {
	start := time.Now()

	fmt.Printf("\n")

	if err := p.PreExecHook.Run(ctx); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	defer func() {
		if hookerr := p.PostExecHook.Run(ctx); hookerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to run post exec hook: %w", hookerr))
		}

		elapsed := time.Since(start).Round(time.Millisecond)
		color.New(color.FgHiBlack).Printf("------------------------\n\n")

		if err != nil {
			color.Red(" ✘ failed after %s", elapsed)
			color.Red("   • %s\n\n", err.Error())
			return
		}

		color.Green(" ✔ all good after %s\n\n", elapsed)
	}()

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if step.Name != "" {
			LogStep(step.Name)
		}

		if err := step.Run(ctx); err != nil {
			if step.Name == "" {
				return err
			}
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}

	return nil
}

type Option func(p *Pipeline)

// WithPreExecFunc allows specifying a step that will run before the pipeline steps.
func WithPreExecFunc(hook func(ctx context.Context) error) Option {
	return func(p *Pipeline) {
		p.PreExecHook = Do("", hook)
	}
}

// WithPostExecFunc allows specifying a step that will run after the pipeline steps,
// regardless of their outcome.
func WithPostExecFunc(hook func(ctx context.Context) error) Option {
	return func(p *Pipeline) {
		p.PostExecHook = Do("", hook)
	}
}

// LogStep prints a highlighted line announcing a step.
func LogStep(text string) {
	fmt.Println(
		color.MagentaString(" ⌘"),
		color.New(color.Bold).Sprint(text),
	)
}

// LogDetail prints a dimmed line nested under the current step.
func LogDetail(text string) {
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

// Package step implements the sstart CI integration step: it provisions the
// sstart binary for the current platform, materializes the caller supplied
// configuration, runs the tool and hands the parsed results back to the
// hosting CI layer for export.
package step

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
)

// Task defines the basic unit of work executed by a [Pipeline].
type Task func(ctx context.Context) error

// Pipeline runs the tasks making up one integration step invocation.
// Tasks run strictly sequentially; the first failing task halts the run
// and its error becomes the error of the whole pipeline.
type Pipeline struct {
	tasks []Task
}

// NewPipeline constructs a pipeline from an ordered list of tasks.
func NewPipeline(tasks ...Task) *Pipeline {
	return &Pipeline{tasks: tasks}
}

// Execute runs every task in order, showing a consistent output where
// the run status and timing info are clearly visible.
// There are no retries and no partial success; a task error aborts the
// remainder of the pipeline immediately.
func (p *Pipeline) Execute(ctx context.Context) error {
	start := time.Now()

	fmt.Printf("\n")

	for _, task := range p.tasks {
		if err := task(ctx); err != nil {
			elapsed := time.Since(start).Round(time.Millisecond)
			color.New(color.FgHiBlack).Printf("------------------------\n\n")
			color.Red(" ✘ failed after %s\n\n", elapsed)
			return err
		}
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	color.New(color.FgHiBlack).Printf("------------------------\n\n")
	color.Green(" ✔ all good after %s\n\n", elapsed)

	return nil
}

// LogStep prints a top level log line for a pipeline stage.
func LogStep(text string) {
	fmt.Println(
		color.BlueString(" •"),
		color.New(color.Bold).Sprint(text),
	)
}

// LogDetail prints a nested log line under the current stage.
func LogDetail(text string) {
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

// LogWarn prints a warning that doesn't fail the run.
func LogWarn(text string) {
	fmt.Println(
		color.YellowString(" !"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

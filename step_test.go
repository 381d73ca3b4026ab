package step

import (
	"context"
	"errors"
	"testing"
)

func TestPipelineRunsTasksInOrder(t *testing.T) {
	var order []string

	task := func(name string) Task {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	pipeline := NewPipeline(task("resolve"), task("install"), task("run"))
	if err := pipeline.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := []string{"resolve", "install", "run"}
	if len(order) != len(want) {
		t.Fatalf("Expected %d tasks to run, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected task %d to be %q, got %q", i, want[i], order[i])
		}
	}
}

func TestPipelineHaltsOnFirstError(t *testing.T) {
	boom := errors.New("download failed")
	ran := false

	pipeline := NewPipeline(
		func(context.Context) error { return boom },
		func(context.Context) error { ran = true; return nil },
	)

	err := pipeline.Execute(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the first task's error, got %v", err)
	}
	if ran {
		t.Error("Expected no task to run after a failure")
	}
}

func TestPipelineEmpty(t *testing.T) {
	if err := NewPipeline().Execute(context.Background()); err != nil {
		t.Fatalf("Empty pipeline should succeed, got %v", err)
	}
}

package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/bloodmagesoftware/geoanswer/project"
)

func TestNewSubmitterURLPrecedence(t *testing.T) {
	config := project.Default()
	config.Evaluator.URL = "ws://configured/answers"

	if got := newSubmitter(config, "p1", "").URL; got != "ws://configured/answers" {
		t.Errorf("configured url = %q", got)
	}
	sub := newSubmitter(config, "p1", "ws://flag/answers")
	if sub.URL != "ws://flag/answers" {
		t.Errorf("flag url = %q", sub.URL)
	}
	if sub.ProblemID != "p1" {
		t.Errorf("problem id = %q", sub.ProblemID)
	}
	if sub.Discovery == nil || sub.Discovery.Service != config.Evaluator.Service {
		t.Errorf("discovery = %+v", sub.Discovery)
	}
}

func TestEvaluatorContext(t *testing.T) {
	ctx, cancel := evaluatorContext(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero timeout should not set a deadline")
	}

	ctx, cancel = evaluatorContext(context.Background(), time.Minute)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("positive timeout should set a deadline")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"capture", "replay", "render", "submit", "check", "listen"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

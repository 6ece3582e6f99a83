package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bloodmagesoftware/geoanswer/problem"
	"github.com/bloodmagesoftware/geoanswer/project"
	"github.com/bloodmagesoftware/geoanswer/submit"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "geoanswer",
	Short: "geoanswer - Geometric answer capture for canvas exam questions",
	Long: `geoanswer captures geometric answers drawn on top of exam diagrams.
It opens an interactive canvas, replays recorded input headlessly, renders
answers to PNG and PDF, and submits them to an evaluator.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to geoanswer.yaml (default: nearest in parent directories)")
}

// loadConfig returns the explicit, discovered or default project configuration.
func loadConfig() (*project.Config, error) {
	config, err := project.Resolve(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return config, nil
}

// openProblem loads a problem file and returns the directory its
// background path is relative to.
func openProblem(path string) (*problem.Problem, string, error) {
	p, err := problem.Open(path)
	if err != nil {
		return nil, "", err
	}
	return p, filepath.Dir(path), nil
}

// newSubmitter builds the websocket submitter for a problem. An explicit
// url wins over the configured one; with neither, the evaluator is
// discovered over mDNS.
func newSubmitter(config *project.Config, problemID, url string) *submit.WebSocket {
	ev := config.Evaluator
	if url == "" {
		url = ev.URL
	}
	return &submit.WebSocket{
		URL:       url,
		ProblemID: problemID,
		Timeout:   ev.Timeout,
		Discovery: &submit.Discovery{
			Service: ev.Service,
			Domain:  ev.Domain,
			Timeout: ev.Timeout,
		},
	}
}

// evaluatorContext bounds one submission by the configured timeout; zero
// means no bound.
func evaluatorContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

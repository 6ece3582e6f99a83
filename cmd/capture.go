package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/bloodmagesoftware/geoanswer/capture"
	"github.com/bloodmagesoftware/geoanswer/session"
	"github.com/spf13/cobra"
)

var (
	captureOut    string
	captureRecord string
	captureURL    string
)

var captureCmd = &cobra.Command{
	Use:   "capture {problem.yaml}",
	Short: "Answer a problem on the interactive canvas",
	Long: `Opens a window with the problem's diagram and drawing tools. The answer is
submitted to the evaluator from the window; on close the last submitted
payload can be written to a file and the input recorded as a replay script.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}

		config, err := loadConfig()
		if err != nil {
			return err
		}
		prob, dir, err := openProblem(args[0])
		if err != nil {
			return err
		}
		background, err := prob.LoadBackground(dir)
		if err != nil {
			return fmt.Errorf("loading background: %w", err)
		}

		sess := session.New(prob, config)
		if captureRecord != "" {
			sess.Record(true)
		}

		go func() {
			window := new(app.Window)
			window.Option(app.Title("geoanswer: "+prob.Title), app.Size(unit.Dp(1000), unit.Dp(760)))
			c := capture.New(material.NewTheme(), capture.Options{
				Session:    sess,
				Background: background,
				Submitter:  newSubmitter(config, prob.ID, captureURL),
				Timeout:    config.Evaluator.Timeout,
				Invalidate: window.Invalidate,
			})
			if err := run(window, c); err != nil {
				log.Fatal(err)
			}
			if err := finishCapture(sess, args[0], c.Result()); err != nil {
				log.Fatal(err)
			}
			os.Exit(0)
		}()
		app.Main()

		return nil
	},
}

func run(window *app.Window, c *capture.Capture) error {
	var ops op.Ops
	for {
		switch e := window.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			c.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func finishCapture(sess *session.Session, problemPath string, res capture.Result) error {
	if captureRecord != "" {
		script := sess.Script()
		if abs, err := filepath.Abs(problemPath); err == nil {
			problemPath = abs
		}
		script.Problem = problemPath
		if err := script.Save(captureRecord); err != nil {
			return fmt.Errorf("saving script: %w", err)
		}
		log.Printf("recorded %d steps to %s", len(script.Steps), captureRecord)
	}
	if captureOut != "" && res.Submitted {
		if err := res.Payload.Save(captureOut); err != nil {
			return err
		}
		fmt.Printf("Answer written to %s (accepted: %v)\n", captureOut, res.Accepted)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().StringVarP(&captureOut, "out", "o", "", "Write the submitted payload to this JSON file")
	captureCmd.Flags().StringVarP(&captureRecord, "record", "r", "", "Record input to this replay script")
	captureCmd.Flags().StringVar(&captureURL, "url", "", "Evaluator websocket url (overrides geoanswer.yaml)")
}

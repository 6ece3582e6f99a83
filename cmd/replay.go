package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/session"
	"github.com/spf13/cobra"
)

var (
	replayProblem string
	replaySubmit  bool
	replayURL     string
	replayOut     outputs
)

var replayCmd = &cobra.Command{
	Use:   "replay {script.yaml}",
	Short: "Replay a recorded input script without a window",
	Long: `Runs the steps of an input script through the drawing engine and writes the
resulting answer as a payload, preview image, answer sheet or bundle. With
--submit the answer is also sent to the evaluator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}

		config, err := loadConfig()
		if err != nil {
			return err
		}

		script := &session.Script{}
		if err := script.Load(args[0]); err != nil {
			return fmt.Errorf("loading script: %w", err)
		}

		problemPath := replayProblem
		if problemPath == "" {
			problemPath = script.ProblemPath(args[0])
		}
		if problemPath == "" {
			return errors.New("no problem given: set --problem or the script's problem field")
		}
		prob, dir, err := openProblem(problemPath)
		if err != nil {
			return err
		}
		background, err := prob.LoadBackground(dir)
		if err != nil {
			return fmt.Errorf("loading background: %w", err)
		}

		sess := session.New(prob, config)
		start := time.Now()
		if err := sess.Replay(script, start); err != nil {
			return fmt.Errorf("replaying script: %w", err)
		}
		at := start.Add(time.Duration(len(script.Steps)) * session.StepInterval)

		p := sess.Payload(at)
		fmt.Printf("Replayed %d steps: %d drawn, %d selected\n",
			len(script.Steps), len(p.DrawnElements), len(p.SelectedElements))

		if err := replayOut.write(sess, p, background, dir, script); err != nil {
			return err
		}

		if replaySubmit {
			ctx, cancel := evaluatorContext(cmd.Context(), config.Evaluator.Timeout)
			defer cancel()
			_, accepted, err := sess.Submit(ctx, newSubmitter(config, prob.ID, replayURL), at)
			if errors.Is(err, answer.ErrEmpty) {
				return fmt.Errorf("refusing to submit: %w", err)
			}
			if err != nil {
				return err
			}
			fmt.Printf("✅ Answer submitted (accepted: %v)\n", accepted)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVarP(&replayProblem, "problem", "p", "", "Problem file (overrides the script's problem field)")
	replayCmd.Flags().BoolVar(&replaySubmit, "submit", false, "Submit the replayed answer to the evaluator")
	replayCmd.Flags().StringVar(&replayURL, "url", "", "Evaluator websocket url (overrides geoanswer.yaml)")
	replayOut.register(replayCmd)
}

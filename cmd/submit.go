package cmd

import (
	"fmt"

	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/spf13/cobra"
)

var (
	submitURL     string
	submitProblem string
)

var submitCmd = &cobra.Command{
	Use:   "submit {payload.json}",
	Short: "Send a saved answer payload to the evaluator",
	Long: `Sends a payload file to the evaluator websocket. The url comes from --url,
then geoanswer.yaml, and is otherwise discovered over mDNS.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}

		config, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := answer.Load(args[0])
		if err != nil {
			return err
		}
		if !answer.CanSubmit(p) {
			return fmt.Errorf("submitting %s: %w", args[0], answer.ErrEmpty)
		}

		ctx, cancel := evaluatorContext(cmd.Context(), config.Evaluator.Timeout)
		defer cancel()
		accepted, err := newSubmitter(config, submitProblem, submitURL).Submit(ctx, p)
		if err != nil {
			return fmt.Errorf("submitting answer: %w", err)
		}
		if !accepted {
			fmt.Println("❌ Answer rejected by the evaluator")
			return nil
		}
		fmt.Println("✅ Answer accepted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVar(&submitURL, "url", "", "Evaluator websocket url (overrides geoanswer.yaml)")
	submitCmd.Flags().StringVarP(&submitProblem, "problem-id", "p", "", "Problem id sent with the answer")
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("problem check failed")

var checkCmd = &cobra.Command{
	Use:   "check {problem.yaml...}",
	Short: "Validate problem definitions",
	Long: `Loads each problem file, validates its canvas and answer configuration and
decodes its background image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		failed := 0
		for _, path := range args {
			prob, dir, err := openProblem(path)
			if err == nil {
				_, err = prob.LoadBackground(dir)
			}
			if err != nil {
				fmt.Printf("❌ %s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Printf("✅ %s (%s, %s, %d selectable)\n",
				path, prob.ID, prob.Canvas.AnswerType, len(prob.Canvas.Selectables()))
		}

		if failed > 0 {
			return fmt.Errorf("checking %d files: %w", failed, errCheckFailed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

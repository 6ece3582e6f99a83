package cmd

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/bundle"
	"github.com/bloodmagesoftware/geoanswer/problem"
	"github.com/bloodmagesoftware/geoanswer/session"
	"github.com/spf13/cobra"
)

var (
	renderProblem string
	renderOut     outputs
)

var renderCmd = &cobra.Command{
	Use:   "render {payload.json|bundle.zip}",
	Short: "Render a saved answer to PNG or PDF",
	Long: `Draws a saved answer payload over its problem. A bundle carries its own
problem definition; a bare payload needs --problem.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}

		config, err := loadConfig()
		if err != nil {
			return err
		}

		var (
			p          answer.Payload
			prob       *problem.Problem
			dir        string
			background image.Image
		)
		if strings.EqualFold(filepath.Ext(args[0]), ".zip") {
			if renderOut.bundle != "" {
				return errors.New("rendering a bundle cannot write another bundle")
			}
			p, prob, err = bundle.Read(args[0])
			if err != nil {
				return fmt.Errorf("reading bundle: %w", err)
			}
			background, err = bundle.ReadBackground(args[0], prob)
			if err != nil {
				return fmt.Errorf("reading bundle: %w", err)
			}
			dir = filepath.Dir(args[0])
		} else {
			if renderProblem == "" {
				return errors.New("rendering a payload needs --problem")
			}
			p, err = answer.Load(args[0])
			if err != nil {
				return err
			}
			prob, dir, err = openProblem(renderProblem)
			if err != nil {
				return err
			}
			background, err = prob.LoadBackground(dir)
			if err != nil {
				return fmt.Errorf("loading background: %w", err)
			}
		}

		sess := session.New(prob, config)
		sess.Restore(p)
		return renderOut.write(sess, p, background, dir, nil)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderProblem, "problem", "p", "", "Problem file for a bare payload")
	renderOut.register(renderCmd)
}

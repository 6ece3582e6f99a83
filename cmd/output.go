package cmd

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/bundle"
	"github.com/bloodmagesoftware/geoanswer/render"
	"github.com/bloodmagesoftware/geoanswer/session"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"
)

// outputs are the file flags shared by replay and render.
type outputs struct {
	payload string
	png     string
	pdf     string
	bundle  string
	sheet   bool
	guides  bool
	copy    bool
}

func (o *outputs) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.payload, "out", "o", "", "Write the answer payload to this JSON file")
	cmd.Flags().StringVar(&o.png, "png", "", "Render a PNG preview to this file")
	cmd.Flags().StringVar(&o.pdf, "pdf", "", "Render a PDF answer sheet to this file")
	cmd.Flags().StringVar(&o.bundle, "bundle", "", "Write a zip bundle into this directory")
	cmd.Flags().BoolVar(&o.sheet, "bundle-pdf", false, "Include the PDF answer sheet in the bundle")
	cmd.Flags().BoolVar(&o.guides, "guides", false, "Outline the reference elements when there is no background")
	cmd.Flags().BoolVar(&o.copy, "copy", false, "Copy the PNG preview to the clipboard")
}

// write produces every requested output for the session's current answer.
func (o *outputs) write(sess *session.Session, p answer.Payload, bg image.Image, dir string, script *session.Script) error {
	frame := sess.Frame()
	if o.guides && bg == nil {
		pal := sess.Palette()
		guide := pal.Highlight
		guide.A = 0x60
		frame = frame.WithGuides(sess.State().Viewport, sess.Problem.Canvas.Selectables(), pal, guide)
	}

	if o.payload != "" {
		if err := p.Save(o.payload); err != nil {
			return err
		}
		fmt.Printf("✅ Payload written to %s\n", o.payload)
	}

	if o.png != "" || o.copy {
		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, frame, bg); err != nil {
			return err
		}
		if o.png != "" {
			if err := os.WriteFile(o.png, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("writing png: %w", err)
			}
			fmt.Printf("✅ Preview written to %s\n", o.png)
		}
		if o.copy {
			if err := clipboard.Init(); err != nil {
				return fmt.Errorf("initializing clipboard: %w", err)
			}
			clipboard.Write(clipboard.FmtImage, buf.Bytes())
			fmt.Println("✅ Preview copied to clipboard")
		}
	}

	if o.pdf != "" {
		if err := writePDFFile(o.pdf, frame, bg); err != nil {
			return err
		}
		fmt.Printf("✅ Answer sheet written to %s\n", o.pdf)
	}

	if o.bundle != "" {
		zipPath, err := bundle.Write(bundle.BundleConfig{
			Problem:    sess.Problem,
			ProblemDir: dir,
			Payload:    p,
			Frame:      frame,
			Background: bg,
			Script:     script,
			PDF:        o.sheet,
			OutputDir:  o.bundle,
		})
		if err != nil {
			return fmt.Errorf("writing bundle: %w", err)
		}
		fmt.Printf("✅ Bundle created: %s\n", zipPath)
	}
	return nil
}

func writePDFFile(path string, frame render.Frame, bg image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing pdf: %w", cerr)
		}
	}()
	return render.WritePDF(f, frame, bg)
}

package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/problem"
	"github.com/bloodmagesoftware/geoanswer/render"
	"github.com/bloodmagesoftware/geoanswer/session"
	"gopkg.in/yaml.v3"
)

// Entry names inside a bundle.
const (
	PayloadName = "payload.json"
	PreviewName = "preview.png"
	SheetName   = "answer.pdf"
	ProblemName = "problem.yaml"
	ScriptName  = "script.yaml"

	// BackgroundDir holds the problem's background file.
	BackgroundDir = "background"
)

// BundleConfig holds everything that goes into an answer bundle.
type BundleConfig struct {
	Problem    *problem.Problem
	ProblemDir string // Directory the problem's background path is relative to
	Payload    answer.Payload
	Frame      render.Frame
	Background image.Image     // Optional, drawn beneath the preview
	Script     *session.Script // Optional input recording
	PDF        bool            // Also include an A4 answer sheet
	OutputDir  string          // Directory to output the zip file
}

// Write creates a zip with the payload, a rendered preview and the problem
// definition. Returns the path to the created zip file. A failed write
// leaves no zip behind.
func Write(config BundleConfig) (zipPath string, err error) {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	stamp := time.UnixMilli(config.Payload.Timestamp).UTC().Format("20060102-150405")
	zipName := fmt.Sprintf("%s-%s.zip", config.Problem.ID, stamp)
	zipPath = filepath.Join(config.OutputDir, zipName)

	zipFile, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("creating zip file: %w", err)
	}
	defer func() {
		if cerr := zipFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing zip file: %w", cerr)
		}
		if err != nil {
			os.Remove(zipPath)
			zipPath = ""
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	if err := writeEntries(zipWriter, config); err != nil {
		return "", err
	}
	if err := zipWriter.Close(); err != nil {
		return "", fmt.Errorf("finishing zip file: %w", err)
	}
	return zipPath, nil
}

// BackgroundEntry is the entry name a background file is stored under.
func BackgroundEntry(background string) string {
	return BackgroundDir + "/" + filepath.Base(background)
}

func writeEntries(zipWriter *zip.Writer, config BundleConfig) error {
	payload, err := json.MarshalIndent(config.Payload, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := addBytesToZip(zipWriter, PayloadName, payload); err != nil {
		return err
	}

	var preview bytes.Buffer
	if err := render.EncodePNG(&preview, config.Frame, config.Background); err != nil {
		return err
	}
	if err := addBytesToZip(zipWriter, PreviewName, preview.Bytes()); err != nil {
		return err
	}

	if config.PDF {
		var sheet bytes.Buffer
		if err := render.WritePDF(&sheet, config.Frame, config.Background); err != nil {
			return err
		}
		if err := addBytesToZip(zipWriter, SheetName, sheet.Bytes()); err != nil {
			return err
		}
	}

	// the bundled problem points at its own copy of the background
	bundled := *config.Problem
	if bundled.Background != "" {
		bg := bundled.Background
		if !filepath.IsAbs(bg) {
			bg = filepath.Join(config.ProblemDir, bg)
		}
		bundled.Background = BackgroundEntry(bg)
		if err := addFileToZip(zipWriter, bg, bundled.Background); err != nil {
			return fmt.Errorf("adding background to zip: %w", err)
		}
	}

	def, err := yaml.Marshal(&bundled)
	if err != nil {
		return fmt.Errorf("encoding problem: %w", err)
	}
	if err := addBytesToZip(zipWriter, ProblemName, def); err != nil {
		return err
	}

	if config.Script != nil {
		script, err := yaml.Marshal(config.Script)
		if err != nil {
			return fmt.Errorf("encoding script: %w", err)
		}
		if err := addBytesToZip(zipWriter, ScriptName, script); err != nil {
			return err
		}
	}
	return nil
}

func addBytesToZip(zipWriter *zip.Writer, nameInZip string, data []byte) error {
	header := &zip.FileHeader{
		Name:     nameInZip,
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("creating zip entry %s: %w", nameInZip, err)
	}
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("writing %s to zip: %w", nameInZip, err)
	}
	return nil
}

// addFileToZip adds a single file to the zip archive.
func addFileToZip(zipWriter *zip.Writer, filePath, nameInZip string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("getting file info: %w", err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("creating zip header: %w", err)
	}

	header.Name = nameInZip
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("creating zip entry: %w", err)
	}

	if _, err := io.Copy(writer, file); err != nil {
		return fmt.Errorf("writing file to zip: %w", err)
	}
	return nil
}

// Read opens a bundle and returns its payload and problem definition.
func Read(path string) (answer.Payload, *problem.Problem, error) {
	var p answer.Payload
	r, err := zip.OpenReader(path)
	if err != nil {
		return p, nil, fmt.Errorf("opening bundle: %w", err)
	}
	defer r.Close()

	payload, err := readEntry(&r.Reader, PayloadName)
	if err != nil {
		return p, nil, err
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return p, nil, fmt.Errorf("parsing %s: %w", PayloadName, err)
	}

	def, err := readEntry(&r.Reader, ProblemName)
	if err != nil {
		return p, nil, err
	}
	prob := new(problem.Problem)
	if err := yaml.Unmarshal(def, prob); err != nil {
		return p, nil, fmt.Errorf("parsing %s: %w", ProblemName, err)
	}
	return p, prob, nil
}

// ReadBackground decodes the background stored in a bundle. A problem
// without a background returns a nil image.
func ReadBackground(path string, prob *problem.Problem) (image.Image, error) {
	if prob.Background == "" {
		return nil, nil
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}
	defer r.Close()

	f, err := r.Open(prob.Background)
	if err != nil {
		return nil, fmt.Errorf("reading %s from bundle: %w", prob.Background, err)
	}
	defer f.Close()
	return problem.DecodeBackground(f, prob.Background)
}

func readEntry(r *zip.Reader, name string) ([]byte, error) {
	f, err := r.Open(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s from bundle: %w", name, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

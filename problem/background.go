package problem

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
)

// LoadBackground decodes the background image. Relative paths are resolved
// against dir, normally the directory of the problem file. A problem without
// a background returns a nil image.
func (p *Problem) LoadBackground(dir string) (image.Image, error) {
	if p.Background == "" {
		return nil, nil
	}
	path := p.Background
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening background: %w", err)
	}
	defer f.Close()
	return DecodeBackground(f, path)
}

// DecodeBackground decodes a background image read from r. The format is
// chosen by the extension of name: QOI for .qoi, PNG or JPEG otherwise.
func DecodeBackground(r io.Reader, name string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".qoi") {
		img, err = qoi.Decode(r)
	} else {
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding background %s: %w", filepath.Base(name), err)
	}
	return img, nil
}

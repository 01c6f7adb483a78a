package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/qbreakdown-plot/internal/core/model"
	"github.com/penwyp/qbreakdown-plot/internal/presentation/chart"
	"github.com/penwyp/qbreakdown-plot/internal/util"
)

// DefaultImageFormat is used when the output path has no extension.
const DefaultImageFormat = "png"

var imageFormats = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"tif":  true,
	"tiff": true,
	"svg":  true,
	"pdf":  true,
	"eps":  true,
}

// ImageFormat derives the image format from the extension of path.
func ImageFormat(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return DefaultImageFormat, nil
	}
	if !imageFormats[ext] {
		return "", &model.ConfigurationError{
			Option: "plot_filename",
			Value:  path,
			Reason: fmt.Sprintf("unsupported image format %q (use png, jpg, tiff, svg, pdf or eps)", ext),
		}
	}
	return ext, nil
}

// Save writes the chart to path in the format named by its extension and
// closes the chart. A partially written file is removed.
func Save(c *chart.Chart, path string) (err error) {
	defer c.Close()

	format, err := ImageFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close plot file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	n, err := c.WriteTo(f, format)
	if err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}

	util.LogInfof("Saved %s chart to %s (%d bytes)", format, path, n)
	return nil
}

// Emit saves the chart when path is set and shows it interactively otherwise.
func Emit(c *chart.Chart, path string) error {
	if path != "" {
		return Save(c, path)
	}
	return Show(c)
}

// Image file writing for snapshots
package io

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// ErrUnsupportedFormat is returned for file extensions OpenCV is not asked to encode.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// ImageWriter encodes Mats to image files.
type ImageWriter struct {
	logger logrus.FieldLogger
}

// NewImageWriter creates a writer.
func NewImageWriter(logger logrus.FieldLogger) *ImageWriter {
	return &ImageWriter{
		logger: logger,
	}
}

// SaveImage writes mat to path. The format follows the extension.
func (w *ImageWriter) SaveImage(mat gocv.Mat, path string) error {
	w.logger.WithField("filepath", path).Debug("Saving image")

	if mat.Empty() {
		return fmt.Errorf("cannot save empty image")
	}

	if !IsSupportedFormat(path) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, path, strings.Join(SupportedFormats(), ", "))
	}

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to save image: %s", path)
	}

	w.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image saved successfully")

	return nil
}

// IsSupportedFormat reports whether the extension of path can be written.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// SupportedFormats returns the human readable list of writable formats.
func SupportedFormats() []string {
	return []string{"JPEG", "PNG", "TIFF", "BMP"}
}

// Package metrics computes single-frame exposure diagnostics for the preview.
package metrics

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// Metric defines a measurement over one RGB frame
type Metric interface {
	// Calculate computes the metric value
	Calculate(frame gocv.Mat) (float64, error)
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default frame metrics
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

// RegisterDefaultMetrics registers mean luma, clipping and sharpness
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mean_luma", NewMeanLuma())
	e.Register("clipped", NewClipping(250))
	e.Register("sharpness", NewSharpness())
}

// Register registers a metric, replacing any metric with the same name
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns the registered metric names in sorted order
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CalculateAll calculates every metric. Failed metrics are left out.
func (e *Evaluator) CalculateAll(frame gocv.Mat) map[string]float64 {
	results := make(map[string]float64, len(e.metrics))
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(frame); err == nil {
			results[name] = value
		}
	}
	return results
}

// EvaluateRGB wraps a packed RGB24 buffer and calculates every metric on it.
func (e *Evaluator) EvaluateRGB(width, height int, pix []byte) (map[string]float64, error) {
	if width <= 0 || height <= 0 || len(pix) < width*height*3 {
		return nil, fmt.Errorf("invalid frame %dx%d with %d bytes", width, height, len(pix))
	}

	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, pix[:width*height*3])
	if err != nil {
		return nil, fmt.Errorf("wrap frame: %w", err)
	}
	defer mat.Close()

	return e.CalculateAll(mat), nil
}

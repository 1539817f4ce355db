package camera

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// SnapshotName returns snapshot_<YYYYMMDD-HHMMSS>.jpg for t.
// Two snapshots in the same second share a name; the later one wins.
func SnapshotName(t time.Time) string {
	return "snapshot_" + t.Format("20060102-150405") + ".jpg"
}

// FileCapturer writes a still image to a path.
type FileCapturer interface {
	CaptureToFile(path string) error
}

// Snapshotter names and captures still images into a directory.
type Snapshotter struct {
	device FileCapturer
	dir    string
	now    func() time.Time
	logger logrus.FieldLogger
}

// NewSnapshotter creates a snapshotter writing into dir.
func NewSnapshotter(device FileCapturer, dir string, logger logrus.FieldLogger) *Snapshotter {
	return &Snapshotter{
		device: device,
		dir:    dir,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *Snapshotter) WithClock(now func() time.Time) *Snapshotter {
	s.now = now
	return s
}

// Take captures one snapshot and returns its path.
func (s *Snapshotter) Take() (string, error) {
	path := filepath.Join(s.dir, SnapshotName(s.now()))

	if err := s.device.CaptureToFile(path); err != nil {
		s.logger.WithFields(logrus.Fields{
			"path":  path,
			"error": err,
		}).Error("Snapshot failed")
		return "", fmt.Errorf("snapshot %s: %w", path, err)
	}

	s.logger.WithField("path", path).Info("Saved snapshot")
	return path, nil
}

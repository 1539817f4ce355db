package camera_test

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camera-control-panel/internal/camera"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSnapshotName(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "snapshot_20240305-070809.jpg", camera.SnapshotName(ts))
}

type fileRecorder struct {
	paths []string
	err   error
}

func (r *fileRecorder) CaptureToFile(path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func TestSnapshotter_Take(t *testing.T) {
	t.Parallel()

	rec := &fileRecorder{}
	ts := time.Date(2024, time.December, 31, 23, 59, 58, 0, time.Local)
	s := camera.NewSnapshotter(rec, "shots", quietLogger()).WithClock(func() time.Time { return ts })

	path, err := s.Take()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("shots", "snapshot_20241231-235958.jpg"), path)

	// Same second, same name: the second capture overwrites the first.
	again, err := s.Take()
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, []string{path, path}, rec.paths)
}

func TestSnapshotter_TakeFailure(t *testing.T) {
	t.Parallel()

	rec := &fileRecorder{err: camera.ErrDeviceUnavailable}
	s := camera.NewSnapshotter(rec, ".", quietLogger())

	_, err := s.Take()
	require.True(t, errors.Is(err, camera.ErrDeviceUnavailable))
}

func TestFrame_ResizeReusesBuffer(t *testing.T) {
	t.Parallel()

	f := camera.NewFrame(4, 4)
	require.Len(t, f.Pix, 48)
	backing := &f.Pix[0]

	f.Resize(2, 2)
	require.Len(t, f.Pix, 12)
	assert.Same(t, backing, &f.Pix[0])

	f.Resize(8, 8)
	assert.Len(t, f.Pix, 192)
}

func testFrame() *camera.Frame {
	// 3x2 frame, pixel value encodes its position: R=x, G=y.
	f := camera.NewFrame(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			i := (y*3 + x) * 3
			f.Pix[i] = byte(x)
			f.Pix[i+1] = byte(y)
			f.Pix[i+2] = 7
		}
	}
	return f
}

func TestOrientation_Identity(t *testing.T) {
	t.Parallel()

	src := testFrame()
	dst := &camera.Frame{}

	require.NoError(t, camera.Orientation{}.Apply(src, dst))
	assert.Equal(t, src.Pix, dst.Pix)
	assert.True(t, camera.Orientation{Rotate: 360}.Identity())
}

func TestOrientation_RotateAndFlip(t *testing.T) {
	t.Parallel()

	src := testFrame()

	rotated := &camera.Frame{}
	require.NoError(t, camera.Orientation{Rotate: 90}.Apply(src, rotated))
	assert.Equal(t, 2, rotated.Width)
	assert.Equal(t, 3, rotated.Height)
	// Clockwise: the bottom-left source pixel (0,1) lands top-left.
	assert.Equal(t, []byte{0, 1}, rotated.Pix[:2])

	flipped := &camera.Frame{}
	require.NoError(t, camera.Orientation{HFlip: true}.Apply(src, flipped))
	assert.Equal(t, []byte{2, 0}, flipped.Pix[:2])

	vflipped := &camera.Frame{}
	require.NoError(t, camera.Orientation{VFlip: true}.Apply(src, vflipped))
	assert.Equal(t, []byte{0, 1}, vflipped.Pix[:2])
}

func TestOrientation_OutputSize(t *testing.T) {
	t.Parallel()

	w, h := camera.Orientation{Rotate: 270, HFlip: true}.OutputSize(640, 480)
	assert.Equal(t, []int{480, 640}, []int{w, h})

	w, h = camera.Orientation{Rotate: -180}.OutputSize(640, 480)
	assert.Equal(t, []int{640, 480}, []int{w, h})
}

func TestOrientation_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, camera.Orientation{Rotate: -90}.Validate())
	require.Error(t, camera.Orientation{Rotate: 45}.Validate())
}

func TestOrientation_EmptyFrame(t *testing.T) {
	t.Parallel()

	err := camera.Orientation{}.Apply(&camera.Frame{}, &camera.Frame{})
	require.ErrorIs(t, err, camera.ErrCapture)
}

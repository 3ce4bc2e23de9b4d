package antnav

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/antnav/blobstore"
	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/rotater"
	"github.com/hupe1980/antnav/routedb"
	"github.com/hupe1980/antnav/testutil"
)

var navSize = imgproc.Size{Width: 90, Height: 10}

func TestNavigatorHeadingOfRolledPanorama(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}

	nav, err := PerfectMemory(navSize).Workers(2).Metrics(mc).Build()
	require.NoError(t, err)

	view := testutil.NewRNG(1).Panorama(navSize)
	require.NoError(t, nav.Train(ctx, view))
	assert.Equal(t, 1, nav.Trained())

	for _, k := range []int{0, 5, 45, 80} {
		est, err := nav.Heading(ctx, testutil.Rolled(view, k))
		require.NoError(t, err)

		want := core.WrapDegrees(-float64(k) * 360 / float64(navSize.Width))
		assert.LessOrEqual(t, testutil.AngleDiff(want, est.Heading), 4.0, "k=%d", k)
		assert.Equal(t, 0, est.Snapshot)
		assert.InDelta(t, 0, est.Score, 1e-6)
	}

	stats := mc.GetStats()
	assert.EqualValues(t, 1, stats.TrainCount)
	assert.EqualValues(t, 4, stats.HeadingCount)
	assert.EqualValues(t, 4*navSize.Width, stats.HeadingRotations)
	assert.Zero(t, stats.HeadingErrors)
}

func TestNavigatorHeadingScanStep(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}

	nav, err := PerfectMemory(navSize).Metrics(mc).Build()
	require.NoError(t, err)

	view := testutil.NewRNG(2).Panorama(navSize)
	require.NoError(t, nav.Train(ctx, view))

	_, err = nav.Heading(ctx, view, rotater.WithScanStep(3))
	require.NoError(t, err)
	assert.EqualValues(t, navSize.Width/3, mc.GetStats().HeadingRotations)
}

func TestNavigatorHeadingFromRenderer(t *testing.T) {
	ctx := context.Background()
	scene := testutil.NewRNG(8).Scene()

	nav, err := PerfectMemory(navSize).Build()
	require.NoError(t, err)
	require.NoError(t, nav.Train(ctx, scene.View(navSize, 90)))

	est, err := nav.HeadingFrom(ctx, rotater.Rendered[uint8](scene, rotater.UniformHeadings(36)))
	require.NoError(t, err)
	assert.InDelta(t, 90, est.Heading, 1e-9)
}

func TestNavigatorPreconditions(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}

	nav, err := PerfectMemory(navSize).Metrics(mc).Build()
	require.NoError(t, err)

	_, err = nav.Heading(ctx, nil)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = nav.HeadingFrom(ctx, nil)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = nav.Heading(ctx, testutil.NewRNG(1).Panorama(navSize))
	assert.ErrorIs(t, err, ErrEmptyStore)

	err = nav.Train(ctx, imgproc.New[uint8](imgproc.Size{Width: 4, Height: 4}))
	var sizeErr *SizeMismatchError
	assert.ErrorAs(t, err, &sizeErr)
	assert.Zero(t, nav.Trained())

	stats := mc.GetStats()
	assert.EqualValues(t, 1, stats.TrainErrors)
	assert.EqualValues(t, 1, stats.HeadingErrors)
	assert.Zero(t, stats.HeadingRotations)
}

func TestNavigatorTestAndClear(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}
	rng := testutil.NewRNG(3)

	nav, err := PerfectMemory(navSize).Metrics(mc).Build()
	require.NoError(t, err)

	a, b := rng.Panorama(navSize), rng.Panorama(navSize)
	require.NoError(t, nav.Train(ctx, a))

	same, err := nav.Test(ctx, a)
	require.NoError(t, err)
	assert.InDelta(t, 0, same, 1e-6)

	other, err := nav.Test(ctx, b)
	require.NoError(t, err)
	assert.Greater(t, other, same)

	nav.ClearMemory(ctx)
	assert.Zero(t, nav.Trained())
	assert.Zero(t, nav.Algorithm().NumSnapshots())

	_, err = nav.Test(ctx, a)
	assert.ErrorIs(t, err, ErrEmptyStore)

	stats := mc.GetStats()
	assert.EqualValues(t, 3, stats.TestCount)
	assert.EqualValues(t, 1, stats.TestErrors)
	assert.EqualValues(t, 1, stats.ClearCount)
}

func TestNavigatorTrainRoute(t *testing.T) {
	ctx := context.Background()
	route := testutil.NewRNG(4).Route(6, navSize, 2)

	nav, err := PerfectMemory(navSize).Build()
	require.NoError(t, err)

	n, err := nav.TrainRoute(ctx, route)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 6, nav.Algorithm().NumSnapshots())

	est, err := nav.Heading(ctx, route[4])
	require.NoError(t, err)
	assert.Equal(t, 4, est.Snapshot)
}

func TestNavigatorTrainRouteStopsAtFirstError(t *testing.T) {
	ctx := context.Background()
	route := testutil.NewRNG(5).Route(4, navSize, 1)
	route[2] = imgproc.New[uint8](imgproc.Size{Width: 45, Height: 5})

	nav, err := PerfectMemory(navSize).Build()
	require.NoError(t, err)

	n, err := nav.TrainRoute(ctx, route)
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, 2, n)
}

func TestNavigatorTrainRouteResize(t *testing.T) {
	ctx := context.Background()
	big := imgproc.Size{Width: 180, Height: 20}
	route := testutil.NewRNG(6).Route(3, big, 1)

	nav, err := PerfectMemory(navSize).ResizeRoute(true).Build()
	require.NoError(t, err)

	n, err := nav.TrainRoute(ctx, route)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	snap, err := nav.Algorithm().Snapshot(0)
	require.NoError(t, err)
	assert.Equal(t, navSize, snap.Size())
}

func TestNavigatorTrainRouteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nav, err := PerfectMemory(navSize).Build()
	require.NoError(t, err)

	n, err := nav.TrainRoute(ctx, testutil.NewRNG(7).Route(2, navSize, 1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestNavigatorLoadRoute(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	route := testutil.NewRNG(9).Route(5, navSize, 2)
	require.NoError(t, routedb.Save(ctx, store, "walk", route))

	nav, err := PerfectMemory(navSize).Build()
	require.NoError(t, err)

	n, err := nav.LoadRoute(ctx, store, "walk")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	est, err := nav.Heading(ctx, testutil.Rolled(route[3], 9))
	require.NoError(t, err)
	assert.Equal(t, 3, est.Snapshot)
	assert.LessOrEqual(t, testutil.AngleDiff(-36, est.Heading), 4.0)
}

func TestNavigatorLoadRouteRejectsWrongSize(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	big := imgproc.Size{Width: 180, Height: 20}
	require.NoError(t, routedb.Save(ctx, store, "walk", testutil.NewRNG(10).Route(2, big, 1)))

	nav, err := PerfectMemory(navSize).Build()
	require.NoError(t, err)
	_, err = nav.LoadRoute(ctx, store, "walk")
	var sizeErr *SizeMismatchError
	assert.ErrorAs(t, err, &sizeErr)

	resizing, err := PerfectMemory(navSize).ResizeRoute(true).Build()
	require.NoError(t, err)
	n, err := resizing.LoadRoute(ctx, store, "walk")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNavigatorRecorder(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	rec, err := routedb.NewRecorder(ctx, store, "rec", routedb.WithFormat(routedb.RawLZ4))
	require.NoError(t, err)

	nav, err := InfoMax(navSize).Seed(1).Recorder(rec).Build()
	require.NoError(t, err)

	route := testutil.NewRNG(11).Route(3, navSize, 1)
	require.NoError(t, nav.Train(ctx, route[0]))
	_, err = nav.TrainRoute(ctx, route[1:])
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Len())

	saved, err := routedb.Load(ctx, store, "rec", routedb.WithFormat(routedb.RawLZ4))
	require.NoError(t, err)
	require.Len(t, saved, 3)
	for i := range route {
		assert.Equal(t, route[i].Pix, saved[i].Pix)
	}

	// Loaded routes are not recorded again.
	n, err := nav.LoadRoute(ctx, store, "rec", routedb.WithFormat(routedb.RawLZ4))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, 6, nav.Trained())
}

func TestNavigatorInfoMaxHeading(t *testing.T) {
	ctx := context.Background()
	size := imgproc.Size{Width: 36, Height: 4}
	view := testutil.NewRNG(77).UniformImage(size)

	nav, err := InfoMax(size).Seed(5).LearningRate(0.01).Build()
	require.NoError(t, err)
	for range 100 {
		require.NoError(t, nav.Train(ctx, view))
	}

	est, err := nav.Heading(ctx, testutil.Rolled(view, 9))
	require.NoError(t, err)
	assert.LessOrEqual(t, testutil.AngleDiff(-90, est.Heading), 10.0)
	assert.Equal(t, core.NoSnapshot, est.Snapshot)
}

func TestNavigatorLogging(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	nav, err := PerfectMemory(navSize).Logger(logger).Build()
	require.NoError(t, err)

	require.NoError(t, nav.Train(ctx, testutil.NewRNG(12).Panorama(navSize)))
	nav.ClearMemory(ctx)

	out := buf.String()
	assert.Contains(t, out, `"algorithm":"perfect-memory"`)
	assert.Contains(t, out, `"msg":"train completed"`)
	assert.Contains(t, out, `"snapshots":1`)
	assert.Contains(t, out, `"msg":"memory cleared"`)
}

var errDiskFull = errors.New("disk full")

// fullStore accepts reads and deletes but rejects every write.
type fullStore struct {
	*blobstore.MemoryStore
}

func (fullStore) Put(context.Context, string, []byte) error {
	return errDiskFull
}

func TestNavigatorRecorderWriteFailure(t *testing.T) {
	ctx := context.Background()
	size := imgproc.Size{Width: 8, Height: 4}

	rec, err := routedb.NewRecorder(ctx, fullStore{blobstore.NewMemoryStore()}, "r")
	require.NoError(t, err)

	nav, err := PerfectMemory(size).Recorder(rec).Build()
	require.NoError(t, err)

	n, err := nav.TrainRoute(ctx, testutil.NewRNG(13).UniformImages(2, size))
	assert.ErrorIs(t, err, errDiskFull)
	assert.Zero(t, n)
	assert.Equal(t, n, nav.Algorithm().NumSnapshots())
	assert.Equal(t, n, nav.Trained())
	assert.Zero(t, rec.Len())

	err = nav.Train(ctx, testutil.NewRNG(14).UniformImage(size))
	assert.ErrorIs(t, err, errDiskFull)
	assert.Zero(t, nav.Algorithm().NumSnapshots())
}

func TestNavigatorRecorderTrainFailure(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	// No resolution on the recorder, so the wrong-size image is written
	// before the algorithm rejects it.
	rec, err := routedb.NewRecorder(ctx, store, "r")
	require.NoError(t, err)

	nav, err := PerfectMemory(navSize).Recorder(rec).Build()
	require.NoError(t, err)

	route := []*imgproc.Gray{
		testutil.NewRNG(15).Panorama(navSize),
		imgproc.New[uint8](imgproc.Size{Width: 8, Height: 4}),
	}
	n, err := nav.TrainRoute(ctx, route)
	var sizeErr *SizeMismatchError
	assert.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, nav.Algorithm().NumSnapshots())
	assert.Equal(t, 1, rec.Len())
	assert.Equal(t, 1, store.Len())
}

package routedb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/hupe1980/antnav/blobstore"
	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
)

type options struct {
	format     Format
	resolution imgproc.Size
	logger     *slog.Logger
}

// Option configures route reads and writes.
type Option func(*options)

// WithFormat selects the snapshot encoding. Default: PNG.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithResolution makes reads and writes reject snapshots of any other size.
func WithResolution(size imgproc.Size) Option {
	return func(o *options) {
		o.resolution = size
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func applyOptions(opts []Option) options {
	o := options{format: PNG}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o *options) check(img *imgproc.Gray, i int) error {
	if img == nil {
		return fmt.Errorf("%w: snapshot %d is nil", core.ErrPrecondition, i)
	}
	if o.resolution.Empty() {
		return nil
	}
	if err := core.CheckSize(fmt.Sprintf("snapshot %d", i), o.resolution, img.Size()); err != nil {
		return err
	}
	return nil
}

// BlobName returns the blob name of snapshot i of route.
func BlobName(route string, i int, f Format) string {
	if route == "" {
		return Filename(i, f)
	}
	return path.Join(route, Filename(i, f))
}

// Save writes snapshots as route, numbering them from zero. Snapshots left
// over from a longer earlier route are removed first.
func Save(ctx context.Context, store blobstore.BlobStore, route string, snapshots []*imgproc.Gray, opts ...Option) error {
	o := applyOptions(opts)
	for i, img := range snapshots {
		if err := o.check(img, i); err != nil {
			return err
		}
	}

	if err := Clear(ctx, store, route); err != nil {
		return err
	}
	for i, img := range snapshots {
		if err := put(ctx, store, route, i, img, &o); err != nil {
			return err
		}
	}

	o.logger.Info("route saved", "route", route, "snapshots", len(snapshots), "format", o.format.String())
	return nil
}

func put(ctx context.Context, store blobstore.BlobStore, route string, i int, img *imgproc.Gray, o *options) error {
	data, err := Encode(img, o.format)
	if err != nil {
		return fmt.Errorf("encode snapshot %d: %w", i, err)
	}
	name := BlobName(route, i, o.format)
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	o.logger.Debug("snapshot written", "name", name, "bytes", len(data))
	return nil
}

// WalkFunc is called for each snapshot in index order.
type WalkFunc func(i int, img *imgproc.Gray) error

// Walk decodes the snapshots of route in index order, stopping without
// error at the first missing index. An error from fn stops the walk and
// is returned.
func Walk(ctx context.Context, store blobstore.BlobStore, route string, fn WalkFunc, opts ...Option) error {
	o := applyOptions(opts)

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := BlobName(route, i, o.format)
		data, err := blobstore.ReadAll(ctx, store, name)
		if errors.Is(err, blobstore.ErrNotFound) {
			o.logger.Debug("route ends", "route", route, "snapshots", i)
			return nil
		}
		if err != nil {
			return err
		}

		img, err := Decode(data, o.format)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := o.check(img, i); err != nil {
			return err
		}
		if err := fn(i, img); err != nil {
			return err
		}
	}
}

// Load returns every snapshot of route. A route with no snapshots yields
// an empty slice.
func Load(ctx context.Context, store blobstore.BlobStore, route string, opts ...Option) ([]*imgproc.Gray, error) {
	var out []*imgproc.Gray
	err := Walk(ctx, store, route, func(_ int, img *imgproc.Gray) error {
		out = append(out, img)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear deletes every snapshot blob of route, whatever its format.
func Clear(ctx context.Context, store blobstore.BlobStore, route string) error {
	names, err := snapshotBlobs(ctx, store, route, "")
	if err != nil {
		return err
	}
	return deleteAll(ctx, store, names)
}

// snapshotBlobs lists the snapshot blobs of route whose name ends in ext,
// or all of them when ext is empty. Nested routes sharing the prefix are
// skipped.
func snapshotBlobs(ctx context.Context, store blobstore.BlobStore, route, ext string) ([]string, error) {
	prefix := "image_"
	if route != "" {
		prefix = strings.TrimSuffix(route, "/") + "/image_"
	}
	names, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, name := range names {
		if strings.Contains(strings.TrimPrefix(name, prefix), "/") {
			continue
		}
		if ext != "" && path.Ext(name) != ext {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func deleteAll(ctx context.Context, store blobstore.BlobStore, names []string) error {
	for _, name := range names {
		if err := store.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Convert re-encodes route from one format to another in place and
// returns the number of snapshots. The new blobs are written before any
// old one is removed, so a failed conversion leaves the source route
// readable.
func Convert(ctx context.Context, store blobstore.BlobStore, route string, from, to Format, opts ...Option) (int, error) {
	o := applyOptions(opts)
	o.format = from

	var snapshots []*imgproc.Gray
	err := Walk(ctx, store, route, func(_ int, img *imgproc.Gray) error {
		snapshots = append(snapshots, img)
		return nil
	}, WithFormat(from), WithResolution(o.resolution), WithLogger(o.logger))
	if err != nil {
		return 0, err
	}
	if from == to {
		return len(snapshots), nil
	}

	o.format = to
	written := make(map[string]bool, len(snapshots))
	for i, img := range snapshots {
		if err := put(ctx, store, route, i, img, &o); err != nil {
			return 0, err
		}
		written[BlobName(route, i, to)] = true
	}

	stale, err := snapshotBlobs(ctx, store, route, to.Extension())
	if err != nil {
		return 0, err
	}
	var leftovers []string
	for _, name := range stale {
		if !written[name] {
			leftovers = append(leftovers, name)
		}
	}
	if err := deleteAll(ctx, store, leftovers); err != nil {
		return 0, err
	}

	old, err := snapshotBlobs(ctx, store, route, from.Extension())
	if err != nil {
		return 0, err
	}
	if err := deleteAll(ctx, store, old); err != nil {
		return 0, err
	}

	o.logger.Info("route converted", "route", route, "snapshots", len(snapshots), "from", from.String(), "to", to.String())
	return len(snapshots), nil
}

// Recorder appends snapshots to a route as they are taken.
type Recorder struct {
	mu    sync.Mutex
	store blobstore.BlobStore
	route string
	opts  options
	next  int
}

// NewRecorder returns a Recorder that continues after any snapshots
// route already holds.
func NewRecorder(ctx context.Context, store blobstore.BlobStore, route string, opts ...Option) (*Recorder, error) {
	o := applyOptions(opts)

	next := 0
	for {
		b, err := store.Open(ctx, BlobName(route, next, o.format))
		if errors.Is(err, blobstore.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		_ = b.Close()
		next++
	}

	return &Recorder{store: store, route: route, opts: o, next: next}, nil
}

// Record stores img as the next snapshot and returns its index.
func (r *Recorder) Record(ctx context.Context, img *imgproc.Gray) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.opts.check(img, r.next); err != nil {
		return 0, err
	}
	if err := put(ctx, r.store, r.route, r.next, img, &r.opts); err != nil {
		return 0, err
	}
	r.next++
	return r.next - 1, nil
}

// Discard removes snapshot i, which must be the most recently recorded
// one, and reuses its index for the next Record.
func (r *Recorder) Discard(ctx context.Context, i int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i != r.next-1 || i < 0 {
		return fmt.Errorf("%w: snapshot %d is not the last recorded (%d)", core.ErrPrecondition, i, r.next-1)
	}
	if err := r.store.Delete(ctx, BlobName(r.route, i, r.opts.format)); err != nil {
		return err
	}
	r.next--
	return nil
}

// Len returns the number of snapshots in the route.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// Reset clears the stored route and restarts numbering at zero.
func (r *Recorder) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := Clear(ctx, r.store, r.route); err != nil {
		return err
	}
	r.next = 0
	return nil
}

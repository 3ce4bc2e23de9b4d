// Package antnav estimates headings from panoramic views, the way an ant
// finds its way home along a familiar route.
//
// A navigator is trained on the views seen along a route. Given a new
// view it scans every rotation of that view and reports the heading at
// which it looks most familiar. Two algorithms are provided:
//
//   - Perfect memory stores every training view and compares a query
//     against each of them with a pluggable difference measure.
//   - InfoMax trains a single-layer network online and scores a view by
//     its output activity, so memory does not grow with the route.
//
// # Quick Start
//
//	size := imgproc.Size{Width: 180, Height: 50}
//	nav, _ := antnav.PerfectMemory(size).RMSDiff().Build()
//
//	// Train along the route.
//	for _, view := range route {
//	    _ = nav.Train(ctx, view)
//	}
//
//	// Where should we go?
//	est, _ := nav.Heading(ctx, query)
//	fmt.Println(est.Heading, est.Snapshot, est.Score)
//
// # Routes
//
// Routes can be stored in any blobstore.BlobStore (local disk, memory,
// S3, MinIO) through the routedb package:
//
//	store := blobstore.NewLocalStore("./routes")
//	n, err := nav.LoadRoute(ctx, store, "garden")
//
// # Rotations
//
// Heading scans panoramic queries by rolling image columns. Views
// rendered live from a simulator or robot can be scanned with
// HeadingFrom and rotater.Rendered.
//
// # Concurrency
//
// A Navigator serialises its operations, so one navigator can be shared
// between goroutines. Perfect memory compares snapshots in parallel
// within a single heading estimate.
package antnav

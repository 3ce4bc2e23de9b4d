// Package perfectmemory implements exemplar-based visual navigation.
//
// Every training image is kept verbatim as a snapshot. Familiarity of a
// view is its smallest difference to any snapshot, and a heading is
// recovered by scanning rotations of the query against every snapshot to
// build a rotational image difference function (RIDF) per snapshot.
//
// # Usage
//
//	pm, err := perfectmemory.NewRotater[uint8](size,
//		perfectmemory.WithDifferencer(differencer.KindRMSDiff),
//		perfectmemory.WithWorkers(4),
//	)
//	for _, img := range route {
//		pm.Train(img)
//	}
//	res, err := pm.Heading(ctx, rotater.InSilico(query))
//
// # Concurrency
//
// A PerfectMemory or Rotater instance is not safe for concurrent use: the
// difference matrix and differencer scratch buffers belong to the instance.
// Within a single heading estimate the snapshots are compared in parallel.
package perfectmemory

// Package differencer provides image difference strategies.
//
// A Differencer compares two equally sized single-channel images over the
// pixels that are valid in both masks and returns a scalar where lower
// means more similar.
//
// # Strategies
//
//   - AbsDiff: mean absolute pixel difference
//   - RMSDiff: root-mean-square pixel difference
//   - CorrCoefficient: 1 - |Pearson correlation|
//
// # Usage
//
//	d := differencer.NewAbsDiff[uint8]()
//	score, err := d.Difference(a, b, imgproc.Mask{}, mask)
//
// Differencers own scratch buffers and are not safe for concurrent use.
// Engines that fan out obtain one instance per worker from a Factory:
//
//	factory, _ := differencer.Provider[uint8](differencer.KindRMSDiff)
//	d := factory()
package differencer

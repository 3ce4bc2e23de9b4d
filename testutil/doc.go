// Package testutil provides testing utilities for antnav.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source plus generators for synthetic
// panoramic scenes and routes.
//
// # Random Images
//
//	rng := testutil.NewRNG(seed)
//	img := rng.UniformImage(imgproc.Size{Width: 90, Height: 10})
//
// # Scenes
//
//	pano := rng.Panorama(size)          // skyline panorama, no rotational symmetry
//	route := rng.Route(10, size, 2)     // panoramas drifting along a path
//	query := testutil.Rolled(pano, 15)  // pano seen after turning
package testutil

// Package infomax implements the InfoMax familiarity network.
//
// InfoMax is a single fully connected layer trained online with an
// anti-Hebbian rule. After training along a route, the summed absolute
// activation of the layer (its novelty) is low for familiar views, so the
// heading with the lowest novelty points along the route.
//
// The weight matrix is square with one row and column per input: every
// image pixel plus, optionally, non-retinatopic inputs such as a compass
// reading, each replicated over a configured number of pixels.
//
// An InfoMax is not safe for concurrent use.
package infomax

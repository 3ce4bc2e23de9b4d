package perfectmemory

import (
	"fmt"
	"math"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/queue"
)

// Match is the minimum of one snapshot's RIDF.
type Match struct {
	Snapshot   int
	Rotation   int
	Difference float32
}

// Selection is a selector's verdict.
type Selection struct {
	Estimate core.Estimate
	// Snapshots lists the snapshots that contributed, best first.
	Snapshots []int
}

// HeadingFunc converts a rotation index to a heading in degrees.
type HeadingFunc func(rotation int) float64

// Selector turns per-snapshot RIDF minima into a heading estimate.
// matches holds one entry per snapshot, in snapshot order.
type Selector interface {
	Select(matches []Match, heading HeadingFunc) (Selection, error)
}

// BestMatchingSnapshot picks the snapshot with the globally smallest
// difference. Ties go to the lowest snapshot index.
type BestMatchingSnapshot struct{}

// Select implements Selector.
func (BestMatchingSnapshot) Select(matches []Match, heading HeadingFunc) (Selection, error) {
	if len(matches) == 0 {
		return Selection{}, core.ErrEmptyStore
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.Difference < best.Difference {
			best = m
		}
	}

	return Selection{
		Estimate: core.Estimate{
			Heading:  heading(best.Rotation),
			Snapshot: best.Snapshot,
			Score:    best.Difference,
		},
		Snapshots: []int{best.Snapshot},
	}, nil
}

// WeightSnapshots averages the headings of the N best snapshots, each
// weighted by the inverse of its difference. The average is circular so
// headings either side of ±180° combine correctly. Snapshots that match
// exactly take all the weight.
type WeightSnapshots struct {
	N int
}

// Select implements Selector.
func (w WeightSnapshots) Select(matches []Match, heading HeadingFunc) (Selection, error) {
	if w.N < 1 {
		return Selection{}, fmt.Errorf("%w: snapshot count must be positive, got %d", core.ErrPrecondition, w.N)
	}
	if len(matches) == 0 {
		return Selection{}, core.ErrEmptyStore
	}

	best := queue.NewBest(w.N)
	for _, m := range matches {
		best.Offer(queue.Item{Snapshot: m.Snapshot, Rotation: m.Rotation, Difference: m.Difference})
	}
	top := best.Sorted()

	exact := top[0].Difference == 0

	var sinSum, cosSum float64
	snapshots := make([]int, 0, len(top))
	for _, item := range top {
		var weight float64
		switch {
		case exact && item.Difference != 0:
			continue
		case exact:
			weight = 1
		default:
			weight = 1 / float64(item.Difference)
		}

		rad := heading(item.Rotation) * math.Pi / 180
		sinSum += weight * math.Sin(rad)
		cosSum += weight * math.Cos(rad)
		snapshots = append(snapshots, item.Snapshot)
	}

	mean := math.Atan2(sinSum, cosSum) * 180 / math.Pi

	return Selection{
		Estimate: core.Estimate{
			Heading:  core.WrapDegrees(mean),
			Snapshot: top[0].Snapshot,
			Score:    top[0].Difference,
		},
		Snapshots: snapshots,
	}, nil
}

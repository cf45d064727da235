package model

import (
	"fmt"
	"math"
)

// AssetKind distinguishes the two delivery asset variants for ETA purposes.
type AssetKind int

const (
	KindBeverageCart AssetKind = iota
	KindDeliveryStaff
)

// Location is either a hole number, a mid-segment position, or (for staff
// only) the Clubhouse.
type Location struct {
	Hole int // valid when Mid == false and !Clubhouse

	Mid      bool    // true when resting mid-segment
	Segment  Segment // the segment being traversed, when Mid
	Fraction float64 // progress in [0,1] along Segment, when Mid

	Clubhouse bool // staff only
}

// AtHole builds a Location resting exactly at hole h.
func AtHole(h int) Location { return Location{Hole: h} }

// AtClubhouse builds the distinguished Clubhouse location.
func AtClubhouse() Location { return Location{Clubhouse: true} }

// MidSegment builds a Location partway along a segment.
func MidSegment(seg Segment, fraction float64) Location {
	return Location{Mid: true, Segment: seg, Fraction: fraction}
}

func (l Location) String() string {
	switch {
	case l.Clubhouse:
		return "clubhouse"
	case l.Mid:
		return fmt.Sprintf("%d->%d@%.2f", l.Segment.From, l.Segment.To, l.Fraction)
	default:
		return fmt.Sprintf("hole %d", l.Hole)
	}
}

// ETA computes the travel time in minutes from loc to targetHole for the
// given asset kind, applying the time-of-day and terrain multipliers. It is
// a total function: unreachable cart targets return +Inf rather than an
// error, per the course model's ineligibility contract. Unknown holes are
// reported as errors.
func (c *CourseMap) ETA(loc Location, targetHole int, kind AssetKind, bucket TimeBucket) (float64, error) {
	if targetHole < 1 || targetHole > 18 {
		return 0, ErrUnknownHole{Hole: targetHole}
	}
	switch kind {
	case KindBeverageCart:
		return c.cartETA(loc, targetHole, bucket)
	default:
		return c.staffETA(loc, targetHole, bucket)
	}
}

func (c *CourseMap) cartETA(loc Location, target int, bucket TimeBucket) (float64, error) {
	if loc.Clubhouse {
		return 0, fmt.Errorf("course map: a beverage cart cannot be at the clubhouse")
	}
	startHole := loc.Hole
	residual := 0.0
	traversed := []int{}
	if loc.Mid {
		if LoopOf(loc.Segment.From) != LoopOf(target) {
			return math.Inf(1), nil
		}
		residual = (1 - loc.Fraction) * loc.Segment.AvgMinute
		traversed = append(traversed, loc.Segment.To)
		startHole = loc.Segment.To
		if startHole == target {
			return c.adjust(residual, bucket, traversed), nil
		}
	} else if LoopOf(startHole) != LoopOf(target) {
		return math.Inf(1), nil
	} else if startHole == target {
		return 0, nil
	}
	forward, _, err := c.ForwardDistance(startHole, target)
	if err != nil {
		return 0, err
	}
	if math.IsInf(forward, 1) {
		return math.Inf(1), nil
	}
	cur := startHole
	for cur != target {
		seg, err := c.Next(cur)
		if err != nil {
			return 0, err
		}
		traversed = append(traversed, seg.To)
		cur = seg.To
	}
	return c.adjust(residual+forward, bucket, traversed), nil
}

// staffETA takes the minimum of the two directed loop traversals (with and
// against the loop's direction) when already on a loop, or ClubhouseTo when
// at the Clubhouse. Staff may cross loops via the clubhouse, paying
// "to-clubhouse" plus "from-clubhouse".
func (c *CourseMap) staffETA(loc Location, target int, bucket TimeBucket) (float64, error) {
	if loc.Clubhouse {
		base, err := c.ClubhouseTo(target)
		if err != nil {
			return 0, err
		}
		return c.adjust(base, bucket, []int{target}), nil
	}

	startHole := loc.Hole
	residual := 0.0
	traversed := []int{}
	if loc.Mid {
		residual = (1 - loc.Fraction) * loc.Segment.AvgMinute
		traversed = append(traversed, loc.Segment.To)
		startHole = loc.Segment.To
	}
	if startHole == target {
		return c.adjust(residual, bucket, traversed), nil
	}

	var direct float64
	var directTraversed []int
	if LoopOf(startHole) == LoopOf(target) {
		fwd, _, err := c.ForwardDistance(startHole, target)
		if err != nil {
			return 0, err
		}
		direct = fwd
		directTraversed = pathTo(c, startHole, target)
		rev, _, err := c.ForwardDistance(target, startHole)
		if err != nil {
			return 0, err
		}
		if rev < direct {
			direct = rev
			directTraversed = pathTo(c, target, startHole)
		}
	} else {
		direct = math.Inf(1)
	}

	toClub, err := c.reverseToClubhouse(startHole)
	if err != nil {
		return 0, err
	}
	fromClub, err := c.ClubhouseTo(target)
	if err != nil {
		return 0, err
	}
	viaClub := toClub + fromClub

	if viaClub < direct {
		return c.adjust(residual+viaClub, bucket, append(traversed, target)), nil
	}
	return c.adjust(residual+direct, bucket, append(traversed, directTraversed...)), nil
}

// reverseToClubhouse estimates the staff travel time from hole h back to
// the clubhouse: the forward walk to the first tee of h's loop (hole 1 or
// 10) plus that tee's clubhouse table entry (the short hop is modeled
// symmetric, so the clubhouse->tee value is reused for tee->clubhouse).
func (c *CourseMap) reverseToClubhouse(h int) (float64, error) {
	if LoopOf(h) == Front {
		fwd, _, err := c.ForwardDistance(h, 1)
		if err != nil {
			return 0, err
		}
		toHole1, err := c.ClubhouseTo(1)
		if err != nil {
			return 0, err
		}
		return fwd + toHole1, nil
	}
	fwd, _, err := c.ForwardDistance(h, 10)
	if err != nil {
		return 0, err
	}
	toHole10, err := c.ClubhouseTo(10)
	if err != nil {
		return 0, err
	}
	return fwd + toHole10, nil
}

func pathTo(c *CourseMap, from, to int) []int {
	out := []int{}
	cur := from
	for i := 0; i < 9 && cur != to; i++ {
		seg, err := c.Next(cur)
		if err != nil {
			return out
		}
		out = append(out, seg.To)
		cur = seg.To
	}
	return out
}

// Package model defines the static and dynamic data types shared across the
// dispatch and simulation engine: the course graph, locations, orders, and
// delivery assets.
package model

import (
	"fmt"
	"math"
)

// Loop identifies one of the two 9-hole sub-loops a beverage cart is
// confined to.
type Loop int

const (
	Front Loop = iota
	Back
)

func (l Loop) String() string {
	if l == Front {
		return "front"
	}
	return "back"
}

// LoopOf returns the sub-loop containing hole h. Holes 1-9 are Front,
// 10-18 are Back.
func LoopOf(hole int) Loop {
	if hole <= 9 {
		return Front
	}
	return Back
}

// TimeBucket is the coarse time-of-day bucket used by the ETA multiplier
// and by order attributes.
type TimeBucket int

const (
	Morning TimeBucket = iota
	Noon
	Afternoon
)

// Multiplier returns the ETA time-of-day multiplier for the bucket.
func (b TimeBucket) Multiplier() float64 {
	switch b {
	case Morning:
		return 0.8
	case Afternoon:
		return 1.0
	default:
		return 1.2
	}
}

// Segment is a directed edge between consecutive holes on a loop, carrying
// the average traversal time in minutes.
type Segment struct {
	From, To  int
	AvgMinute float64
}

// isUphill reports whether hole receives the +15% terrain multiplier
// (holes 10-15).
func isUphill(hole int) bool {
	return hole >= 10 && hole <= 15
}

// CourseMap is the static directed-loop graph: 1->2->...->9->1 and
// 10->11->...->18->10, plus the clubhouse's fixed travel table (at least
// the first tee of each loop, holes 1 and 10) used by free-roaming staff.
type CourseMap struct {
	// bySource[h] is the single outgoing segment from hole h.
	bySource map[int]Segment
	// clubhouseTo[h] is the travel time from Clubhouse to hole h.
	clubhouseTo map[int]float64
}

// ErrUnknownHole signals an ETA query against a hole outside 1-18.
type ErrUnknownHole struct{ Hole int }

func (e ErrUnknownHole) Error() string {
	return fmt.Sprintf("unknown hole %d", e.Hole)
}

// NewCourseMap validates segments form exactly two simple directed cycles
// covering {1..9} and {10..18}, plus a clubhouse travel table, and builds
// the lookup structure used by ETA.
func NewCourseMap(segments []Segment, clubhouseTo map[int]float64) (*CourseMap, error) {
	bySource := make(map[int]Segment, len(segments))
	for _, s := range segments {
		if s.From < 1 || s.From > 18 || s.To < 1 || s.To > 18 {
			return nil, fmt.Errorf("segment %d->%d: %w", s.From, s.To, ErrUnknownHole{Hole: s.From})
		}
		if s.AvgMinute < 0 {
			return nil, fmt.Errorf("segment %d->%d: negative average minutes", s.From, s.To)
		}
		if _, dup := bySource[s.From]; dup {
			return nil, fmt.Errorf("segment %d->%d: duplicate outgoing edge from hole %d", s.From, s.To, s.From)
		}
		bySource[s.From] = s
	}
	for _, loop := range [][]int{frontHoles(), backHoles()} {
		cur := loop[0]
		visited := make(map[int]bool, len(loop))
		for i := 0; i < len(loop); i++ {
			seg, ok := bySource[cur]
			if !ok {
				return nil, fmt.Errorf("course map: hole %d has no outgoing segment", cur)
			}
			if visited[cur] {
				return nil, fmt.Errorf("course map: loop containing hole %d is not a simple cycle", loop[0])
			}
			visited[cur] = true
			cur = seg.To
		}
		if cur != loop[0] {
			return nil, fmt.Errorf("course map: loop starting at hole %d does not close", loop[0])
		}
	}
	return &CourseMap{bySource: bySource, clubhouseTo: clubhouseTo}, nil
}

// DistanceToClubhouse returns the travel time in minutes from hole to the
// clubhouse, used by the dispatch scorer as a proxy for an asset's return
// cost after a delivery (spec §4.4, "Distance score").
func (c *CourseMap) DistanceToClubhouse(hole int) (float64, error) {
	return c.reverseToClubhouse(hole)
}

func frontHoles() []int { return rangeHoles(1, 9) }
func backHoles() []int  { return rangeHoles(10, 18) }

func rangeHoles(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for h := lo; h <= hi; h++ {
		out = append(out, h)
	}
	return out
}

// Next returns the segment leaving hole h.
func (c *CourseMap) Next(h int) (Segment, error) {
	s, ok := c.bySource[h]
	if !ok {
		return Segment{}, ErrUnknownHole{Hole: h}
	}
	return s, nil
}

// ClubhouseTo returns the travel time in minutes from the Clubhouse to hole
// h: the table value when the table lists h, otherwise the table value for
// the first tee of h's loop (hole 1 or 10) plus the forward distance from
// that tee to h.
func (c *CourseMap) ClubhouseTo(h int) (float64, error) {
	if v, ok := c.clubhouseTo[h]; ok {
		return v, nil
	}
	head := 1
	if LoopOf(h) == Back {
		head = 10
	}
	v, ok := c.clubhouseTo[head]
	if !ok {
		return 0, ErrUnknownHole{Hole: h}
	}
	fwd, _, err := c.ForwardDistance(head, h)
	if err != nil {
		return 0, err
	}
	return v + fwd, nil
}

// ForwardDistance walks forward from hole h around its loop and returns the
// base (unmultiplied) minutes to reach target, plus the number of segments
// traversed. A target on the other loop yields +Inf minutes and no error; a
// hole missing from the map yields an error.
func (c *CourseMap) ForwardDistance(h, target int) (minutes float64, hops int, err error) {
	if LoopOf(h) != LoopOf(target) {
		return math.Inf(1), 0, nil
	}
	cur := h
	for i := 0; i < 9; i++ {
		if cur == target {
			return minutes, hops, nil
		}
		seg, err := c.Next(cur)
		if err != nil {
			return 0, 0, err
		}
		minutes += seg.AvgMinute
		hops++
		cur = seg.To
	}
	if cur == target {
		return minutes, hops, nil
	}
	return 0, 0, fmt.Errorf("course map: hole %d unreachable forward from %d", target, h)
}

// Applies the time-of-day and terrain multipliers to a base travel time
// that spans the half-open hole range (start, end]. Terrain is applied per
// traversed segment's destination hole, time-of-day uniformly.
func (c *CourseMap) adjust(base float64, bucket TimeBucket, traversedTo []int) float64 {
	terrain := 1.0
	for _, h := range traversedTo {
		if isUphill(h) {
			terrain += 0.15
		}
	}
	return base * bucket.Multiplier() * terrain
}

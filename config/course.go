package config

import (
	"strconv"

	"github.com/fairwaydispatch/caddie/core/model"
)

// SegmentConfig is one directed edge of the course graph (spec §6: table
// `(from_hole, to_hole, avg_minutes)`).
type SegmentConfig struct {
	From       int     `json:"from_hole"`
	To         int     `json:"to_hole"`
	AvgMinutes float64 `json:"avg_minutes"`
}

// CourseMapConfig is the loadable form of the two-loop course graph plus the
// clubhouse travel table. An empty Segments list falls back to
// DefaultCourseMap, an evenly-paced 18-hole layout used by every canned
// scenario in spec §8 unless it overrides the layout explicitly.
type CourseMapConfig struct {
	Segments    []SegmentConfig    `json:"segments"`
	ClubhouseTo map[string]float64 `json:"clubhouse_to"`
}

// Build validates and constructs the course map, or the default layout if
// Segments is empty.
func (c CourseMapConfig) Build() (*model.CourseMap, error) {
	if len(c.Segments) == 0 {
		return DefaultCourseMap()
	}
	segs := make([]model.Segment, 0, len(c.Segments))
	for _, s := range c.Segments {
		segs = append(segs, model.Segment{From: s.From, To: s.To, AvgMinute: s.AvgMinutes})
	}
	clubhouseTo := make(map[int]float64, len(c.ClubhouseTo))
	for hole, minutes := range c.ClubhouseTo {
		h, err := strconv.Atoi(hole)
		if err != nil {
			return nil, err
		}
		clubhouseTo[h] = minutes
	}
	return model.NewCourseMap(segs, clubhouseTo)
}

// DefaultCourseMap builds the standard 18-hole two-loop layout: holes 1-9
// form the Front loop, 10-18 the Back loop, each segment averaging 3
// minutes, with a 2 minute clubhouse hop to/from hole 1 and hole 10 (the
// first tee of each loop).
func DefaultCourseMap() (*model.CourseMap, error) {
	segs := make([]model.Segment, 0, 18)
	for h := 1; h <= 9; h++ {
		to := h + 1
		if h == 9 {
			to = 1
		}
		segs = append(segs, model.Segment{From: h, To: to, AvgMinute: 3})
	}
	for h := 10; h <= 18; h++ {
		to := h + 1
		if h == 18 {
			to = 10
		}
		segs = append(segs, model.Segment{From: h, To: to, AvgMinute: 3})
	}
	return model.NewCourseMap(segs, map[int]float64{1: 2, 10: 2})
}

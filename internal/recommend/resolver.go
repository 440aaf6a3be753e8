// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package recommend

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// DefaultSeed seeds the backfill random source when no option overrides it.
const DefaultSeed int64 = 42

// Resolver answers "what should be bought together with this course" from
// a built Index.
//
// Resolution has two phases. The primary phase walks the course's edges in
// weight order and keeps candidates whose quality is at least minQuality.
// If that yields fewer than n courses, the backfill phase draws uniformly
// at random, without replacement, from every known course that meets
// minQuality and is neither the course itself nor already chosen. Slots
// still empty after that are sentinels.
//
// A Resolver owns its random source and is not safe for concurrent use.
type Resolver struct {
	index    *Index
	quality  QualityScores
	universe []CourseID
	rng      *rand.Rand
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRand sets the random source used for backfill.
func WithRand(rng *rand.Rand) Option {
	return func(r *Resolver) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// WithSeed seeds a fresh PCG source for backfill.
func WithSeed(seed int64) Option {
	return func(r *Resolver) {
		r.rng = NewRand(seed)
	}
}

// NewRand returns the deterministic generator used throughout the module
// for a given seed.
func NewRand(seed int64) *rand.Rand {
	//nolint:gosec // G404: reproducible sampling, not security sensitive
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// NewResolver creates a Resolver. The course universe for backfill is the
// union of courses and the keys of quality. A nil index behaves as an
// empty one.
func NewResolver(index *Index, quality QualityScores, courses []CourseID, opts ...Option) *Resolver {
	if index == nil {
		index = &Index{edges: map[CourseID][]Edge{}}
	}
	if quality == nil {
		quality = QualityScores{}
	}

	known := make(map[CourseID]struct{}, len(courses)+len(quality))
	for _, c := range courses {
		known[c] = struct{}{}
	}
	for c := range quality {
		known[c] = struct{}{}
	}

	r := &Resolver{
		index:    index,
		quality:  quality,
		universe: sortedIDs(known),
		rng:      NewRand(DefaultSeed),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Universe returns the known courses, ascending. The slice must not be
// modified.
func (r *Resolver) Universe() []CourseID {
	return r.universe
}

// Quality returns the effective quality of a course.
func (r *Resolver) Quality(course CourseID) float64 {
	return r.quality.Lookup(course)
}

// Recommend returns exactly n slots for course. Unknown courses are legal:
// they have no edges and go straight to backfill.
func (r *Resolver) Recommend(course CourseID, n int, minQuality float64) ([]Slot, error) {
	if err := checkArgs(n, minQuality); err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, n)
	chosen := make(map[CourseID]struct{}, n)

	for _, e := range r.index.edges[course] {
		if len(slots) >= n {
			break
		}
		q := r.quality.Lookup(e.Candidate)
		if q < minQuality {
			continue
		}
		slots = append(slots, Slot{Course: e.Candidate, Quality: q, OK: true})
		chosen[e.Candidate] = struct{}{}
	}

	if len(slots) < n {
		pool := r.backfillPool(course, minQuality, chosen)
		for len(slots) < n && len(pool) > 0 {
			i := r.rng.IntN(len(pool))
			pick := pool[i]
			pool[i] = pool[len(pool)-1]
			pool = pool[:len(pool)-1]

			slots = append(slots, Slot{Course: pick, Quality: r.quality.Lookup(pick), OK: true, Backfilled: true})
		}
	}

	for len(slots) < n {
		slots = append(slots, Slot{})
	}
	return slots, nil
}

// backfillPool lists eligible fallback courses in ascending id order.
func (r *Resolver) backfillPool(course CourseID, minQuality float64, chosen map[CourseID]struct{}) []CourseID {
	pool := make([]CourseID, 0, len(r.universe))
	for _, c := range r.universe {
		if c == course {
			continue
		}
		if _, ok := chosen[c]; ok {
			continue
		}
		if r.quality.Lookup(c) < minQuality {
			continue
		}
		pool = append(pool, c)
	}
	return pool
}

func checkArgs(n int, minQuality float64) error {
	if n < 0 {
		return fmt.Errorf("%w: n must be non-negative, got %d", ErrInvalidArgument, n)
	}
	if math.IsNaN(minQuality) || minQuality < 0 {
		return fmt.Errorf("%w: min quality must be a non-negative number, got %v", ErrInvalidArgument, minQuality)
	}
	return nil
}

// sortCourses sorts and deduplicates ids in place.
func sortCourses(ids []CourseID) []CourseID {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	for _, id := range ids {
		if len(out) > 0 && id == out[len(out)-1] {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package recommend

import (
	"fmt"
	"sort"
)

// Index holds, per course, its outgoing recommendation edges ordered by
// weight descending. Courses without a qualifying pair are absent.
//
// An Index is read-only after BuildIndex returns.
type Index struct {
	edges     map[CourseID][]Edge
	threshold int
	pairs     int
}

// BuildIndex keeps the pairs whose count is strictly greater than
// threshold and turns each into two directed edges of equal weight:
//
//	weight = count * (q(a)/100 + q(b)/100) / 2
//
// Missing quality scores count as DefaultQuality. Pairs are inserted in
// canonical (Low, High) order and each edge list is then stably sorted by
// weight, so equal weights keep their insertion order.
func BuildIndex(counts PairCounts, quality QualityScores, threshold int) (*Index, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must be non-negative, got %d", ErrInvalidArgument, threshold)
	}

	idx := &Index{
		edges:     make(map[CourseID][]Edge),
		threshold: threshold,
	}

	for _, pair := range counts.canonicalOrder(threshold) {
		n := counts[pair]
		weight := float64(n) * (quality.normalized(pair.Low) + quality.normalized(pair.High)) / 2

		idx.edges[pair.Low] = append(idx.edges[pair.Low], Edge{Candidate: pair.High, Weight: weight})
		idx.edges[pair.High] = append(idx.edges[pair.High], Edge{Candidate: pair.Low, Weight: weight})
		idx.pairs++
	}

	for course, list := range idx.edges {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Weight > list[j].Weight })
		idx.edges[course] = list
	}

	return idx, nil
}

// Edges returns a copy of the course's edge list, or nil.
func (idx *Index) Edges(course CourseID) []Edge {
	list := idx.edges[course]
	if len(list) == 0 {
		return nil
	}
	out := make([]Edge, len(list))
	copy(out, list)
	return out
}

// Contains reports whether the course has at least one edge.
func (idx *Index) Contains(course CourseID) bool {
	_, ok := idx.edges[course]
	return ok
}

// Courses returns the indexed courses, ascending.
func (idx *Index) Courses() []CourseID {
	ids := make([]CourseID, 0, len(idx.edges))
	for id := range idx.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of indexed courses.
func (idx *Index) Len() int {
	return len(idx.edges)
}

// Pairs returns the number of pairs that survived the threshold.
func (idx *Index) Pairs() int {
	return idx.pairs
}

// EdgeCount returns the number of directed edges, always 2 * Pairs().
func (idx *Index) EdgeCount() int {
	return 2 * idx.pairs
}

// Threshold returns the threshold the index was built with.
func (idx *Index) Threshold() int {
	return idx.threshold
}

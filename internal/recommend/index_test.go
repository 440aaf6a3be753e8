// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package recommend

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestBuildIndex_Threshold(t *testing.T) {
	t.Parallel()

	counts := PairCounts{
		{Low: 1, High: 2}: 10,
		{Low: 1, High: 3}: 9,
		{Low: 2, High: 3}: 11,
	}

	tests := []struct {
		name      string
		threshold int
		wantPairs int
		present   []CoursePair
		absent    []CoursePair
	}{
		{
			name:      "equal to threshold is dropped",
			threshold: 10,
			wantPairs: 1,
			present:   []CoursePair{{Low: 2, High: 3}},
			absent:    []CoursePair{{Low: 1, High: 2}, {Low: 1, High: 3}},
		},
		{
			name:      "threshold plus one is kept",
			threshold: 9,
			wantPairs: 2,
			present:   []CoursePair{{Low: 1, High: 2}, {Low: 2, High: 3}},
			absent:    []CoursePair{{Low: 1, High: 3}},
		},
		{
			name:      "zero keeps everything counted",
			threshold: 0,
			wantPairs: 3,
			present:   []CoursePair{{Low: 1, High: 2}, {Low: 1, High: 3}, {Low: 2, High: 3}},
		},
		{
			name:      "high threshold empties the index",
			threshold: 100,
			wantPairs: 0,
			absent:    []CoursePair{{Low: 1, High: 2}, {Low: 1, High: 3}, {Low: 2, High: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx, err := BuildIndex(counts, nil, tt.threshold)
			if err != nil {
				t.Fatalf("BuildIndex: %v", err)
			}
			if idx.Pairs() != tt.wantPairs {
				t.Errorf("Pairs() = %d, want %d", idx.Pairs(), tt.wantPairs)
			}
			if idx.EdgeCount() != 2*tt.wantPairs {
				t.Errorf("EdgeCount() = %d, want %d", idx.EdgeCount(), 2*tt.wantPairs)
			}
			for _, p := range tt.present {
				if !hasEdge(idx, p.Low, p.High) || !hasEdge(idx, p.High, p.Low) {
					t.Errorf("pair %v missing in one direction", p)
				}
			}
			for _, p := range tt.absent {
				if hasEdge(idx, p.Low, p.High) || hasEdge(idx, p.High, p.Low) {
					t.Errorf("pair %v should be filtered", p)
				}
			}
		})
	}
}

func hasEdge(idx *Index, from, to CourseID) bool {
	for _, e := range idx.Edges(from) {
		if e.Candidate == to {
			return true
		}
	}
	return false
}

func TestBuildIndex_Weights(t *testing.T) {
	t.Parallel()

	counts := PairCounts{
		{Low: 101, High: 102}: 4,
		{Low: 101, High: 999}: 2,
	}
	quality := QualityScores{101: 80, 102: 60}

	idx, err := BuildIndex(counts, quality, 0)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	edges := idx.Edges(101)
	if len(edges) != 2 {
		t.Fatalf("len(Edges(101)) = %d, want 2", len(edges))
	}
	// 4 * (0.8 + 0.6) / 2
	if edges[0].Candidate != 102 || !almostEqual(edges[0].Weight, 2.8) {
		t.Errorf("edges[0] = %+v, want {102 2.8}", edges[0])
	}
	// 999 has no score, so it counts as 50: 2 * (0.8 + 0.5) / 2
	if edges[1].Candidate != 999 || !almostEqual(edges[1].Weight, 1.3) {
		t.Errorf("edges[1] = %+v, want {999 1.3}", edges[1])
	}

	back := idx.Edges(102)
	if len(back) != 1 || back[0].Candidate != 101 || !almostEqual(back[0].Weight, 2.8) {
		t.Errorf("Edges(102) = %+v, want [{101 2.8}]", back)
	}
}

func TestBuildIndex_SortedDescending(t *testing.T) {
	t.Parallel()

	rng := NewRand(3)
	counts := PairCounts{}
	quality := QualityScores{}
	for i := 0; i < 300; i++ {
		p, ok := NewCoursePair(CourseID(rng.IntN(40)), CourseID(rng.IntN(40)))
		if ok {
			counts[p] += 1 + rng.IntN(20)
		}
	}
	for c := CourseID(0); c < 40; c += 2 {
		quality[c] = rng.Float64() * 100
	}

	idx, err := BuildIndex(counts, quality, 3)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	for _, course := range idx.Courses() {
		edges := idx.Edges(course)
		for i := 1; i < len(edges); i++ {
			if edges[i-1].Weight < edges[i].Weight {
				t.Fatalf("course %d: edges not descending at %d: %+v", course, i, edges)
			}
		}
	}
}

func TestBuildIndex_StableTies(t *testing.T) {
	t.Parallel()

	// Every pair has the same count and quality, so all weights tie and
	// the order must follow canonical insertion: (1,4), (2,4), (3,4).
	counts := PairCounts{
		{Low: 3, High: 4}: 5,
		{Low: 1, High: 4}: 5,
		{Low: 2, High: 4}: 5,
		{Low: 1, High: 2}: 5,
		{Low: 1, High: 3}: 5,
	}

	idx, err := BuildIndex(counts, nil, 0)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	tests := []struct {
		course CourseID
		want   []CourseID
	}{
		{4, []CourseID{1, 2, 3}},
		{1, []CourseID{2, 3, 4}},
		{2, []CourseID{1, 4}},
	}
	for _, tt := range tests {
		edges := idx.Edges(tt.course)
		if len(edges) != len(tt.want) {
			t.Fatalf("course %d: len = %d, want %d", tt.course, len(edges), len(tt.want))
		}
		for i, want := range tt.want {
			if edges[i].Candidate != want {
				t.Errorf("course %d: edges[%d] = %d, want %d", tt.course, i, edges[i].Candidate, want)
			}
		}
	}

	// Repeated builds over the same map give the same order.
	for i := 0; i < 20; i++ {
		again, _ := BuildIndex(counts, nil, 0)
		edges := again.Edges(4)
		if edges[0].Candidate != 1 || edges[1].Candidate != 2 || edges[2].Candidate != 3 {
			t.Fatalf("build %d: order changed: %+v", i, edges)
		}
	}
}

func TestBuildIndex_EmptyAndInvalid(t *testing.T) {
	t.Parallel()

	idx, err := BuildIndex(PairCounts{}, QualityScores{}, 0)
	if err != nil {
		t.Fatalf("BuildIndex(empty): %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
	if idx.Contains(1) {
		t.Error("Contains(1) = true on empty index")
	}
	if idx.Edges(1) != nil {
		t.Error("Edges(1) != nil on empty index")
	}

	_, err = BuildIndex(PairCounts{}, nil, -1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("BuildIndex(-1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestIndex_EdgesReturnsCopy(t *testing.T) {
	t.Parallel()

	idx, err := BuildIndex(PairCounts{{Low: 1, High: 2}: 3}, nil, 0)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	edges := idx.Edges(1)
	edges[0].Candidate = 42

	if got := idx.Edges(1)[0].Candidate; got != 2 {
		t.Errorf("index mutated through Edges: candidate = %d, want 2", got)
	}
	if idx.Threshold() != 0 {
		t.Errorf("Threshold() = %d, want 0", idx.Threshold())
	}
}

// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package recommend

import (
	"sort"
)

// PairCounts maps a canonical course pair to the number of distinct users
// who purchased both courses.
type PairCounts map[CoursePair]int

// PairStat is one row of the pair statistics export.
type PairStat struct {
	Pair      CoursePair `json:"pair"`
	Frequency int        `json:"frequency"`
}

// Aggregate counts co-purchased course pairs. Each user contributes at most
// one count per pair regardless of how often or in which order the courses
// were bought. Users with fewer than two distinct courses contribute
// nothing.
func Aggregate(purchases []Purchase) PairCounts {
	userCourses := make(map[UserID]map[CourseID]struct{})
	for _, p := range purchases {
		courses, ok := userCourses[p.UserID]
		if !ok {
			courses = make(map[CourseID]struct{})
			userCourses[p.UserID] = courses
		}
		courses[p.CourseID] = struct{}{}
	}

	counts := make(PairCounts)
	for _, courseSet := range userCourses {
		if len(courseSet) < 2 {
			continue
		}
		courses := sortedIDs(courseSet)
		for i := 0; i < len(courses)-1; i++ {
			for j := i + 1; j < len(courses); j++ {
				// courses is sorted and deduplicated, so (i, j) is canonical
				counts[CoursePair{Low: courses[i], High: courses[j]}]++
			}
		}
	}
	return counts
}

// Universe returns the distinct courses present in purchases, ascending.
func Universe(purchases []Purchase) []CourseID {
	seen := make(map[CourseID]struct{}, len(purchases))
	for _, p := range purchases {
		seen[p.CourseID] = struct{}{}
	}
	return sortedIDs(seen)
}

// Sorted returns every pair by frequency descending, ties by pair
// ascending.
func (c PairCounts) Sorted() []PairStat {
	stats := make([]PairStat, 0, len(c))
	for pair, n := range c {
		stats = append(stats, PairStat{Pair: pair, Frequency: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Frequency != stats[j].Frequency {
			return stats[i].Frequency > stats[j].Frequency
		}
		return stats[i].Pair.less(stats[j].Pair)
	})
	return stats
}

// Top returns the k most frequent pairs.
func (c PairCounts) Top(k int) []PairStat {
	stats := c.Sorted()
	if k >= 0 && k < len(stats) {
		stats = stats[:k]
	}
	return stats
}

// Total returns the sum of all pair counts, i.e. the number of (user, pair)
// co-purchases.
func (c PairCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// canonicalOrder returns the pairs with count > threshold in (Low, High)
// order.
func (c PairCounts) canonicalOrder(threshold int) []CoursePair {
	pairs := make([]CoursePair, 0, len(c))
	for pair, n := range c {
		if n > threshold {
			pairs = append(pairs, pair)
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].less(pairs[j]) })
	return pairs
}

func sortedIDs(set map[CourseID]struct{}) []CourseID {
	ids := make([]CourseID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

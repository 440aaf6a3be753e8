// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package recommend

import "time"

// PurchaseStats describes a purchase snapshot.
type PurchaseStats struct {
	Rows    int `json:"rows"`
	Users   int `json:"users"`
	Courses int `json:"courses"`

	// FirstPurchase and LastPurchase are zero when no row has a time.
	FirstPurchase time.Time `json:"first_purchase"`
	LastPurchase  time.Time `json:"last_purchase"`

	// Distinct courses per user.
	MeanCoursesPerUser float64 `json:"mean_courses_per_user"`
	MaxCoursesPerUser  int     `json:"max_courses_per_user"`
}

// DescribePurchases computes PurchaseStats in memory.
func DescribePurchases(purchases []Purchase) PurchaseStats {
	stats := PurchaseStats{Rows: len(purchases)}

	perUser := make(map[UserID]map[CourseID]struct{})
	courses := make(map[CourseID]struct{})
	for _, p := range purchases {
		set, ok := perUser[p.UserID]
		if !ok {
			set = make(map[CourseID]struct{})
			perUser[p.UserID] = set
		}
		set[p.CourseID] = struct{}{}
		courses[p.CourseID] = struct{}{}

		if p.PurchasedAt.IsZero() {
			continue
		}
		if stats.FirstPurchase.IsZero() || p.PurchasedAt.Before(stats.FirstPurchase) {
			stats.FirstPurchase = p.PurchasedAt
		}
		if p.PurchasedAt.After(stats.LastPurchase) {
			stats.LastPurchase = p.PurchasedAt
		}
	}

	stats.Users = len(perUser)
	stats.Courses = len(courses)

	total := 0
	for _, set := range perUser {
		total += len(set)
		if len(set) > stats.MaxCoursesPerUser {
			stats.MaxCoursesPerUser = len(set)
		}
	}
	if stats.Users > 0 {
		stats.MeanCoursesPerUser = float64(total) / float64(stats.Users)
	}
	return stats
}

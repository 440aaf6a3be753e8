// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package query

import (
	"fmt"
	"time"
)

// Shop table and value names.
const (
	TableCarts         = "carts"
	TableCartItems     = "cart_items"
	TableCourseQuality = "course_quality"

	CartStateSuccessful = "successful"
	ResourceTypeCourse  = "Course"
)

// Purchases builds the successful-purchase query: every course bought in a
// successful cart by a user who bought at least two distinct courses,
// ordered by user then purchase time.
//
// Result columns: user_id, course_id, purchased_at.
type Purchases struct {
	Schema string

	// Since and Until bound c.purchased_at to [Since, Until). Nil means
	// unbounded.
	Since *time.Time
	Until *time.Time
}

// Build returns the SQL with "?" placeholders and its arguments.
func (p Purchases) Build() (string, []interface{}) {
	wb := NewWhereBuilder().
		AddEquals("c.state", CartStateSuccessful).
		AddEquals("ci.resource_type", ResourceTypeCourse).
		AddNotNull("ci.resource_id", "c.user_id").
		AddDateRange("c.purchased_at", p.Since, p.Until)
	where, args := wb.Build()

	sql := fmt.Sprintf(`
WITH successful_purchases AS (
	SELECT
		c.user_id,
		ci.resource_id AS course_id,
		c.purchased_at
	FROM %s c
	JOIN %s ci ON c.id = ci.cart_id
	WHERE %s
),
multi_course_users AS (
	SELECT user_id
	FROM successful_purchases
	GROUP BY user_id
	HAVING COUNT(DISTINCT course_id) > 1
)
SELECT
	CAST(sp.user_id AS BIGINT) AS user_id,
	CAST(sp.course_id AS BIGINT) AS course_id,
	sp.purchased_at
FROM successful_purchases sp
JOIN multi_course_users mu ON sp.user_id = mu.user_id
ORDER BY sp.user_id, sp.purchased_at, sp.course_id`,
		Qualified(p.Schema, TableCarts), Qualified(p.Schema, TableCartItems), where)

	return sql, args
}

// QualityScores selects course_id, quality_score from the course_quality
// table, skipping rows without a score.
func QualityScores(schema string) string {
	return fmt.Sprintf(`
SELECT
	CAST(course_id AS BIGINT) AS course_id,
	CAST(quality_score AS DOUBLE PRECISION) AS quality_score
FROM %s
WHERE course_id IS NOT NULL AND quality_score IS NOT NULL
ORDER BY course_id`,
		Qualified(schema, TableCourseQuality))
}

// PurchaseStatistics summarizes the rows of the Purchases query in one row:
// row_count, users, courses, first_purchase, last_purchase,
// mean_courses_per_user, max_courses_per_user.
func PurchaseStatistics(p Purchases) (string, []interface{}) {
	inner, args := p.Build()
	sql := fmt.Sprintf(`
WITH purchases AS (%s
),
per_user AS (
	SELECT user_id, COUNT(DISTINCT course_id) AS n
	FROM purchases
	GROUP BY user_id
)
SELECT
	(SELECT COUNT(*) FROM purchases) AS row_count,
	(SELECT COUNT(DISTINCT user_id) FROM purchases) AS users,
	(SELECT COUNT(DISTINCT course_id) FROM purchases) AS courses,
	(SELECT MIN(purchased_at) FROM purchases) AS first_purchase,
	(SELECT MAX(purchased_at) FROM purchases) AS last_purchase,
	CAST(COALESCE((SELECT AVG(n) FROM per_user), 0) AS DOUBLE PRECISION) AS mean_courses_per_user,
	COALESCE((SELECT MAX(n) FROM per_user), 0) AS max_courses_per_user`, inner)
	return sql, args
}

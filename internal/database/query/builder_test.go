// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package query

import (
	"strings"
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddDateRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		start, end *time.Time
		want       string
		wantArgs   int
	}{
		{"both bounds", &start, &end, "purchased_at >= ? AND purchased_at < ?", 2},
		{"start only", &start, nil, "purchased_at >= ?", 1},
		{"end only", nil, &end, "purchased_at < ?", 1},
		{"unbounded", nil, nil, "1=1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := NewWhereBuilder().AddDateRange("purchased_at", tt.start, tt.end).Build()
			if where != tt.want {
				t.Errorf("Build() = %q, want %q", where, tt.want)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("got %d args, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilder_Chaining(t *testing.T) {
	wb := NewWhereBuilder().
		AddEquals("c.state", "successful").
		AddNotNull("c.user_id", "ci.resource_id").
		AddClause("ci.price > ?", 0)

	where, args := wb.Build()
	want := "c.state = ? AND c.user_id IS NOT NULL AND ci.resource_id IS NOT NULL AND ci.price > ?"
	if where != want {
		t.Errorf("Build() = %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != "successful" || args[1] != 0 {
		t.Errorf("args = %v", args)
	}
	if wb.Count() != 4 {
		t.Errorf("Count() = %d, want 4", wb.Count())
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"a = ? AND b = ?", "a = $1 AND b = $2"},
		{"a = '?' AND b = ?", "a = '?' AND b = $1"},
		{"x IN (?, ?, ?)", "x IN ($1, $2, $3)"},
	}
	for _, tt := range tests {
		if got := Rebind(tt.in); got != tt.want {
			t.Errorf("Rebind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoting(t *testing.T) {
	if got := QuoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("QuoteIdent = %s", got)
	}
	if got := QuoteLiteral("it's.csv"); got != `'it''s.csv'` {
		t.Errorf("QuoteLiteral = %s", got)
	}
	if got := Qualified("final", "carts"); got != `"final"."carts"` {
		t.Errorf("Qualified = %s", got)
	}
	if got := Qualified("", "carts"); got != `"carts"` {
		t.Errorf("Qualified without schema = %s", got)
	}
}

func TestPurchases_Build(t *testing.T) {
	since := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	sql, args := Purchases{Schema: "final", Since: &since}.Build()

	for _, want := range []string{
		`FROM "final"."carts" c`,
		`JOIN "final"."cart_items" ci ON c.id = ci.cart_id`,
		"c.state = ? AND ci.resource_type = ?",
		"ci.resource_id IS NOT NULL AND c.user_id IS NOT NULL",
		"c.purchased_at >= ?",
		"HAVING COUNT(DISTINCT course_id) > 1",
		"ORDER BY sp.user_id, sp.purchased_at",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("query missing %q:\n%s", want, sql)
		}
	}

	if len(args) != 3 {
		t.Fatalf("got %d args, want 3", len(args))
	}
	if args[0] != CartStateSuccessful || args[1] != ResourceTypeCourse || args[2] != since {
		t.Errorf("args = %v", args)
	}

	if strings.Count(Rebind(sql), "$") != 3 {
		t.Errorf("Rebind produced wrong placeholder count:\n%s", Rebind(sql))
	}
}

func TestQualityScores(t *testing.T) {
	got := QualityScores("final")
	if !strings.Contains(got, `FROM "final"."course_quality"`) {
		t.Errorf("QualityScores = %s", got)
	}
}

func TestPurchaseStatistics(t *testing.T) {
	sql, args := PurchaseStatistics(Purchases{Schema: "shop"})
	if !strings.Contains(sql, `FROM "shop"."carts" c`) {
		t.Errorf("statistics query does not wrap the purchase query:\n%s", sql)
	}
	if !strings.Contains(sql, "AS max_courses_per_user") {
		t.Errorf("statistics query missing columns:\n%s", sql)
	}
	if len(args) != 2 {
		t.Errorf("got %d args, want 2", len(args))
	}
}

// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

/*
Package query builds the SQL shared by the DuckDB and Postgres purchase
sources.

Both sources run the same successful-purchase query against a shop schema
holding carts and cart_items. Literal filter values are bound as
parameters; DuckDB uses "?" placeholders and Postgres uses "$n", so the
Postgres source passes the built SQL through Rebind:

	sql, args := query.Purchases{Schema: "final"}.Build()
	rows, err := pool.Query(ctx, query.Rebind(sql), args...)

Identifiers such as the schema name cannot be parameters and are quoted
with QuoteIdent instead.
*/
package query

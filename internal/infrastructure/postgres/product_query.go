package postgres

import (
	"fmt"
	"strings"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
)

const productColumns = `id, name, description, category, price, rating, user_id::text, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into an ILIKE pattern matching it as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// listQuery is the SQL for one listing request: a count over every matching
// row and a page select sharing the same WHERE clause.
type listQuery struct {
	countSQL  string
	countArgs []any
	pageSQL   string
	pageArgs  []any
}

func buildListQuery(f entity.ProductFilter) listQuery {
	f.Normalize()

	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Search != "" {
		add("name ILIKE $%d", containsPattern(f.Search))
	}
	if f.Category != "" {
		add("category ILIKE $%d", containsPattern(f.Category))
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.MinRating != nil {
		add("rating >= $%d", *f.MinRating)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// Column and direction come from closed enums, never from raw input.
	dir := "DESC"
	if f.SortOrder == entity.SortAsc {
		dir = "ASC"
	}
	order := fmt.Sprintf(" ORDER BY %s %s", f.SortBy.Column(), dir)
	if f.SortBy != entity.SortByID {
		order += ", id " + dir
	}

	pageArgs := append(append([]any{}, args...), f.Limit, f.Offset())
	n := len(args)
	return listQuery{
		countSQL:  "SELECT COUNT(*) FROM products" + where,
		countArgs: args,
		pageSQL: "SELECT " + productColumns + " FROM products" + where + order +
			fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2),
		pageArgs: pageArgs,
	}
}

// buildUpdate renders a conditional update touching only the fields set in patch.
// The last two placeholders are the product id and the owner id.
func buildUpdate(id, ownerID string, patch entity.ProductPatch) (string, []any) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Rating != nil {
		set("rating", *patch.Rating)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id, ownerID)
	n := len(args)
	sql := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), n-1, n, productColumns)
	return sql, args
}

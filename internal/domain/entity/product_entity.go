package entity

import (
	"errors"
	"strings"
	"time"
)

// Product is a catalog item owned by the user who created it.
// UserID is nil for rows that predate ownership.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	UserID      *string   `json:"user_id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnedBy reports whether u may mutate the product.
func (p *Product) OwnedBy(u *User) bool {
	if p == nil || u == nil || p.UserID == nil {
		return false
	}
	return *p.UserID == u.ID
}

// ProductPatch holds the fields of a partial update; nil means unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Rating      *float64
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.Price == nil && p.Rating == nil
}

// Apply copies the set fields onto prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Rating != nil {
		prod.Rating = *p.Rating
	}
}

var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)

// SortField is one of the sortable product attributes.
type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByCategory  SortField = "category"
	SortByPrice     SortField = "price"
	SortByRating    SortField = "rating"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

var sortColumns = map[SortField]string{
	SortByID:        "id",
	SortByName:      "name",
	SortByCategory:  "category",
	SortByPrice:     "price",
	SortByRating:    "rating",
	SortByCreatedAt: "created_at",
	SortByUpdatedAt: "updated_at",
}

// SortFieldNames lists the accepted sortBy values in a stable order.
func SortFieldNames() []string {
	return []string{"id", "name", "category", "price", "rating", "createdAt", "updatedAt"}
}

// ParseSortField resolves a client-supplied sortBy value. Empty means id.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortByID, nil
	}
	f := SortField(s)
	if _, ok := sortColumns[f]; !ok {
		return "", ErrInvalidSortField
	}
	return f, nil
}

// Column returns the storage column for the field.
func (f SortField) Column() string {
	if c, ok := sortColumns[f]; ok {
		return c
	}
	return sortColumns[SortByID]
}

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder accepts ASC or DESC in any case. Empty means DESC.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return SortDesc, nil
	case "ASC":
		return SortAsc, nil
	case "DESC":
		return SortDesc, nil
	}
	return "", ErrInvalidSortOrder
}

const (
	DefaultPage  = 1
	DefaultLimit = 8
	MaxLimit     = 100
)

// ProductFilter describes one page of a filtered product listing.
// Nil bounds are not applied.
type ProductFilter struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	SortBy    SortField
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Normalize fills defaults for unset paging and sorting.
func (f *ProductFilter) Normalize() {
	if f.SortBy == "" {
		f.SortBy = SortByID
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
}

// Offset is the number of matching rows skipped before the page.
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ProductPage is one page of a listing plus the unpaginated match count.
type ProductPage struct {
	Data  []*Product `json:"data"`
	Total int64      `json:"total"`
}

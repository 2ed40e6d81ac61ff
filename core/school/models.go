package school

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core/table"
)

var ErrNotFound = errors.New("school not found")

// School mirrors the backend resource; referenced by admins and classes via id.
type School struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Cache is the reference-data store for schools. It never fetches by itself:
// pages populate it explicitly, and the data is only as fresh as the last
// Replace.
type Cache interface {
	ReplaceSchools(ctx context.Context, schools []School) error
	Schools(ctx context.Context) ([]School, error)
}

// Names returns the unique school names, sorted.
func Names(schools []School) []string {
	seen := make(map[string]struct{}, len(schools))
	names := make([]string, 0, len(schools))
	for _, sch := range schools {
		if _, ok := seen[sch.Name]; ok {
			continue
		}
		seen[sch.Name] = struct{}{}
		names = append(names, sch.Name)
	}
	sort.Strings(names)
	return names
}

// ByID finds a school in a cached list.
func ByID(schools []School, id int) (School, error) {
	for _, sch := range schools {
		if sch.ID == id {
			return sch, nil
		}
	}
	return School{}, ErrNotFound
}

// AddressOf returns the school's address, or "" when unknown. Used by the
// wizards' derived read-only address field.
func AddressOf(schools []School, id int) string {
	sch, err := ByID(schools, id)
	if err != nil {
		return ""
	}
	return sch.Address
}

// QueryFilter narrows the school management list.
type QueryFilter struct {
	Search string `query:"search"`
}

// Filter does a case-insensitive substring match on name or address.
func Filter(schools []School, filter QueryFilter) []School {
	out := make([]School, 0, len(schools))
	for _, sch := range schools {
		if !table.MatchesSearch(filter.Search, sch.Name, sch.Address) {
			continue
		}
		out = append(out, sch)
	}
	return out
}

// NewSchool contains information needed to create a new School.
type NewSchool struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// UpdateSchool defines what may be modified on an existing School.
// Empty fields are left unchanged.
type UpdateSchool struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

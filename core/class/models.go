package class

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core/table"
)

var ErrNotFound = errors.New("class not found")

// Subject is fixed: the platform serves a single subject domain.
const Subject = "Matematika"

// Grade levels, in school order.
var Levels = []string{"I", "II", "III", "IV", "V", "VI"}

func levelIndex(level string) int {
	for i, l := range Levels {
		if l == level {
			return i
		}
	}
	return len(Levels)
}

// Class mirrors the backend resource. StudentCount is derived server-side.
type Class struct {
	ID           int    `json:"id"`
	SekolahID    int    `json:"sekolah_id"`
	Name         string `json:"name"`
	Level        string `json:"level"`
	Rombel       string `json:"rombel"`
	Subject      string `json:"subject"`
	AcademicYear string `json:"academic_year"`
	StudentCount int    `json:"student_count"`
}

// Cache is the reference-data store for classes; populated explicitly by
// pages, fresh only as of the last Replace.
type Cache interface {
	ReplaceClasses(ctx context.Context, classes []Class) error
	Classes(ctx context.Context) ([]Class, error)
}

// LevelsFor returns the grade levels that have at least one class in the
// given school, in school order. Feeds the dependent level dropdown.
func LevelsFor(classes []Class, sekolahID int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(Levels))
	for _, cls := range classes {
		if cls.SekolahID != sekolahID {
			continue
		}
		if _, ok := seen[cls.Level]; ok {
			continue
		}
		seen[cls.Level] = struct{}{}
		out = append(out, cls.Level)
	}
	sort.Slice(out, func(i, j int) bool { return levelIndex(out[i]) < levelIndex(out[j]) })
	return out
}

// RombelsFor returns the sections available for a school+level pair, sorted.
// Feeds the dependent rombel dropdown.
func RombelsFor(classes []Class, sekolahID int, level string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 4)
	for _, cls := range classes {
		if cls.SekolahID != sekolahID || cls.Level != level {
			continue
		}
		if _, ok := seen[cls.Rombel]; ok {
			continue
		}
		seen[cls.Rombel] = struct{}{}
		out = append(out, cls.Rombel)
	}
	sort.Strings(out)
	return out
}

// QueryFilter narrows the class management list. Search matches name, level
// or rombel; Level is an exact categorical filter; both compose with AND.
type QueryFilter struct {
	Search string `query:"search"`
	Level  string `query:"level"`
}

// Filter applies the AND of the available QueryFilter fields over an
// in-memory list. An empty result is an empty slice, never nil.
func Filter(classes []Class, filter QueryFilter) []Class {
	out := make([]Class, 0, len(classes))
	for _, cls := range classes {
		if filter.Level != "" && cls.Level != filter.Level {
			continue
		}
		if !table.MatchesSearch(filter.Search, cls.Name, cls.Level, cls.Rombel) {
			continue
		}
		out = append(out, cls)
	}
	return out
}

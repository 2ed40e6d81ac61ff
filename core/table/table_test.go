package table

import "testing"

func TestPaginate_boundaries(t *testing.T) {
	tests := []struct {
		name           string
		total, page    int
		wantPage       int
		wantLo, wantHi int
		wantPages      int
	}{
		{name: "page 1 of 25", total: 25, page: 1, wantPage: 1, wantLo: 0, wantHi: 10, wantPages: 3},
		{name: "page 2 of 25", total: 25, page: 2, wantPage: 2, wantLo: 10, wantHi: 20, wantPages: 3},
		{name: "last page holds the remainder", total: 25, page: 3, wantPage: 3, wantLo: 20, wantHi: 25, wantPages: 3},
		{name: "page 0 clamps to 1", total: 25, page: 0, wantPage: 1, wantLo: 0, wantHi: 10, wantPages: 3},
		{name: "page 4 clamps to 3", total: 25, page: 4, wantPage: 3, wantLo: 20, wantHi: 25, wantPages: 3},
		{name: "negative page clamps to 1", total: 25, page: -7, wantPage: 1, wantLo: 0, wantHi: 10, wantPages: 3},
		{name: "empty list still has one page", total: 0, page: 5, wantPage: 1, wantLo: 0, wantHi: 0, wantPages: 1},
		{name: "exact multiple", total: 20, page: 2, wantPage: 2, wantLo: 10, wantHi: 20, wantPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.total, tt.page, 10)
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d; want %d", p.Page, tt.wantPage)
			}
			if got := p.Pages(); got != tt.wantPages {
				t.Errorf("Pages() = %d; want %d", got, tt.wantPages)
			}
			lo, hi := p.Bounds()
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("Bounds() = (%d, %d); want (%d, %d)", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestMatchesSearch(t *testing.T) {
	tests := []struct {
		name   string
		search string
		fields []string
		want   bool
	}{
		{name: "empty search matches all", search: "", fields: []string{"anything"}, want: true},
		{name: "case-insensitive", search: "SARI", fields: []string{"Bu Sari", "sari@adaptivin.id"}, want: true},
		{name: "substring", search: "adapt", fields: []string{"x", "sari@adaptivin.id"}, want: true},
		{name: "no match", search: "zzz", fields: []string{"Bu Sari"}, want: false},
		{name: "no fields", search: "a", fields: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesSearch(tt.search, tt.fields...); got != tt.want {
				t.Errorf("MatchesSearch(%q, %v) = %v; want %v", tt.search, tt.fields, got, tt.want)
			}
		})
	}
}

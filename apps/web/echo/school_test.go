package echoweb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adaptivin/adaptivin-admin/core/school"
)

func schoolBackend(schools []school.School) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/schools", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fakeEnvelope(w, http.StatusOK, schools, "")
		case http.MethodPost:
			var ns school.NewSchool
			_ = json.NewDecoder(r.Body).Decode(&ns)
			fakeEnvelope(w, http.StatusCreated, school.School{ID: 99, Name: ns.Name, Address: ns.Address}, "")
		}
	})
	mux.HandleFunc("/schools/", func(w http.ResponseWriter, r *http.Request) {
		fakeEnvelope(w, http.StatusOK, nil, "")
	})
	return mux
}

func manySchools(n int) []school.School {
	schools := make([]school.School, 0, n)
	for i := 1; i <= n; i++ {
		schools = append(schools, school.School{ID: i, Name: fmt.Sprintf("SDN %02d", i), Address: "Jl. Melati"})
	}
	return schools
}

func TestSchoolList(t *testing.T) {
	app := newTestApp(t, schoolBackend(manySchools(25)))
	sess := app.openSession(t, superadminAccount())

	type listBody struct {
		Items      []school.School `json:"items"`
		Pagination struct {
			Page    int `json:"page"`
			PerPage int `json:"per_page"`
			Total   int `json:"total"`
		} `json:"pagination"`
	}

	tests := []struct {
		name      string
		query     string
		wantLen   int
		wantPage  int
		wantTotal int
	}{
		{name: "first page", query: "", wantLen: 10, wantPage: 1, wantTotal: 25},
		{name: "last page is short", query: "?page=3", wantLen: 5, wantPage: 3, wantTotal: 25},
		{name: "page zero clamps to first", query: "?page=0", wantLen: 10, wantPage: 1, wantTotal: 25},
		{name: "page beyond end clamps to last", query: "?page=99", wantLen: 5, wantPage: 3, wantTotal: 25},
		{name: "search narrows", query: "?search=sdn+01", wantLen: 1, wantPage: 1, wantTotal: 1},
		{name: "search misses", query: "?search=zzz", wantLen: 0, wantPage: 1, wantTotal: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newSessionRequest(http.MethodGet, "/kelola-sekolah"+tt.query, sess)
			app.server.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			var body listBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			assert.Len(t, body.Items, tt.wantLen)
			assert.Equal(t, tt.wantPage, body.Pagination.Page)
			assert.Equal(t, tt.wantTotal, body.Pagination.Total)
		})
	}
}

func TestSchoolCreate(t *testing.T) {
	app := newTestApp(t, schoolBackend(nil))
	sess := app.openSession(t, superadminAccount())

	t.Run("ok", func(t *testing.T) {
		body := marshallObj(t, school.NewSchool{Name: "SD Harapan Bangsa", Address: "Jl. Merdeka No. 1"})
		req, rec := newSessionRequest(http.MethodPost, "/kelola-sekolah", sess, body)
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		body := marshallObj(t, school.NewSchool{Name: "SD Harapan Bangsa"})
		req, rec := newSessionRequest(http.MethodPost, "/kelola-sekolah", sess, body)
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "address")
	})
}

func TestSchoolDestroy_confirmation(t *testing.T) {
	app := newTestApp(t, schoolBackend(nil))
	sess := app.openSession(t, superadminAccount())

	// first round-trip: no confirm flag
	req, rec := newSessionRequest(http.MethodDelete, "/kelola-sekolah/3", sess)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// after the user's explicit yes
	req, rec = newSessionRequest(http.MethodDelete, "/kelola-sekolah/3?confirm=true", sess)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

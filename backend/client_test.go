package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/admin"
	"github.com/adaptivin/adaptivin-admin/core/school"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{Backend: core.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}}
	tokens := TokenFunc(func(ctx context.Context) (string, error) { return "canonical-token", nil })
	client, err := NewClient(conf, tokens, nil)
	if err != nil {
		t.Fatal(err)
	}
	return client, srv
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, message string) {
	verdict := "error"
	if status >= 200 && status < 300 {
		verdict = "success"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status >= 200 && status < 300,
		"status":  verdict,
		"data":    data,
		"message": message,
	})
}

func TestClient_signing(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, []school.School{}, "")
	}))

	_, err := client.Schools(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Bearer canonical-token", gotAuth)
}

func TestClient_envelopeUnwrapping(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []school.School{
			{ID: 1, Name: "SDN Melati 01", Address: "Jl. Melati No. 4"},
		}, "")
	}))

	schools, err := client.Schools(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []school.School{{ID: 1, Name: "SDN Melati 01", Address: "Jl. Melati No. 4"}}, schools)
}

// The backend sends status as a word, not the HTTP code; pin the exact wire
// shape so the envelope type cannot drift back to a numeric field.
func TestClient_envelopeWireShape(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"status":"success","data":[{"id":1,"name":"SDN Melati 01","address":"Jl. Melati No. 4"}],"message":""}`)
	}))

	schools, err := client.Schools(context.Background())
	assert.NoError(t, err)
	assert.Len(t, schools, 1)
	assert.Equal(t, "SDN Melati 01", schools[0].Name)
}

func TestClient_apiError(t *testing.T) {
	t.Run("non-2xx with message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusNotFound, nil, "sekolah tidak ditemukan")
		}))

		err := client.DeleteSchool(context.Background(), 99)
		var apiErr *APIError
		if assert.ErrorAs(t, err, &apiErr) {
			assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
			assert.Equal(t, "sekolah tidak ditemukan", apiErr.Message)
		}
		assert.True(t, IsNotFound(err))
	})

	t.Run("success=false on a 200", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"success":false,"status":"error","message":"quota exceeded"}`)
		}))

		_, err := client.Schools(context.Background())
		var apiErr *APIError
		if assert.ErrorAs(t, err, &apiErr) {
			assert.Equal(t, "quota exceeded", apiErr.Message)
		}
	})

	t.Run("non-JSON error body", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))

		_, err := client.Schools(context.Background())
		var apiErr *APIError
		if assert.ErrorAs(t, err, &apiErr) {
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		}
	})
}

func TestClient_login(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login must not be signed")

		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["password"] != "Kunci#Rahasia9" {
			writeEnvelope(w, http.StatusUnauthorized, nil, "email atau kata sandi salah")
			return
		}
		writeEnvelope(w, http.StatusOK, loginData{
			Token: "issued-token",
			User:  admin.Admin{ID: 7, Email: payload["email"], Role: admin.RoleAdmin, SekolahID: 3},
		}, "")
	}))

	adm, token, err := client.Login(context.Background(), "sari@adaptivin.id", "Kunci#Rahasia9")
	assert.NoError(t, err)
	assert.Equal(t, "issued-token", token)
	assert.Equal(t, 7, adm.ID)

	_, _, err = client.Login(context.Background(), "sari@adaptivin.id", "wrong")
	var apiErr *APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	}
}

func TestClient_logoutUsesGivenToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, nil, "")
	}))

	err := client.Logout(context.Background(), "session-token")
	assert.NoError(t, err)
	assert.Equal(t, "Bearer session-token", gotAuth)
}

func TestClient_queryFilters(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, []interface{}{}, "")
	}))

	_, err := client.Users(context.Background(), "guru", 3)
	assert.NoError(t, err)
	assert.Equal(t, "role=guru&sekolah_id=3", gotQuery)

	_, err = client.Classes(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestClient_importUsers(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeEnvelope(w, http.StatusBadRequest, nil, err.Error())
			return
		}
		_, hdr, err := r.FormFile("file")
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, nil, err.Error())
			return
		}
		assert.Equal(t, "siswa.xlsx", hdr.Filename)
		assert.Equal(t, "siswa", r.URL.Query().Get("role"))
		writeEnvelope(w, http.StatusOK, ImportResult{Created: 24, Skipped: 1, Errors: []string{"row 12: NISN duplikat"}}, "")
	}))

	res, err := client.ImportUsers(context.Background(), "siswa", "siswa.xlsx", bytes.NewReader([]byte("xlsx-bytes")))
	assert.NoError(t, err)
	assert.Equal(t, 24, res.Created)
	assert.Equal(t, []string{"row 12: NISN duplikat"}, res.Errors)
}

func TestClient_importTemplate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("template-bytes"))
	}))

	buf, contentType, err := client.ImportTemplate(context.Background(), "guru")
	assert.NoError(t, err)
	assert.Equal(t, "template-bytes", string(buf))
	assert.Contains(t, contentType, "spreadsheetml")
}

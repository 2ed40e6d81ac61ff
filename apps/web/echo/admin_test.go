package echoweb

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adaptivin/adaptivin-admin/core/admin"
)

func adminBackend(t *testing.T, created *admin.NewAdmin) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admins", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fakeEnvelope(w, http.StatusOK, []admin.Admin{}, "")
		case http.MethodPost:
			var na admin.NewAdmin
			if err := json.NewDecoder(r.Body).Decode(&na); err != nil {
				t.Errorf("decoding NewAdmin: %v", err)
			}
			if created != nil {
				*created = na
			}
			fakeEnvelope(w, http.StatusCreated, admin.Admin{
				ID: 9, Name: na.Name, Email: na.Email, Role: na.Role, SekolahID: na.SekolahID,
			}, "")
		}
	})
	mux.HandleFunc("/admins/", func(w http.ResponseWriter, r *http.Request) {
		fakeEnvelope(w, http.StatusOK, nil, "")
	})
	return mux
}

func adminForm() admin.Form {
	return admin.Form{
		Name:            "Bu Rina",
		Gender:          admin.GenderFemale,
		Address:         "Jl. Kenanga No. 7",
		Role:            admin.RoleAdmin,
		SekolahID:       3,
		Email:           "rina@adaptivin.id",
		Password:        "Kunci#Rahasia9",
		PasswordConfirm: "Kunci#Rahasia9",
	}
}

func TestAdminCreate(t *testing.T) {
	t.Run("sends the credential email", func(t *testing.T) {
		var created admin.NewAdmin
		app := newTestApp(t, adminBackend(t, &created))
		seedSchools(t, app)
		sess := app.openSession(t, superadminAccount())

		req, rec := newSessionRequest(http.MethodPost, "/kelola-admin", sess, marshallObj(t, adminForm()))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "rina@adaptivin.id", created.Email)

		if assert.Len(t, app.email.sent, 1) {
			msg := app.email.sent[0]
			assert.Equal(t, "rina@adaptivin.id", msg.To[0].Address)
			assert.Equal(t, "admin-credentials", msg.TemplateName)
		}
	})

	t.Run("weak password never reaches the backend", func(t *testing.T) {
		app := newTestApp(t, adminBackend(t, nil))
		seedSchools(t, app)
		sess := app.openSession(t, superadminAccount())

		form := adminForm()
		form.Password, form.PasswordConfirm = "12345678", "12345678"
		req, rec := newSessionRequest(http.MethodPost, "/kelola-admin", sess, marshallObj(t, form))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "password")
		assert.Empty(t, app.email.sent)
	})

	t.Run("superadmin form needs no school", func(t *testing.T) {
		var created admin.NewAdmin
		app := newTestApp(t, adminBackend(t, &created))
		seedSchools(t, app)
		sess := app.openSession(t, superadminAccount())

		form := adminForm()
		form.Role = admin.RoleSuperadmin
		form.SekolahID = 0
		req, rec := newSessionRequest(http.MethodPost, "/kelola-admin", sess, marshallObj(t, form))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 0, created.SekolahID)
	})
}

func TestAdminDestroy(t *testing.T) {
	app := newTestApp(t, adminBackend(t, nil))
	sess := app.openSession(t, superadminAccount())

	t.Run("needs confirmation", func(t *testing.T) {
		req, rec := newSessionRequest(http.MethodDelete, "/kelola-admin/9", sess)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("cannot delete own account", func(t *testing.T) {
		req, rec := newSessionRequest(http.MethodDelete, "/kelola-admin/1?confirm=true", sess)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newSessionRequest(http.MethodDelete, "/kelola-admin/9?confirm=true", sess)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

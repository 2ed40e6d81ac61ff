package admin

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/adaptivin/adaptivin-admin/core"
)

func newTestValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func addressOf(id int) string {
	if id == 3 {
		return "Jl. Merdeka No. 1, Bandung"
	}
	return ""
}

func validForm() *Form {
	return &Form{
		Name:            "Bu Sari",
		Gender:          GenderFemale,
		Address:         "Jl. Kenanga No. 7, Bandung",
		Role:            RoleAdmin,
		SekolahID:       3,
		Email:           "sari@adaptivin.id",
		Password:        "Kunci#Rahasia9",
		PasswordConfirm: "Kunci#Rahasia9",
	}
}

func runToStep(t *testing.T, w interface{ Next() bool; Step() int }, step int) {
	t.Helper()
	for w.Step() < step {
		if !w.Next() {
			t.Fatalf("could not advance past step %d", w.Step())
		}
	}
}

func TestWizard_create(t *testing.T) {
	validate, translator := newTestValidator(t)
	form := validForm()
	w := NewWizard(validate, translator, form, addressOf)

	runToStep(t, w, 4)

	if form.SchoolAddress != "Jl. Merdeka No. 1, Bandung" {
		t.Errorf("SchoolAddress = %q", form.SchoolAddress)
	}

	var saved bool
	if err := w.Submit(CredentialsStep, func() error { saved = true; return nil }); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !saved {
		t.Error("onSave was not called")
	}
}

func TestWizard_schoolAssignment(t *testing.T) {
	validate, translator := newTestValidator(t)

	t.Run("school admin needs a school", func(t *testing.T) {
		form := validForm()
		form.SekolahID = 0
		w := NewWizard(validate, translator, form, addressOf)
		w.Next()
		if w.Next() {
			t.Fatal("school step should fail without a school")
		}
		if _, ok := w.FieldErrors()["sekolah_id"]; !ok {
			t.Errorf("field errors = %v; want a sekolah_id entry", w.FieldErrors())
		}
	})

	t.Run("superadmin is global", func(t *testing.T) {
		form := validForm()
		form.Role = RoleSuperadmin
		form.SekolahID = 42 // stale selection from a previous role choice
		w := NewWizard(validate, translator, form, addressOf)
		w.Next()
		if !w.Next() {
			t.Fatalf("school step should pass for a superadmin; errors = %v", w.FieldErrors())
		}
		if form.SekolahID != 0 || form.SchoolAddress != "" {
			t.Errorf("superadmin kept a school assignment: %+v", form)
		}
	})

	t.Run("backend role sneaking in", func(t *testing.T) {
		form := validForm()
		form.Role = "siswa"
		w := NewWizard(validate, translator, form, addressOf)
		w.Next()
		if w.Next() {
			t.Fatal("school step should reject a non-dashboard role")
		}
	})
}

func TestWizard_credentials(t *testing.T) {
	validate, translator := newTestValidator(t)

	t.Run("create requires a password", func(t *testing.T) {
		form := validForm()
		form.Password, form.PasswordConfirm = "", ""
		w := NewWizard(validate, translator, form, addressOf)
		runToStep(t, w, 3)
		if w.Next() {
			t.Fatal("credentials step should fail without a password")
		}
		if _, ok := w.FieldErrors()["password"]; !ok {
			t.Errorf("field errors = %v; want a password entry", w.FieldErrors())
		}
	})

	t.Run("edit treats blank as unchanged", func(t *testing.T) {
		form := FormFor(Admin{
			ID: 7, Name: "Bu Sari", Gender: GenderFemale, Address: "Jl. Kenanga No. 7",
			Role: RoleAdmin, SekolahID: 3, Email: "sari@adaptivin.id",
		})
		w := NewWizard(validate, translator, form, addressOf)
		runToStep(t, w, 4)
		if err := w.Submit(CredentialsStep, func() error { return nil }); err != nil {
			t.Errorf("Submit() error = %v", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		form := validForm()
		form.Password, form.PasswordConfirm = "12345678", "12345678"
		w := NewWizard(validate, translator, form, addressOf)
		runToStep(t, w, 3)
		if w.Next() {
			t.Fatal("credentials step should fail on an all-numeric password")
		}
	})

	t.Run("mismatched confirmation rejected", func(t *testing.T) {
		form := validForm()
		form.PasswordConfirm = "Different#9x"
		w := NewWizard(validate, translator, form, addressOf)
		runToStep(t, w, 3)
		if w.Next() {
			t.Fatal("credentials step should fail on a mismatched confirmation")
		}
	})
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name string
		pwd  string
		ok   bool
	}{
		{name: "ok", pwd: "Kunci#Rahasia9", ok: true},
		{name: "too short", pwd: "K#r9a", ok: false},
		{name: "whitespace", pwd: "Kunci #Rahasia9", ok: false},
		{name: "all numeric", pwd: "123456789", ok: false},
		{name: "no special", pwd: "KunciRahasia9", ok: false},
		{name: "similar to email", pwd: "sari@adaptivin.id", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.pwd, "Bu Sari", "sari@adaptivin.id")
			if (err == nil) != tt.ok {
				t.Errorf("ValidatePassword(%q) error = %v; want ok=%v", tt.pwd, err, tt.ok)
			}
		})
	}
}

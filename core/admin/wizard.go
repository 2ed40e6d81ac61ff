package admin

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/wizard"
)

// Form backs the admin creation/edit wizard: personal info -> school
// assignment -> login credentials -> confirmation. SchoolAddress is derived
// from the selected school and read-only for the user.
type Form struct {
	ID              int    `json:"id"`
	Name            string `json:"name" validate:"required"`
	Gender          string `json:"gender" validate:"required,oneof=L P"`
	Address         string `json:"address" validate:"required"`
	Role            string `json:"role" validate:"required,allowedrole"`
	SekolahID       int    `json:"sekolah_id"`
	SchoolAddress   string `json:"school_address"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm" validate:"eqfield=Password"`
	Edit            bool   `json:"-"`
}

// NewAdmin is the creation payload sent to the backend.
type NewAdmin struct {
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
	Role      string `json:"role"`
	SekolahID int    `json:"sekolah_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UpdateAdmin is the edit payload; a blank Password means "leave unchanged".
type UpdateAdmin struct {
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
	Role      string `json:"role"`
	SekolahID int    `json:"sekolah_id"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

// FormFor pre-fills a form from an existing admin (edit mode). Password stays
// blank: blank means "leave unchanged" on submit.
func FormFor(adm Admin) *Form {
	return &Form{
		ID:        adm.ID,
		Name:      adm.Name,
		Gender:    adm.Gender,
		Address:   adm.Address,
		Role:      adm.Role,
		SekolahID: adm.SekolahID,
		Email:     adm.Email,
		Edit:      true,
	}
}

func (f *Form) NewAdmin() NewAdmin {
	return NewAdmin{
		Name:      core.CleanString(f.Name),
		Gender:    f.Gender,
		Address:   core.CleanString(f.Address),
		Role:      f.Role,
		SekolahID: f.SekolahID,
		Email:     core.CleanString(f.Email, true /* lower */),
		Password:  f.Password,
	}
}

func (f *Form) UpdateAdmin() UpdateAdmin {
	return UpdateAdmin{
		Name:      core.CleanString(f.Name),
		Gender:    f.Gender,
		Address:   core.CleanString(f.Address),
		Role:      f.Role,
		SekolahID: f.SekolahID,
		Email:     core.CleanString(f.Email, true /* lower */),
		Password:  f.Password,
	}
}

// CredentialsStep is the step Submit re-validates defensively.
const CredentialsStep = 3

// NewWizard builds the admin wizard. addressOf resolves a school id to its
// address from the reference cache; the derived address refreshes whenever
// the school step re-validates.
func NewWizard(validate *validator.Validate, translator ut.Translator, form *Form, addressOf func(int) string) *wizard.Wizard {
	return wizard.New(validate, translator, form,
		wizard.Step{
			Title:  "Data Pribadi",
			Fields: []string{"Name", "Gender", "Address"},
		},
		wizard.Step{
			Title:  "Penugasan Sekolah",
			Fields: []string{"Role"},
			Check: func() error {
				// superadmins are global; school admins need a school
				if form.Role == RoleSuperadmin {
					form.SekolahID = 0
					form.SchoolAddress = ""
					return nil
				}
				if form.SekolahID == 0 {
					return core.NewValidationError(nil, core.FieldError{Field: "sekolah_id", Error: "this field is required"})
				}
				form.SchoolAddress = addressOf(form.SekolahID)
				if form.SchoolAddress == "" {
					return core.NewValidationError(nil, core.FieldError{Field: "sekolah_id", Error: "unknown school"})
				}
				return nil
			},
		},
		wizard.Step{
			Title:  "Akun & Kata Sandi",
			Fields: []string{"Email", "PasswordConfirm"},
			Check: func() error {
				if form.Password == "" {
					if form.Edit {
						return nil // blank password on edit: leave unchanged
					}
					return core.NewValidationError(nil, core.FieldError{Field: "password", Error: "this field is required"})
				}
				return ValidatePassword(form.Password, form.Name, form.Email)
			},
		},
		wizard.Step{Title: "Konfirmasi"},
	)
}

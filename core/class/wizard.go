package class

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/wizard"
)

// Form backs the class creation/edit wizard. SchoolAddress is derived from
// the selected school and read-only for the user.
type Form struct {
	ID            int    `json:"id"`
	Name          string `json:"name" validate:"required"`
	Level         string `json:"level" validate:"required,oneof=I II III IV V VI"`
	Rombel        string `json:"rombel" validate:"required,alphanum,max=3"`
	SekolahID     int    `json:"sekolah_id" validate:"required,gt=0"`
	SchoolAddress string `json:"school_address"`
	AcademicYear  string `json:"academic_year" validate:"required,academicyear"`
	Edit          bool   `json:"-"`
}

// NewClass is the creation payload sent to the backend.
type NewClass struct {
	SekolahID    int    `json:"sekolah_id"`
	Name         string `json:"name"`
	Level        string `json:"level"`
	Rombel       string `json:"rombel"`
	Subject      string `json:"subject"`
	AcademicYear string `json:"academic_year"`
}

// UpdateClass is the edit payload; the owning school cannot be changed.
type UpdateClass struct {
	Name         string `json:"name"`
	Level        string `json:"level"`
	Rombel       string `json:"rombel"`
	AcademicYear string `json:"academic_year"`
}

// FormFor pre-fills a form from an existing class (edit mode).
func FormFor(cls Class) *Form {
	return &Form{
		ID:           cls.ID,
		Name:         cls.Name,
		Level:        cls.Level,
		Rombel:       cls.Rombel,
		SekolahID:    cls.SekolahID,
		AcademicYear: cls.AcademicYear,
		Edit:         true,
	}
}

func (f *Form) NewClass() NewClass {
	return NewClass{
		SekolahID:    f.SekolahID,
		Name:         core.CleanString(f.Name),
		Level:        f.Level,
		Rombel:       strings.ToUpper(core.CleanString(f.Rombel)),
		Subject:      Subject,
		AcademicYear: f.AcademicYear,
	}
}

func (f *Form) UpdateClass() UpdateClass {
	return UpdateClass{
		Name:         core.CleanString(f.Name),
		Level:        f.Level,
		Rombel:       strings.ToUpper(core.CleanString(f.Rombel)),
		AcademicYear: f.AcademicYear,
	}
}

// SchoolStep is the step Submit re-validates defensively.
const SchoolStep = 2

// NewWizard builds the class wizard: identity -> school & year -> confirmation.
// addressOf resolves a school id to its address from the reference cache; the
// derived address refreshes whenever the school step re-validates.
func NewWizard(validate *validator.Validate, translator ut.Translator, form *Form, addressOf func(int) string) *wizard.Wizard {
	return wizard.New(validate, translator, form,
		wizard.Step{
			Title:  "Identitas Kelas",
			Fields: []string{"Name", "Level", "Rombel"},
		},
		wizard.Step{
			Title:  "Sekolah & Tahun Ajaran",
			Fields: []string{"SekolahID", "AcademicYear"},
			Check: func() error {
				form.SchoolAddress = addressOf(form.SekolahID)
				if form.SchoolAddress == "" {
					return core.NewValidationError(nil, core.FieldError{Field: "sekolah_id", Error: "unknown school"})
				}
				return nil
			},
		},
		wizard.Step{Title: "Konfirmasi"},
	)
}

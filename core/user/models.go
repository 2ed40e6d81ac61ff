package user

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/table"
)

var ErrNotFound = errors.New("user not found")

// Backend user kinds managed from the dashboard.
const (
	KindTeacher = "guru"
	KindStudent = "siswa"
)

const (
	nipLen  = 18 // teacher service number
	nisnLen = 10 // national student number
)

// User is a teacher or student mirrored from the backend. Identifier holds
// the NIP (teachers) or NISN (students). Teachers may be assigned to many
// classes; students to exactly one.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	BirthDate  string `json:"birth_date"` // YYYY-MM-DD
	Address    string `json:"address"`
	Gender     string `json:"gender"`
	SekolahID  int    `json:"sekolah_id"`
	ClassIDs   []int  `json:"class_ids"`
	Kind       string `json:"role"`
}

func (u User) IsTeacher() bool { return u.Kind == KindTeacher }
func (u User) IsStudent() bool { return u.Kind == KindStudent }

// QueryFilter narrows a user management list. Search matches name or
// identifier; Gender and SekolahID are exact; all compose with AND.
type QueryFilter struct {
	Search    string `query:"search"`
	Gender    string `query:"gender"`
	SekolahID int    `query:"sekolah_id"`
}

// Filter applies the AND of the available QueryFilter fields over an
// in-memory list. An empty result is an empty slice, never nil.
func Filter(users []User, filter QueryFilter) []User {
	out := make([]User, 0, len(users))
	for _, usr := range users {
		if filter.Gender != "" && usr.Gender != filter.Gender {
			continue
		}
		if filter.SekolahID != 0 && usr.SekolahID != filter.SekolahID {
			continue
		}
		if !table.MatchesSearch(filter.Search, usr.Name, usr.Identifier) {
			continue
		}
		out = append(out, usr)
	}
	return out
}

// NewUser contains information needed to create a new teacher or student.
type NewUser struct {
	Name       string `json:"name" validate:"required"`
	Identifier string `json:"identifier" validate:"required,digits"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Address    string `json:"address" validate:"required"`
	Gender     string `json:"gender" validate:"required,oneof=L P"`
	SekolahID  int    `json:"sekolah_id" validate:"required,gt=0"`
	ClassIDs   []int  `json:"class_ids"`
	Kind       string `json:"role" validate:"required,oneof=guru siswa"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Identifier = core.CleanString(nu.Identifier)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return validateKind(nu.Kind, nu.Identifier, nu.ClassIDs)
}

// UpdateUser defines what may be modified on an existing teacher or student.
// Empty fields are left unchanged; ClassIDs of nil keeps the assignments.
type UpdateUser struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier" validate:"omitempty,digits"`
	BirthDate  string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Address    string `json:"address"`
	Gender     string `json:"gender" validate:"omitempty,oneof=L P"`
	ClassIDs   []int  `json:"class_ids"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate) error {
	uu.Name = core.CleanString(uu.Name)
	uu.Identifier = core.CleanString(uu.Identifier)

	if err := validate.Struct(uu); err != nil {
		return err
	}

	identifier := uu.Identifier
	if identifier == "" {
		identifier = origUsr.Identifier
	}
	classIDs := uu.ClassIDs
	if classIDs == nil {
		classIDs = origUsr.ClassIDs
	}
	return validateKind(origUsr.Kind, identifier, classIDs)
}

// validateKind enforces the kind-specific rules: identifier length (NIP for
// teachers, NISN for students) and students belonging to exactly one class.
func validateKind(kind, identifier string, classIDs []int) error {
	switch kind {
	case KindTeacher:
		if len(identifier) != nipLen {
			return core.NewValidationError(nil, core.FieldError{
				Field: "identifier", Error: "NIP must be 18 digits",
			})
		}
	case KindStudent:
		if len(identifier) != nisnLen {
			return core.NewValidationError(nil, core.FieldError{
				Field: "identifier", Error: "NISN must be 10 digits",
			})
		}
		if len(classIDs) != 1 {
			return core.NewValidationError(nil, core.FieldError{
				Field: "class_ids", Error: "a student belongs to exactly one class",
			})
		}
	}
	return nil
}

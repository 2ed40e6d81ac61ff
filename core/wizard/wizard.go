// Package wizard implements the linear multi-step form machine used by the
// admin and class creation forms: steps 1..N, each step validating only its
// own fields before the form may advance.
package wizard

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core"
)

var (
	// errors
	ErrNotAtFinalStep = errors.New("submit is only available on the final step")
	ErrSubmitting     = errors.New("a submission is already in progress")
	ErrStepInvalid    = errors.New("the current step has invalid fields")
)

type (
	// Step describes one wizard step: the struct fields it owns and an
	// optional extra check beyond the fields' validate tags.
	Step struct {
		Title  string
		Fields []string
		Check  func() error // may return *core.ValidationError
	}

	Wizard struct {
		steps       []Step
		data        interface{}
		validate    *validator.Validate
		translator  ut.Translator
		current     int // 1-based
		fieldErrors map[string]string
		submitting  bool
	}
)

// New returns a fresh wizard at step 1. data is the form's backing struct,
// shared with the caller; steps reference its fields by Go field name.
func New(validate *validator.Validate, translator ut.Translator, data interface{}, steps ...Step) *Wizard {
	return &Wizard{
		steps:      steps,
		data:       data,
		validate:   validate,
		translator: translator,
		current:    1,
	}
}

func (w *Wizard) Step() int                      { return w.current }
func (w *Wizard) Steps() int                     { return len(w.steps) }
func (w *Wizard) Title() string                  { return w.steps[w.current-1].Title }
func (w *Wizard) FieldErrors() map[string]string { return w.fieldErrors }
func (w *Wizard) Submitting() bool               { return w.submitting }

// Next validates the current step's fields only. On success the wizard
// advances (capped at the final step); on failure it records field-level
// errors and stays put.
func (w *Wizard) Next() bool {
	if errs := w.validateStep(w.current); len(errs) > 0 {
		w.fieldErrors = errs
		return false
	}
	w.fieldErrors = nil
	if w.current < len(w.steps) {
		w.current++
	}
	return true
}

// Back moves one step back (floored at 1) and clears errors.
func (w *Wizard) Back() {
	if w.current > 1 {
		w.current--
	}
	w.fieldErrors = nil
}

// Submit re-validates the critical step defensively, then runs save while
// holding the submitting latch. Only callable from the final step.
func (w *Wizard) Submit(criticalStep int, save func() error) error {
	if w.current != len(w.steps) {
		return ErrNotAtFinalStep
	}
	if w.submitting {
		return ErrSubmitting
	}
	if errs := w.validateStep(criticalStep); len(errs) > 0 {
		w.fieldErrors = errs
		return ErrStepInvalid
	}
	w.fieldErrors = nil

	w.submitting = true
	defer func() { w.submitting = false }()
	return save()
}

func (w *Wizard) validateStep(n int) map[string]string {
	if n < 1 || n > len(w.steps) {
		return nil
	}
	step := w.steps[n-1]
	errs := make(map[string]string)

	if len(step.Fields) > 0 {
		if err := w.validate.StructPartial(w.data, step.Fields...); err != nil {
			if vErrs, ok := err.(validator.ValidationErrors); ok {
				for _, vErr := range vErrs {
					errs[vErr.Field()] = vErr.Translate(w.translator)
				}
			} else {
				errs["__all__"] = err.Error()
			}
		}
	}
	if step.Check != nil {
		if err := step.Check(); err != nil {
			var vErr *core.ValidationError
			if errors.As(err, &vErr) {
				for fld, msg := range vErr.FieldMap() {
					errs[fld] = msg
				}
				if len(vErr.Fields) == 0 {
					errs["__all__"] = vErr.Error()
				}
			} else {
				errs["__all__"] = err.Error()
			}
		}
	}
	return errs
}

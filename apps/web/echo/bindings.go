package echoweb

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/table"
	"github.com/adaptivin/adaptivin-admin/core/wizard"
)

// listResponse is the uniform shape of the management list endpoints.
type listResponse struct {
	Items      interface{}      `json:"items"`
	Pagination table.Pagination `json:"pagination"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

var okResponse = successResponse{Success: true}

func pageParam(ctx echo.Context) int {
	var q struct {
		Page int `query:"page"`
	}
	_ = ctx.Bind(&q)
	return q.Page
}

func idParam(ctx echo.Context) (int, error) {
	var p struct {
		ID int `param:"id"`
	}
	if err := ctx.Bind(&p); err != nil || p.ID <= 0 {
		return 0, errHTTPNotFound
	}
	return p.ID, nil
}

// confirmed gates destructive endpoints: the first call comes back with 409
// and the client retries with ?confirm=true after the user's explicit yes.
func confirmed(ctx echo.Context) bool {
	return ctx.QueryParam("confirm") == "true"
}

// runWizard drives a bound form through every step and submits it, converting
// step failures into field-level validation errors.
func runWizard(w *wizard.Wizard, criticalStep int, save func() error) error {
	for w.Step() < w.Steps() {
		if !w.Next() {
			return fieldErrorsOf(w.FieldErrors())
		}
	}
	if err := w.Submit(criticalStep, save); err != nil {
		if errors.Cause(err) == wizard.ErrStepInvalid {
			return fieldErrorsOf(w.FieldErrors())
		}
		return err
	}
	return nil
}

func fieldErrorsOf(fieldErrs map[string]string) error {
	fields := make([]core.FieldError, 0, len(fieldErrs))
	for fld, msg := range fieldErrs {
		fields = append(fields, core.FieldError{Field: fld, Error: msg})
	}
	return core.NewValidationError(nil, fields...)
}

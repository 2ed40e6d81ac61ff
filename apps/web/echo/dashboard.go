package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core/user"
)

// dashboardSummary is the landing page's counters. SchoolCount is zero for
// school admins; their dashboard has no school card.
type dashboardSummary struct {
	SchoolCount  int `json:"school_count,omitempty"`
	ClassCount   int `json:"class_count"`
	TeacherCount int `json:"teacher_count"`
	StudentCount int `json:"student_count"`
}

func registerDashboardHandlers(app *echo.Echo, deps ServerDeps) {
	api := dashboardApi{deps: deps}
	app.GET("/dashboard", api.summary)
}

type dashboardApi struct {
	deps ServerDeps
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	// school admins only see their own school's numbers
	scope := 0
	if !sess.Admin.IsSuperadmin() {
		scope = sess.Admin.SekolahID
	}

	var summary dashboardSummary

	if sess.Admin.IsSuperadmin() {
		schools, err := api.deps.Backend.Schools(reqCtx)
		if err != nil {
			return errors.Wrap(err, "fetching schools")
		}
		if err = api.deps.Schools.ReplaceSchools(reqCtx, schools); err != nil {
			api.deps.Logger.Warn("caching schools", err)
		}
		summary.SchoolCount = len(schools)
	}

	classes, err := api.deps.Backend.Classes(reqCtx, scope)
	if err != nil {
		return errors.Wrap(err, "fetching classes")
	}
	if err = api.deps.Classes.ReplaceClasses(reqCtx, classes); err != nil {
		api.deps.Logger.Warn("caching classes", err)
	}
	summary.ClassCount = len(classes)

	teachers, err := api.deps.Backend.Users(reqCtx, user.KindTeacher, scope)
	if err != nil {
		return errors.Wrap(err, "fetching teachers")
	}
	summary.TeacherCount = len(teachers)

	students, err := api.deps.Backend.Users(reqCtx, user.KindStudent, scope)
	if err != nil {
		return errors.Wrap(err, "fetching students")
	}
	summary.StudentCount = len(students)

	return ctx.JSON(http.StatusOK, summary)
}

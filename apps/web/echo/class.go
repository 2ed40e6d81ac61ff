package echoweb

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core/class"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/table"
	exportsvc "github.com/adaptivin/adaptivin-admin/services/export"
)

type classApi struct {
	deps ServerDeps
}

func registerClassHandlers(app *echo.Echo, deps ServerDeps) {
	api := classApi{deps: deps}

	g := app.Group("/kelola-kelas")
	g.GET("", api.list)
	g.GET("/options", api.options)
	g.POST("", api.create)
	g.GET("/export", api.export)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

// scope returns the school id the request may see: school admins are pinned
// to their own school, superadmins pick via ?sekolah_id.
func (api *classApi) scope(ctx echo.Context) (int, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return 0, err
	}
	if !sess.Admin.IsSuperadmin() {
		return sess.Admin.SekolahID, nil
	}
	var q struct {
		SekolahID int `query:"sekolah_id"`
	}
	_ = ctx.Bind(&q)
	return q.SekolahID, nil
}

func (api *classApi) fetch(ctx echo.Context, sekolahID int) ([]class.Class, error) {
	reqCtx := ctx.Request().Context()
	classes, err := api.deps.Backend.Classes(reqCtx, sekolahID)
	if err != nil {
		return nil, errors.Wrap(err, "fetching classes")
	}
	if err = api.deps.Classes.ReplaceClasses(reqCtx, classes); err != nil {
		api.deps.Logger.Warn("caching classes", err)
	}
	return classes, nil
}

func (api *classApi) list(ctx echo.Context) error {
	scope, err := api.scope(ctx)
	if err != nil {
		return err
	}

	var filter class.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	classes, err := api.fetch(ctx, scope)
	if err != nil {
		return err
	}

	matched := class.Filter(classes, filter)
	pg := table.Paginate(len(matched), pageParam(ctx), api.deps.Conf.ItemsPerPage)
	lo, hi := pg.Bounds()

	return ctx.JSON(http.StatusOK, listResponse{Items: matched[lo:hi], Pagination: pg})
}

// classOptions feeds the wizard dropdowns: the selectable schools and, for
// the chosen school, its levels and rombels.
type classOptions struct {
	Schools []school.School `json:"schools"`
	Levels  []string        `json:"levels"`
	Rombels []string        `json:"rombels"`
}

func (api *classApi) options(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var q struct {
		SekolahID int    `query:"sekolah_id"`
		Level     string `query:"level"`
	}
	_ = ctx.Bind(&q)

	schools, err := api.deps.Schools.Schools(reqCtx)
	if err != nil {
		return errors.Wrap(err, "reading school cache")
	}
	classes, err := api.deps.Classes.Classes(reqCtx)
	if err != nil {
		return errors.Wrap(err, "reading class cache")
	}

	opts := classOptions{Schools: schools, Levels: []string{}, Rombels: []string{}}
	if q.SekolahID != 0 {
		opts.Levels = class.LevelsFor(classes, q.SekolahID)
		if q.Level != "" {
			opts.Rombels = class.RombelsFor(classes, q.SekolahID, q.Level)
		}
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (api *classApi) bindForm(ctx echo.Context, edit bool) (*class.Form, func(int) string, error) {
	form := new(class.Form)
	if err := ctx.Bind(form); err != nil {
		return nil, nil, errors.Wrap(err, "binding to class Form")
	}
	form.Edit = edit

	// school admins create classes in their own school only
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Admin.IsSuperadmin() {
		form.SekolahID = sess.Admin.SekolahID
	}

	schools, err := api.deps.Schools.Schools(ctx.Request().Context())
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading school cache")
	}
	addressOf := func(id int) string { return school.AddressOf(schools, id) }
	return form, addressOf, nil
}

func (api *classApi) create(ctx echo.Context) error {
	form, addressOf, err := api.bindForm(ctx, false)
	if err != nil {
		return err
	}

	var cls class.Class
	w := class.NewWizard(api.deps.Validate, api.deps.Translator, form, addressOf)
	err = runWizard(w, class.SchoolStep, func() error {
		var saveErr error
		cls, saveErr = api.deps.Backend.CreateClass(ctx.Request().Context(), form.NewClass())
		return errors.Wrap(saveErr, "creating class")
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	form, addressOf, err := api.bindForm(ctx, true)
	if err != nil {
		return err
	}

	var cls class.Class
	w := class.NewWizard(api.deps.Validate, api.deps.Translator, form, addressOf)
	err = runWizard(w, class.SchoolStep, func() error {
		var saveErr error
		cls, saveErr = api.deps.Backend.UpdateClass(ctx.Request().Context(), id, form.UpdateClass())
		return errors.Wrap(saveErr, "updating class")
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if !confirmed(ctx) {
		return errConfirmationNeeded
	}

	if err = api.deps.Backend.DeleteClass(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.JSON(http.StatusOK, okResponse)
}

func (api *classApi) export(ctx echo.Context) error {
	scope, err := api.scope(ctx)
	if err != nil {
		return err
	}
	classes, err := api.fetch(ctx, scope)
	if err != nil {
		return err
	}

	buf, err := exportsvc.WriteClasses(classes)
	if err != nil {
		return errors.Wrap(err, "exporting classes")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", exportsvc.Filename("kelola kelas")))
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}

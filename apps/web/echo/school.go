package echoweb

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/table"
	exportsvc "github.com/adaptivin/adaptivin-admin/services/export"
)

// School management is superadmin-only; the route guard already bounces
// everyone else off /kelola-sekolah.
type schoolApi struct {
	deps ServerDeps
}

func registerSchoolHandlers(app *echo.Echo, deps ServerDeps) {
	api := schoolApi{deps: deps}

	g := app.Group("/kelola-sekolah")
	g.GET("", api.list)
	g.POST("", api.create)
	g.GET("/export", api.export)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

func (api *schoolApi) fetch(ctx echo.Context) ([]school.School, error) {
	reqCtx := ctx.Request().Context()
	schools, err := api.deps.Backend.Schools(reqCtx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching schools")
	}
	if err = api.deps.Schools.ReplaceSchools(reqCtx, schools); err != nil {
		api.deps.Logger.Warn("caching schools", err)
	}
	return schools, nil
}

func (api *schoolApi) list(ctx echo.Context) error {
	var filter school.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	schools, err := api.fetch(ctx)
	if err != nil {
		return err
	}

	matched := school.Filter(schools, filter)
	pg := table.Paginate(len(matched), pageParam(ctx), api.deps.Conf.ItemsPerPage)
	lo, hi := pg.Bounds()

	return ctx.JSON(http.StatusOK, listResponse{Items: matched[lo:hi], Pagination: pg})
}

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	data.Name = core.CleanString(data.Name)
	data.Address = core.CleanString(data.Address)
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	sch, err := api.deps.Backend.CreateSchool(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating school")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data school.UpdateSchool
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchool")
	}
	data.Name = core.CleanString(data.Name)
	data.Address = core.CleanString(data.Address)

	sch, err := api.deps.Backend.UpdateSchool(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if !confirmed(ctx) {
		return errConfirmationNeeded
	}

	if err = api.deps.Backend.DeleteSchool(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting school")
	}
	return ctx.JSON(http.StatusOK, okResponse)
}

func (api *schoolApi) export(ctx echo.Context) error {
	schools, err := api.fetch(ctx)
	if err != nil {
		return err
	}

	buf, err := exportsvc.WriteSchools(schools)
	if err != nil {
		return errors.Wrap(err, "exporting schools")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", exportsvc.Filename("kelola sekolah")))
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}

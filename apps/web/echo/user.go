package echoweb

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core/table"
	"github.com/adaptivin/adaptivin-admin/core/user"
	exportsvc "github.com/adaptivin/adaptivin-admin/services/export"
)

type userApi struct {
	deps ServerDeps
}

func registerUserHandlers(app *echo.Echo, deps ServerDeps) {
	api := userApi{deps: deps}

	g := app.Group("/kelola-pengguna")
	g.GET("", api.list)
	g.POST("", api.create)
	g.GET("/export", api.export)
	g.POST("/import", api.bulkImport)
	g.GET("/import/template", api.importTemplate)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

// kindParam reads the teacher/student tab selector; teachers are the default
// tab.
func kindParam(ctx echo.Context) string {
	if ctx.QueryParam("role") == user.KindStudent {
		return user.KindStudent
	}
	return user.KindTeacher
}

func (api *userApi) scope(ctx echo.Context) (int, error) {
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

func (api *userApi) list(ctx echo.Context) error {
	scope, err := api.scope(ctx)
	if err != nil {
		return err
	}

	var filter user.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.SekolahID = 0 // scoping already happened backend-side

	users, err := api.deps.Backend.Users(ctx.Request().Context(), kindParam(ctx), scope)
	if err != nil {
		return errors.Wrap(err, "fetching users")
	}

	matched := user.Filter(users, filter)
	pg := table.Paginate(len(matched), pageParam(ctx), api.deps.Conf.ItemsPerPage)
	lo, hi := pg.Bounds()

	return ctx.JSON(http.StatusOK, listResponse{Items: matched[lo:hi], Pagination: pg})
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	// school admins create users in their own school only
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if !sess.Admin.IsSuperadmin() {
		data.SekolahID = sess.Admin.SekolahID
	}

	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, err := api.deps.Backend.CreateUser(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}

	origUsr, err := api.deps.Backend.User(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "fetching user")
	}
	if err = data.Validate(origUsr, api.deps.Validate); err != nil {
		return err
	}

	usr, err := api.deps.Backend.UpdateUser(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if !confirmed(ctx) {
		return errConfirmationNeeded
	}

	if err = api.deps.Backend.DeleteUser(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, okResponse)
}

// bulkImport passes the uploaded XLSX through to the backend, which owns the
// row-level validation.
func (api *userApi) bulkImport(ctx echo.Context) error {
	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	file, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer file.Close()

	res, err := api.deps.Backend.ImportUsers(ctx.Request().Context(), kindParam(ctx), fileHdr.Filename, file)
	if err != nil {
		return errors.Wrap(err, "importing users")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *userApi) importTemplate(ctx echo.Context) error {
	buf, contentType, err := api.deps.Backend.ImportTemplate(ctx.Request().Context(), kindParam(ctx))
	if err != nil {
		return errors.Wrap(err, "downloading template")
	}
	if contentType == "" {
		contentType = exportsvc.ContentType
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=template-%s.xlsx", kindParam(ctx)))
	return ctx.Blob(http.StatusOK, contentType, buf)
}

func (api *userApi) export(ctx echo.Context) error {
	scope, err := api.scope(ctx)
	if err != nil {
		return err
	}
	kind := kindParam(ctx)

	users, err := api.deps.Backend.Users(ctx.Request().Context(), kind, scope)
	if err != nil {
		return errors.Wrap(err, "fetching users")
	}

	buf, err := exportsvc.WriteUsers(kind, users)
	if err != nil {
		return errors.Wrap(err, "exporting users")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", exportsvc.Filename("kelola "+kind)))
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}

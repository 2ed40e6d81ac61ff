package echoweb

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/admin"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/table"
)

// Admin management is superadmin-only; the route guard already bounces
// everyone else off /kelola-admin.
type adminApi struct {
	deps ServerDeps
}

func registerAdminHandlers(app *echo.Echo, deps ServerDeps) {
	api := adminApi{deps: deps}

	g := app.Group("/kelola-admin")
	g.GET("", api.list)
	g.POST("", api.create)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

func (api *adminApi) list(ctx echo.Context) error {
	var filter admin.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	admins, err := api.deps.Backend.Admins(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching admins")
	}

	matched := admin.Filter(admins, filter)
	pg := table.Paginate(len(matched), pageParam(ctx), api.deps.Conf.ItemsPerPage)
	lo, hi := pg.Bounds()

	return ctx.JSON(http.StatusOK, listResponse{Items: matched[lo:hi], Pagination: pg})
}

func (api *adminApi) bindForm(ctx echo.Context, edit bool) (*admin.Form, func(int) string, error) {
	form := new(admin.Form)
	if err := ctx.Bind(form); err != nil {
		return nil, nil, errors.Wrap(err, "binding to admin Form")
	}
	form.Edit = edit

	schools, err := api.deps.Schools.Schools(ctx.Request().Context())
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading school cache")
	}
	addressOf := func(id int) string { return school.AddressOf(schools, id) }
	return form, addressOf, nil
}

func (api *adminApi) create(ctx echo.Context) error {
	form, addressOf, err := api.bindForm(ctx, false)
	if err != nil {
		return err
	}

	var adm admin.Admin
	w := admin.NewWizard(api.deps.Validate, api.deps.Translator, form, addressOf)
	err = runWizard(w, admin.CredentialsStep, func() error {
		var saveErr error
		adm, saveErr = api.deps.Backend.CreateAdmin(ctx.Request().Context(), form.NewAdmin())
		return errors.Wrap(saveErr, "creating admin")
	})
	if err != nil {
		return err
	}

	api.sendCredentials(adm, form.Password)
	return ctx.JSON(http.StatusCreated, adm)
}

// sendCredentials hands the new admin their login details. Fire and forget;
// the account exists either way and the superadmin sees it in the list.
func (api *adminApi) sendCredentials(adm admin.Admin, password string) {
	api.deps.Email.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: adm.Name, Address: adm.Email}},
		Subject:      "Akun Admin Anda",
		TemplateName: "admin-credentials",
		TemplateData: struct {
			Name     string
			Email    string
			Password string
			LoginURL string
		}{
			Name:     adm.Name,
			Email:    adm.Email,
			Password: password,
			LoginURL: api.deps.Conf.Server.Host + loginPath,
		},
	})
}

func (api *adminApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	form, addressOf, err := api.bindForm(ctx, true)
	if err != nil {
		return err
	}

	var adm admin.Admin
	w := admin.NewWizard(api.deps.Validate, api.deps.Translator, form, addressOf)
	err = runWizard(w, admin.CredentialsStep, func() error {
		var saveErr error
		adm, saveErr = api.deps.Backend.UpdateAdmin(ctx.Request().Context(), id, form.UpdateAdmin())
		return errors.Wrap(saveErr, "updating admin")
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, adm)
}

func (api *adminApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if !confirmed(ctx) {
		return errConfirmationNeeded
	}

	// an admin cannot delete the account they are logged in with
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if sess.Admin.ID == id {
		return core.NewValidationError(errors.New("cannot delete your own account"))
	}

	if err = api.deps.Backend.DeleteAdmin(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting admin")
	}
	return ctx.JSON(http.StatusOK, okResponse)
}

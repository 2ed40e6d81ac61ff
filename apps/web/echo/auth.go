package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core/admin"
)

type authApi struct {
	deps ServerDeps
}

func registerAuthHandlers(app *echo.Echo, deps ServerDeps) {
	api := authApi{deps: deps}

	app.POST("/masuk", api.login)
	app.POST("/keluar", api.logout)

	sg := app.Group("/pengaturan")
	sg.GET("", api.profile)
	sg.PUT("", api.updateProfile)
	sg.PUT("/kata-sandi", api.changePassword)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Admin admin.Admin `json:"admin"`
}

func (api *authApi) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	sess, err := api.deps.Sessions.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			// wrong credentials and unknown accounts read the same to the user
			return errLoginFailed
		}
		return err
	}

	setSessionCookies(ctx, api.deps.Conf, sess)
	return ctx.JSON(http.StatusOK, loginResponse{Admin: sess.Admin})
}

// logout clears the local session unconditionally: whatever the backend or the
// store says, the user ends up logged out on this browser.
func (api *authApi) logout(ctx echo.Context) error {
	if sess, ok := SessionFrom(ctx.Request().Context()); ok {
		api.deps.Sessions.Logout(ctx.Request().Context(), sess)
	}
	clearSessionCookies(ctx, api.deps.Conf)
	return ctx.JSON(http.StatusOK, okResponse)
}

func (api *authApi) profile(ctx echo.Context) error {
	adm, err := api.deps.Backend.Profile(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching profile")
	}
	return ctx.JSON(http.StatusOK, adm)
}

func (api *authApi) updateProfile(ctx echo.Context) error {
	var data backend.ProfileUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfileUpdate")
	}

	adm, err := api.deps.Backend.UpdateProfile(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}

	// keep the stored session's identity in sync
	if sess, ok := SessionFrom(ctx.Request().Context()); ok {
		sess.Admin = adm
		if err = api.deps.Sessions.Refresh(ctx.Request().Context(), sess); err != nil {
			api.deps.Logger.Warn("refreshing session after profile update", err)
		}
	}
	return ctx.JSON(http.StatusOK, adm)
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=NewPassword"`
}

func (api *authApi) changePassword(ctx echo.Context) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}

	var data changePasswordRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to changePasswordRequest")
	}
	if err = api.deps.Validate.Struct(&data); err != nil {
		return err
	}
	if err = admin.ValidatePassword(data.NewPassword, sess.Admin.Name, sess.Admin.Email); err != nil {
		return err
	}

	if err = api.deps.Backend.ChangePassword(ctx.Request().Context(), data.OldPassword, data.NewPassword); err != nil {
		return errors.Wrap(err, "changing password")
	}
	return ctx.JSON(http.StatusOK, okResponse)
}

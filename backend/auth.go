package backend

import (
	"context"

	"github.com/adaptivin/adaptivin-admin/core/admin"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	Token string      `json:"token"`
	User  admin.Admin `json:"user"`
}

// Login exchanges credentials for the account and its bearer token. Role
// checks are the session service's business, not the client's.
func (c *Client) Login(ctx context.Context, email, password string) (admin.Admin, string, error) {
	var data loginData
	err := c.doBare(ctx, "POST", "/auth/login", "", loginPayload{Email: email, Password: password}, &data)
	if err != nil {
		return admin.Admin{}, "", err
	}
	return data.User, data.Token, nil
}

// Logout invalidates the given token server-side.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doBare(ctx, "POST", "/auth/logout", token, nil, nil)
}

// ProfileUpdate defines what an admin may change about their own account.
type ProfileUpdate struct {
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

// Profile returns the logged-in admin's account.
func (c *Client) Profile(ctx context.Context) (admin.Admin, error) {
	var adm admin.Admin
	if err := c.get(ctx, "/auth/profile", nil, &adm); err != nil {
		return admin.Admin{}, err
	}
	return adm, nil
}

func (c *Client) UpdateProfile(ctx context.Context, up ProfileUpdate) (admin.Admin, error) {
	var adm admin.Admin
	if err := c.put(ctx, "/auth/profile", up, &adm); err != nil {
		return admin.Admin{}, err
	}
	return adm, nil
}

type changePasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (c *Client) ChangePassword(ctx context.Context, oldPwd, newPwd string) error {
	return c.put(ctx, "/auth/change-password", changePasswordPayload{OldPassword: oldPwd, NewPassword: newPwd}, nil)
}

package backend

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/adaptivin/adaptivin-admin/core/user"
)

// Users lists teachers or students. kind is "guru" or "siswa"; sekolahID of 0
// means all schools (superadmin view).
func (c *Client) Users(ctx context.Context, kind string, sekolahID int) ([]user.User, error) {
	query := url.Values{}
	if kind != "" {
		query.Set("role", kind)
	}
	if sekolahID != 0 {
		query.Set("sekolah_id", strconv.Itoa(sekolahID))
	}
	users := []user.User{}
	if err := c.get(ctx, "/users", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) User(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	if err := c.get(ctx, fmt.Sprintf("/users/%d", id), nil, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (c *Client) CreateUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	var usr user.User
	if err := c.post(ctx, "/users", nu, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, uu user.UpdateUser) (user.User, error) {
	var usr user.User
	if err := c.put(ctx, fmt.Sprintf("/users/%d", id), uu, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/users/%d", id))
}

// ImportResult summarizes a bulk import run on the backend side.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// ImportUsers uploads a filled-in XLSX template; the backend does the parsing
// and row-level validation.
func (c *Client) ImportUsers(ctx context.Context, kind, filename string, file io.Reader) (ImportResult, error) {
	var res ImportResult
	path := "/users/import?role=" + url.QueryEscape(kind)
	if err := c.upload(ctx, path, "file", filename, file, &res); err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

// ImportTemplate downloads the backend's XLSX template for bulk imports.
func (c *Client) ImportTemplate(ctx context.Context, kind string) ([]byte, string, error) {
	return c.download(ctx, "/users/import/template", url.Values{"role": []string{kind}})
}

package backend

import (
	"context"
	"fmt"

	"github.com/adaptivin/adaptivin-admin/core/admin"
)

func (c *Client) Admins(ctx context.Context) ([]admin.Admin, error) {
	admins := []admin.Admin{}
	if err := c.get(ctx, "/admins", nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (c *Client) CreateAdmin(ctx context.Context, na admin.NewAdmin) (admin.Admin, error) {
	var adm admin.Admin
	if err := c.post(ctx, "/admins", na, &adm); err != nil {
		return admin.Admin{}, err
	}
	return adm, nil
}

func (c *Client) UpdateAdmin(ctx context.Context, id int, ua admin.UpdateAdmin) (admin.Admin, error) {
	var adm admin.Admin
	if err := c.put(ctx, fmt.Sprintf("/admins/%d", id), ua, &adm); err != nil {
		return admin.Admin{}, err
	}
	return adm, nil
}

func (c *Client) DeleteAdmin(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/admins/%d", id))
}

package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/adaptivin/adaptivin-admin/core/class"
)

// Classes lists classes, optionally scoped to one school.
func (c *Client) Classes(ctx context.Context, sekolahID int) ([]class.Class, error) {
	var query url.Values
	if sekolahID != 0 {
		query = url.Values{"sekolah_id": []string{strconv.Itoa(sekolahID)}}
	}
	classes := []class.Class{}
	if err := c.get(ctx, "/classes", query, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Client) CreateClass(ctx context.Context, nc class.NewClass) (class.Class, error) {
	var cls class.Class
	if err := c.post(ctx, "/classes", nc, &cls); err != nil {
		return class.Class{}, err
	}
	return cls, nil
}

func (c *Client) UpdateClass(ctx context.Context, id int, uc class.UpdateClass) (class.Class, error) {
	var cls class.Class
	if err := c.put(ctx, fmt.Sprintf("/classes/%d", id), uc, &cls); err != nil {
		return class.Class{}, err
	}
	return cls, nil
}

func (c *Client) DeleteClass(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/classes/%d", id))
}

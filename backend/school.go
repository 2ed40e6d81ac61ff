package backend

import (
	"context"
	"fmt"

	"github.com/adaptivin/adaptivin-admin/core/school"
)

func (c *Client) Schools(ctx context.Context) ([]school.School, error) {
	schools := []school.School{}
	if err := c.get(ctx, "/schools", nil, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

func (c *Client) CreateSchool(ctx context.Context, ns school.NewSchool) (school.School, error) {
	var sch school.School
	if err := c.post(ctx, "/schools", ns, &sch); err != nil {
		return school.School{}, err
	}
	return sch, nil
}

func (c *Client) UpdateSchool(ctx context.Context, id int, us school.UpdateSchool) (school.School, error) {
	var sch school.School
	if err := c.put(ctx, fmt.Sprintf("/schools/%d", id), us, &sch); err != nil {
		return school.School{}, err
	}
	return sch, nil
}

func (c *Client) DeleteSchool(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/schools/%d", id))
}

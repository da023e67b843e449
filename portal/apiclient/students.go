package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListStudents(ctx context.Context, programID int) ([]User, error) {
	var students []User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/students/programs/%d/students/", programID), true, nil, &students)
	return students, err
}

func (c *Client) CreateStudent(ctx context.Context, in StudentInput) (User, error) {
	var stud User
	err := c.do(ctx, http.MethodPost, "/api/students/", true, in, &stud)
	return stud, err
}

func (c *Client) UpdateStudent(ctx context.Context, id int, in StudentInput) (User, error) {
	var stud User
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/students/%d/", id), true, in, &stud)
	return stud, err
}

func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/students/%d/", id), true, nil, nil)
}

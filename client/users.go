package client

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers returns all user accounts.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	found, err := c.do(ctx, http.MethodGet, "/users", nil, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		return []User{}, nil
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, form UserForm) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodPost, "/users", form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes username, role and optionally the password. A blank
// password keeps the current one.
func (c *Client) UpdateUser(ctx context.Context, id uint, form UserForm) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account. Deleting yourself or the last admin is
// refused by the server.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
	return err
}

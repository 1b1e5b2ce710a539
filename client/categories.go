package client

import (
	"context"
	"fmt"
	"net/http"
)

// ListCategories returns all categories, ordered by name.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	found, err := c.do(ctx, http.MethodGet, "/categories", nil, &categories)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Category{}, nil
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var category Category
	if _, err := c.do(ctx, http.MethodPost, "/categories", map[string]string{"name": name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// RenameCategory renames a category; contracts in it follow the new name.
func (c *Client) RenameCategory(ctx context.Context, id uint, name string) (*Category, error) {
	var category Category
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), map[string]string{"name": name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category. A category still referenced by
// contracts is refused with an *APIError carrying status 409.
func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
	return err
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// AdminUser is one row of the user management console.
type AdminUser struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	EmailVerified bool   `json:"emailVerified"`
	PhoneVerified bool   `json:"phoneVerified"`
}

// UserPage is the one shape user listings take on this side of the API
// boundary. Whatever variant the server emits is normalized into it on
// receipt; nothing downstream branches on response shape.
type UserPage struct {
	Items         []AdminUser
	TotalPages    int
	TotalElements int
}

// UserQuery filters and pages admin user listings.
type UserQuery struct {
	Search string
	Status string
	Page   int
	Size   int
}

// ListUsers fetches a page of users, normalizing the response shape.
func (c *Client) ListUsers(ctx context.Context, q UserQuery) (UserPage, error) {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Page > 0 {
		values.Set("page", fmt.Sprint(q.Page))
	}
	if q.Size > 0 {
		values.Set("size", fmt.Sprint(q.Size))
	}
	path := "/admin/users"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var raw json.RawMessage
	if err := c.get(ctx, path, &raw); err != nil {
		return UserPage{}, err
	}
	return normalizeUserPage(raw)
}

// normalizeUserPage folds the possible listing shapes into UserPage: a keyed
// object ({users|items|content, totalPages, totalElements}) or a bare array.
func normalizeUserPage(raw json.RawMessage) (UserPage, error) {
	var keyed struct {
		Users         []AdminUser `json:"users"`
		Items         []AdminUser `json:"items"`
		Content       []AdminUser `json:"content"`
		TotalPages    int         `json:"totalPages"`
		TotalElements int         `json:"totalElements"`
	}
	if err := json.Unmarshal(raw, &keyed); err == nil {
		items := keyed.Users
		if items == nil {
			items = keyed.Items
		}
		if items == nil {
			items = keyed.Content
		}
		if items != nil {
			page := UserPage{Items: items, TotalPages: keyed.TotalPages, TotalElements: keyed.TotalElements}
			if page.TotalElements == 0 {
				page.TotalElements = len(items)
			}
			if page.TotalPages == 0 {
				page.TotalPages = 1
			}
			return page, nil
		}
	}

	var bare []AdminUser
	if err := json.Unmarshal(raw, &bare); err != nil {
		return UserPage{}, fmt.Errorf("unrecognized user listing shape")
	}
	return UserPage{Items: bare, TotalPages: 1, TotalElements: len(bare)}, nil
}

// CreateUser adds a user through the console.
func (c *Client) CreateUser(ctx context.Context, user RegisterInput, role string) (AdminUser, error) {
	body := struct {
		RegisterInput
		Role string `json:"role"`
	}{RegisterInput: user, Role: role}
	var resp struct {
		User AdminUser `json:"user"`
	}
	if err := c.post(ctx, "/add/users", body, &resp); err != nil {
		return AdminUser{}, err
	}
	return resp.User, nil
}

// UpdateUser edits a user's profile fields and role.
func (c *Client) UpdateUser(ctx context.Context, id string, user AdminUser) (AdminUser, error) {
	var resp struct {
		User AdminUser `json:"user"`
	}
	if err := c.put(ctx, "/admin/users/"+id, user, &resp); err != nil {
		return AdminUser{}, err
	}
	return resp.User, nil
}

// DeleteUser removes a user through the console.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/delete/"+id, nil)
}

// SetUserActive suspends or reactivates a user.
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) error {
	action := "suspend"
	if active {
		action = "activate"
	}
	return c.post(ctx, "/admin/users/"+id+"/"+action, struct{}{}, nil)
}

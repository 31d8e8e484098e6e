package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	data, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", apperr.Wrap(err)
	}
	var out loginResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) CountUsers(ctx context.Context) (int, error) {
	var out struct {
		TotalUsers int `json:"totalUsers"`
	}
	if err := c.getJSON(ctx, "/auth/user-count", nil, &out); err != nil {
		return 0, err
	}
	return out.TotalUsers, nil
}

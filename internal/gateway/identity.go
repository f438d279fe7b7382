package gateway

import (
	"context"
	"fmt"
	"net/http"

	"healthbook/web/internal/models"
)

type IdentityClient struct {
	client *Client
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResult struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

func (c *IdentityClient) Register(ctx context.Context, input RegisterInput) error {
	return c.client.do(ctx, http.MethodPost, "/user/register", input, nil)
}

func (c *IdentityClient) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var result LoginResult
	if err := c.client.do(ctx, http.MethodPost, "/user/login", body, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (c *IdentityClient) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.client.do(ctx, http.MethodGet, "/user", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *IdentityClient) DeleteAccount(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodDelete, fmt.Sprintf("/user/%d", id), nil, nil)
}

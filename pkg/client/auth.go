package client

import (
	"context"
	"staybook/pkg/model"
)

// AuthClient signs users up and in. It hands the token back and never stores it.
type AuthClient struct {
	httpClient *HttpClient
}

func NewAuthClient(httpClient *HttpClient) *AuthClient {
	return &AuthClient{httpClient: httpClient}
}

func (c *AuthClient) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	resp, err := c.httpClient.POST(ctx, "/user/register", req)
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.AuthResponse](resp)
}

func (c *AuthClient) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	resp, err := c.httpClient.POST(ctx, "/user/login", req)
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.AuthResponse](resp)
}

package client

import (
	"context"
	"net/url"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
)

const profilePictureField = "profilePicture"

type UserClient struct {
	httpClient *HttpClient
}

func NewUserClient(httpClient *HttpClient) *UserClient {
	return &UserClient{httpClient: httpClient}
}

func (c *UserClient) Profile(ctx context.Context, userID string) (*model.ProfileResponse, error) {
	if err := requireID("user id", userID); err != nil {
		return nil, err
	}
	resp, err := c.httpClient.GET(ctx, "/user/profile/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.ProfileResponse](resp)
}

func (c *UserClient) UpdateProfile(ctx context.Context, form *model.ProfileForm, userID string) (*model.User, error) {
	if form == nil {
		return nil, apperrors.InvalidInput("profile form is required")
	}
	if err := requireID("user id", userID); err != nil {
		return nil, err
	}

	body := NewMultipart().
		Field("name", form.Name).
		File(profilePictureField, form.ProfilePicture)

	resp, err := c.httpClient.PUTMultipart(ctx, "/user/profile/edit/"+url.PathEscape(userID), body)
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.User](resp)
}

// ImageURL resolves a stored picture name against the server's uploads folder.
// Absolute URLs are returned unchanged.
func (c *UserClient) ImageURL(file string) string {
	if file == "" {
		return ""
	}
	if ref, err := url.Parse(file); err == nil && ref.IsAbs() {
		return file
	}
	base, err := url.Parse(c.httpClient.BaseURL)
	if err != nil {
		return file
	}
	return (&url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/uploads/" + file}).String()
}

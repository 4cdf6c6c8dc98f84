package client

import (
	"context"
	"net/url"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"strconv"
)

const (
	hotelImageField = "hotelImage"
)

type HotelClient struct {
	httpClient *HttpClient
}

func NewHotelClient(httpClient *HttpClient) *HotelClient {
	return &HotelClient{httpClient: httpClient}
}

func (c *HotelClient) List(ctx context.Context) ([]*model.Hotel, error) {
	resp, err := c.httpClient.GET(ctx, "/hotel")
	if err != nil {
		return nil, err
	}
	return decodeInto[[]*model.Hotel](resp)
}

// Get returns one hotel including its current reservation status.
func (c *HotelClient) Get(ctx context.Context, id string) (*model.Hotel, error) {
	if err := requireID("hotel id", id); err != nil {
		return nil, err
	}
	resp, err := c.httpClient.GET(ctx, "/hotel/single/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.Hotel](resp)
}

func (c *HotelClient) Create(ctx context.Context, form *model.HotelForm) (*model.Hotel, error) {
	if form == nil {
		return nil, apperrors.InvalidInput("hotel form is required")
	}
	body := NewMultipart().
		Field("name", form.Name).
		Field("type", form.Type).
		Field("city", form.City).
		Field("address", form.Address).
		Field("description", form.Description).
		Field("rating", strconv.FormatFloat(form.Rating, 'f', -1, 64)).
		Field("rooms", strconv.Itoa(form.Rooms)).
		Field("cheapestPrice", strconv.FormatFloat(form.CheapestPrice, 'f', -1, 64)).
		File(hotelImageField, form.Image)

	resp, err := c.httpClient.POSTMultipart(ctx, "/hotel/create-hotel", body)
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.Hotel](resp)
}

func (c *HotelClient) Delete(ctx context.Context, id string) (*model.MessageResponse, error) {
	if err := requireID("hotel id", id); err != nil {
		return nil, err
	}
	resp, err := c.httpClient.DELETE(ctx, "/hotel/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.MessageResponse](resp)
}

func requireID(name, id string) error {
	if id == "" {
		return apperrors.InvalidInput(name + " is required")
	}
	return nil
}

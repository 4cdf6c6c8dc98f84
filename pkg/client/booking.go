package client

import (
	"context"
	"net/url"
	"staybook/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{httpClient: httpClient}
}

// Book submits req for hotelID. The hotel id in the body always comes from hotelID.
func (c *BookingClient) Book(ctx context.Context, req model.BookingRequest, hotelID string) (*model.Booking, error) {
	if err := requireID("hotel id", hotelID); err != nil {
		return nil, err
	}
	req.HotelID = hotelID

	resp, err := c.httpClient.POST(ctx, "/booking/book-hotel", req)
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.Booking](resp)
}

// List returns the signed-in user's bookings, each with its hotel summary.
func (c *BookingClient) List(ctx context.Context) ([]*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, "/booking")
	if err != nil {
		return nil, err
	}
	return decodeInto[[]*model.Booking](resp)
}

func (c *BookingClient) Cancel(ctx context.Context, bookingID, hotelID string) (*model.MessageResponse, error) {
	if err := requireID("booking id", bookingID); err != nil {
		return nil, err
	}
	if err := requireID("hotel id", hotelID); err != nil {
		return nil, err
	}

	path := "/booking/book-cancel/" + url.PathEscape(bookingID)
	resp, err := c.httpClient.PATCH(ctx, path, model.CancelRequest{HotelID: hotelID})
	if err != nil {
		return nil, err
	}
	return decodeInto[*model.MessageResponse](resp)
}

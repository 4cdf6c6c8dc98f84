package client

import (
	"staybook/pkg/logger"
	"time"
)

// Client groups the typed operations of the booking API behind one authorized transport.
type Client struct {
	Auth     *AuthClient
	Hotels   *HotelClient
	Bookings *BookingClient
	Users    *UserClient

	http *HttpClient
}

type Options struct {
	BaseURL string
	Tokens  TokenSource
	Timeout time.Duration
	Log     *logger.Logger
}

func New(opts Options) *Client {
	httpClient := NewHttpClient(opts.BaseURL, opts.Tokens, opts.Log, opts.Timeout)
	return &Client{
		Auth:     NewAuthClient(httpClient),
		Hotels:   NewHotelClient(httpClient),
		Bookings: NewBookingClient(httpClient),
		Users:    NewUserClient(httpClient),
		http:     httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

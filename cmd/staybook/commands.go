package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"staybook/internal/booking"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

var errMissingArg = errors.New("missing argument")

func (rt *runtime) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register",
			Usage: "create an account and sign in",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true},
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"STAYBOOK_PASSWORD"}},
			},
			Action: rt.register,
		},
		{
			Name:  "login",
			Usage: "sign in and remember the session",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"STAYBOOK_PASSWORD"}},
			},
			Action: rt.login,
		},
		{
			Name:   "logout",
			Usage:  "forget the stored session",
			Action: rt.logout,
		},
		{
			Name:  "hotels",
			Usage: "browse and manage hotels",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "list all hotels", Action: rt.listHotels},
				{Name: "show", Usage: "show one hotel", ArgsUsage: "<hotel-id>", Action: rt.showHotel},
				{
					Name:  "create",
					Usage: "add a hotel (admin)",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Required: true},
						&cli.StringFlag{Name: "type", Value: "hotel"},
						&cli.StringFlag{Name: "city", Required: true},
						&cli.StringFlag{Name: "address", Required: true},
						&cli.StringFlag{Name: "description"},
						&cli.Float64Flag{Name: "rating"},
						&cli.IntFlag{Name: "rooms", Value: 1},
						&cli.Float64Flag{Name: "price", Required: true, Usage: "cheapest price per night"},
						&cli.PathFlag{Name: "image", Usage: "path to a photo"},
					},
					Action: rt.createHotel,
				},
				{Name: "delete", Usage: "delete a hotel (admin)", ArgsUsage: "<hotel-id>", Action: rt.deleteHotel},
			},
		},
		{
			Name:      "book",
			Usage:     "book a stay",
			ArgsUsage: "<hotel-id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "check-in", Required: true, Usage: "YYYY-MM-DD"},
				&cli.StringFlag{Name: "check-out", Required: true, Usage: "YYYY-MM-DD"},
				&cli.IntFlag{Name: "guests", Value: model.MinGuests},
				&cli.StringFlag{Name: "room", Value: string(model.RoomStandard), Usage: "standard, deluxe or suite"},
			},
			Action: rt.book,
		},
		{
			Name:  "bookings",
			Usage: "review and cancel your bookings",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "list your bookings", Action: rt.listBookings},
				{Name: "cancel", Usage: "cancel a confirmed booking", ArgsUsage: "<booking-id>", Action: rt.cancelBooking},
			},
		},
		{
			Name:  "profile",
			Usage: "view and edit your profile",
			Subcommands: []*cli.Command{
				{Name: "show", Usage: "show a profile, yours by default", ArgsUsage: "[user-id]", Action: rt.showProfile},
				{
					Name:  "update",
					Usage: "change your name or picture",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Required: true},
						&cli.PathFlag{Name: "picture", Usage: "path to a profile picture"},
					},
					Action: rt.updateProfile,
				},
			},
		},
	}
}

func (rt *runtime) register(c *cli.Context) error {
	user, err := rt.session.Register(c.Context, model.RegisterRequest{
		Name:     c.String("name"),
		Email:    c.String("email"),
		Password: c.String("password"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Signed in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func (rt *runtime) login(c *cli.Context) error {
	user, err := rt.session.Login(c.Context, model.LoginRequest{
		Email:    c.String("email"),
		Password: c.String("password"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Signed in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func (rt *runtime) logout(c *cli.Context) error {
	if err := rt.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Signed out")
	return nil
}

func (rt *runtime) listHotels(c *cli.Context) error {
	hotels, err := rt.session.Hotels(c.Context)
	if err != nil {
		return err
	}
	if len(hotels) == 0 {
		fmt.Fprintln(c.App.Writer, "No hotels yet")
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tPRICE\tSTATUS")
	tracker := rt.session.Tracker()
	for _, h := range hotels {
		tracker.Observe(h)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", h.ID, h.Name, h.City, h.CheapestPrice, tracker.Label(h.ID, false))
	}
	return tw.Flush()
}

func (rt *runtime) showHotel(c *cli.Context) error {
	id, err := requireArg(c, "hotel-id")
	if err != nil {
		return err
	}
	hotel, err := rt.session.Hotel(c.Context, id)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s (%s)\n", hotel.Name, hotel.Type)
	fmt.Fprintf(w, "  %s, %s\n", hotel.Address, hotel.City)
	fmt.Fprintf(w, "  rating %.1f, %d rooms, from %.2f per night\n", hotel.Rating, hotel.Rooms, hotel.CheapestPrice)
	if hotel.Description != "" {
		fmt.Fprintf(w, "  %s\n", hotel.Description)
	}
	fmt.Fprintf(w, "  %s\n", rt.session.Tracker().Label(hotel.ID, false))
	return nil
}

func (rt *runtime) createHotel(c *cli.Context) error {
	image, closeImage, err := openUpload(c.Path("image"))
	if err != nil {
		return err
	}
	defer closeImage()

	hotel, err := rt.session.CreateHotel(c.Context, &model.HotelForm{
		Name:          c.String("name"),
		Type:          c.String("type"),
		City:          c.String("city"),
		Address:       c.String("address"),
		Description:   c.String("description"),
		Rating:        c.Float64("rating"),
		Rooms:         c.Int("rooms"),
		CheapestPrice: c.Float64("price"),
		Image:         image,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "id: %s\n", hotel.ID)
	return nil
}

func (rt *runtime) deleteHotel(c *cli.Context) error {
	id, err := requireArg(c, "hotel-id")
	if err != nil {
		return err
	}
	return rt.session.DeleteHotel(c.Context, id)
}

func (rt *runtime) book(c *cli.Context) error {
	hotelID, err := requireArg(c, "hotel-id")
	if err != nil {
		return err
	}
	engine, err := rt.session.NewBookingEngine(c.Context, hotelID)
	if err != nil {
		return err
	}
	defer engine.Close()

	engine.SetCheckIn(c.String("check-in"))
	engine.SetCheckOut(c.String("check-out"))
	engine.SetGuests(c.Int("guests"))
	engine.SetRoom(model.RoomCategory(c.String("room")))

	quote := engine.Quote()
	fmt.Fprintf(c.App.Writer, "%d night(s), total %.2f\n", quote.Nights, quote.Total)

	booked, err := engine.Submit(c.Context)
	if errors.Is(err, booking.ErrReserved) {
		return fmt.Errorf("%s is already reserved", hotelID)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "booking id: %s\n", booked.ID)
	return nil
}

func (rt *runtime) listBookings(c *cli.Context) error {
	bookings, err := rt.session.Bookings(c.Context)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Fprintln(c.App.Writer, "No bookings yet")
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tHOTEL\tCHECK-IN\tCHECK-OUT\tGUESTS\tROOM\tTOTAL\tSTATUS")
	for _, b := range bookings {
		hotel := b.HotelID()
		if b.Hotel != nil && b.Hotel.Name != "" {
			hotel = b.Hotel.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%.2f\t%s\n",
			b.ID, hotel, b.CheckInDate, b.CheckOutDate, b.Guests, b.Room, b.TotalPrice, b.Status)
	}
	return tw.Flush()
}

func (rt *runtime) cancelBooking(c *cli.Context) error {
	id, err := requireArg(c, "booking-id")
	if err != nil {
		return err
	}
	return rt.session.CancelBooking(c.Context, id)
}

func (rt *runtime) showProfile(c *cli.Context) error {
	user, err := rt.session.Profile(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s <%s>\n", user.Name, user.Email)
	fmt.Fprintf(w, "  role: %s\n", user.Role)
	if user.ProfilePicture != "" {
		fmt.Fprintf(w, "  picture: %s\n", rt.session.ProfileImageURL(user))
	}
	return nil
}

func (rt *runtime) updateProfile(c *cli.Context) error {
	picture, closePicture, err := openUpload(c.Path("picture"))
	if err != nil {
		return err
	}
	defer closePicture()

	_, err = rt.session.UpdateProfile(c.Context, &model.ProfileForm{
		Name:           c.String("name"),
		ProfilePicture: picture,
	})
	return err
}

func requireArg(c *cli.Context, name string) (string, error) {
	if value := c.Args().First(); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%w: <%s>", errMissingArg, name)
}

// openUpload opens path for a multipart upload. An empty path yields no upload.
func openUpload(path string) (*model.Upload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return &model.Upload{FileName: filepath.Base(path), Content: f}, func() { _ = f.Close() }, nil
}

// describe picks the message worth showing a person for err.
func describe(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

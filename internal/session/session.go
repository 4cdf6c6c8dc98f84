// Package session is the entry point for callers: it keeps the signed-in
// credential, serves reads through the query cache and runs every mutation
// through the same success path of invalidate, then notify.
package session

import (
	"context"
	"staybook/internal/booking"
	"staybook/internal/cache"
	"staybook/internal/notify"
	"staybook/internal/reservation"
	"staybook/pkg/client"
	"staybook/pkg/credential"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"staybook/pkg/validation"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MessageHotelCreated      = "Hotel created!"
	MessageHotelCreateFailed = "Hotel Creation error"
	MessageHotelDeleted      = "Hotel deleted!"
	MessageHotelDeleteFailed = "Failed to delete hotel!"
	MessageBookingCancelled  = "Booking cancelled successfully!"
	MessageCancelFailed      = "Failed to cancel booking"
	MessageProfileUpdated    = "Profile updated!"
	MessageProfileFailed     = "Unable to update profile"
)

type Config struct {
	Client *client.Client
	Store  credential.Store
	Bus    *notify.Bus
	Log    *logger.Logger
	// Clock is handed to booking engines. Defaults to time.Now.
	Clock func() time.Time
}

type Session struct {
	client   *client.Client
	store    credential.Store
	cache    *cache.QueryCache
	coord    *cache.Coordinator
	tracker  *reservation.Tracker
	bus      *notify.Bus
	log      *logger.Logger
	now      func() time.Time
	validate *validator.Validate

	mu     sync.RWMutex
	userID string
}

func New(cfg Config) *Session {
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.Bus == nil {
		cfg.Bus = notify.NewBus(cfg.Log)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Store == nil {
		cfg.Store = credential.NewMemoryStore()
	}

	qc := cache.NewQueryCache()
	return &Session{
		client:   cfg.Client,
		store:    cfg.Store,
		cache:    qc,
		coord:    cache.NewCoordinator(qc, cfg.Bus),
		tracker:  reservation.NewTracker(cfg.Bus),
		bus:      cfg.Bus,
		log:      cfg.Log,
		now:      cfg.Clock,
		validate: validation.New(),
	}
}

func (s *Session) Bus() *notify.Bus {
	return s.bus
}

func (s *Session) Tracker() *reservation.Tracker {
	return s.tracker
}

func (s *Session) Cache() *cache.QueryCache {
	return s.cache
}

func (s *Session) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := validation.Struct(s.validate, &req); err != nil {
		return nil, err
	}

	resp, err := s.client.Auth.Register(ctx, req)
	if err != nil {
		s.log.Warn("registration failed", "email", req.Email, "error", err)
		return nil, err
	}
	return s.signIn(resp)
}

func (s *Session) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := validation.Struct(s.validate, &req); err != nil {
		return nil, err
	}

	resp, err := s.client.Auth.Login(ctx, req)
	if err != nil {
		s.log.Warn("login failed", "email", req.Email, "error", err)
		return nil, err
	}
	return s.signIn(resp)
}

func (s *Session) signIn(resp *model.AuthResponse) (*model.User, error) {
	if resp == nil || resp.Token == "" {
		return nil, apperrors.New(apperrors.CodeDecode, "response carried no token", 0)
	}
	if err := s.store.Set(resp.Token); err != nil {
		return nil, apperrors.Internal("failed to store credential", err)
	}

	s.cache.Clear()
	s.mu.Lock()
	s.userID = resp.User.ID
	s.mu.Unlock()

	s.log.Info("signed in", "user_id", resp.User.ID, "role", string(resp.User.Role))
	user := resp.User
	return &user, nil
}

// Logout forgets the credential and every cached read.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.userID = ""
	s.mu.Unlock()
	s.cache.Clear()

	if err := s.store.Clear(); err != nil {
		return apperrors.Internal("failed to clear credential", err)
	}
	return nil
}

// CurrentUserID reads the user id from the stored token, falling back to the
// id returned by the last sign-in for tokens that carry no claims.
func (s *Session) CurrentUserID() (string, bool) {
	token, ok := s.store.Get()
	if !ok {
		return "", false
	}
	if claims, err := credential.Inspect(token); err == nil && claims.UserID != "" {
		return claims.UserID, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

func (s *Session) Hotels(ctx context.Context) ([]*model.Hotel, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyHotels, s.client.Hotels.List)
}

// Hotel reads one hotel and records its reservation status for booking gates.
func (s *Session) Hotel(ctx context.Context, id string) (*model.Hotel, error) {
	hotel, err := cache.Fetch(ctx, s.cache, cache.HotelKey(id), func(ctx context.Context) (*model.Hotel, error) {
		return s.client.Hotels.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	s.tracker.Observe(hotel)
	return hotel, nil
}

func (s *Session) CreateHotel(ctx context.Context, form *model.HotelForm) (*model.Hotel, error) {
	if form == nil {
		return nil, apperrors.InvalidInput("hotel form is required")
	}
	normalized := *form
	normalized.Name = sanitizer.NormalizeName(form.Name)
	normalized.Type = sanitizer.NormalizeLabel(form.Type)
	normalized.City = sanitizer.NormalizeCity(form.City)
	normalized.Address = sanitizer.TrimAndNormalize(form.Address)
	normalized.Description = sanitizer.NormalizeText(form.Description)
	normalized.CheapestPrice = sanitizer.RoundMoney(form.CheapestPrice)
	if err := validation.Struct(s.validate, &normalized); err != nil {
		return nil, err
	}

	hotel, err := s.client.Hotels.Create(ctx, &normalized)
	if err != nil {
		s.fail(cache.CreateHotel, err, apperrors.UserMessage(err, MessageHotelCreateFailed), "", "")
		return nil, err
	}

	s.coord.Settle(cache.Mutation{Kind: cache.CreateHotel, HotelID: hotel.ID})
	s.succeed(cache.CreateHotel, MessageHotelCreated, hotel.ID, "")
	return hotel, nil
}

func (s *Session) DeleteHotel(ctx context.Context, id string) error {
	resp, err := s.client.Hotels.Delete(ctx, id)
	if err != nil {
		s.fail(cache.DeleteHotel, err, apperrors.UserMessage(err, MessageHotelDeleteFailed), id, "")
		return err
	}

	s.coord.Settle(cache.Mutation{Kind: cache.DeleteHotel, HotelID: id})
	s.tracker.Forget(id)

	message := MessageHotelDeleted
	if resp != nil && resp.Message != "" {
		message = resp.Message
	}
	s.succeed(cache.DeleteHotel, message, id, "")
	return nil
}

func (s *Session) Bookings(ctx context.Context) ([]*model.Booking, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyUserBookings, s.client.Bookings.List)
}

// CancelBooking cancels one of the user's confirmed bookings. The hotel the
// server needs is taken from the bookings read.
func (s *Session) CancelBooking(ctx context.Context, bookingID string) error {
	target, err := s.findBooking(ctx, bookingID)
	if err != nil {
		s.fail(cache.CancelBooking, err, apperrors.UserMessage(err, MessageCancelFailed), "", bookingID)
		return err
	}
	hotelID := target.HotelID()

	if _, err := s.client.Bookings.Cancel(ctx, bookingID, hotelID); err != nil {
		s.fail(cache.CancelBooking, err, apperrors.UserMessage(err, MessageCancelFailed), hotelID, bookingID)
		return err
	}

	s.coord.Settle(cache.Mutation{Kind: cache.CancelBooking, HotelID: hotelID, BookingID: bookingID})
	s.succeed(cache.CancelBooking, MessageBookingCancelled, hotelID, bookingID)
	return nil
}

func (s *Session) findBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("booking id is required")
	}
	bookings, err := s.Bookings(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if b.ID != bookingID {
			continue
		}
		if !b.Cancellable() {
			return nil, apperrors.Conflict("booking is not confirmed")
		}
		if b.HotelID() == "" {
			return nil, apperrors.InvalidInput("booking has no hotel")
		}
		return b, nil
	}
	return nil, apperrors.NotFoundWithID("booking", bookingID)
}

// Profile reads userID's profile, or the signed-in user's when userID is empty.
func (s *Session) Profile(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		id, ok := s.CurrentUserID()
		if !ok {
			return nil, apperrors.Unauthorized("not signed in")
		}
		userID = id
	}

	resp, err := cache.Fetch(ctx, s.cache, cache.UserKey(userID), func(ctx context.Context) (*model.ProfileResponse, error) {
		return s.client.Users.Profile(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	user := resp.Me
	return &user, nil
}

func (s *Session) UpdateProfile(ctx context.Context, form *model.ProfileForm) (*model.User, error) {
	userID, ok := s.CurrentUserID()
	if !ok {
		return nil, apperrors.Unauthorized("not signed in")
	}
	if form == nil {
		return nil, apperrors.InvalidInput("profile form is required")
	}
	normalized := *form
	normalized.Name = sanitizer.NormalizeName(form.Name)
	if err := validation.Struct(s.validate, &normalized); err != nil {
		return nil, err
	}

	user, err := s.client.Users.UpdateProfile(ctx, &normalized, userID)
	if err != nil {
		// The profile form never surfaces server text.
		s.fail(cache.UpdateProfile, err, MessageProfileFailed, "", "")
		return nil, err
	}

	s.coord.Settle(cache.Mutation{Kind: cache.UpdateProfile, UserID: userID})
	s.succeed(cache.UpdateProfile, MessageProfileUpdated, "", "")
	return user, nil
}

// ProfileImageURL resolves a profile picture against the API's uploads folder.
func (s *Session) ProfileImageURL(user *model.User) string {
	if user == nil {
		return ""
	}
	return s.client.Users.ImageURL(user.ProfilePicture)
}

// NewBookingEngine reads the hotel, so its reservation status and price are
// current, and returns an engine bound to it.
func (s *Session) NewBookingEngine(ctx context.Context, hotelID string) (*booking.Engine, error) {
	hotel, err := s.Hotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	return booking.NewEngine(booking.Config{
		HotelID:       hotel.ID,
		PricePerNight: hotel.CheapestPrice,
		Booker:        s.client.Bookings,
		Tracker:       s.tracker,
		Coordinator:   s.coord,
		Bus:           s.bus,
		Log:           s.log,
		Clock:         s.now,
	}), nil
}

func (s *Session) succeed(kind cache.MutationKind, message, hotelID, bookingID string) {
	event := notify.Success(string(kind), message)
	event.HotelID = hotelID
	event.BookingID = bookingID
	s.bus.Publish(event)
}

func (s *Session) fail(kind cache.MutationKind, err error, message, hotelID, bookingID string) {
	s.log.Warn("mutation failed",
		"mutation", string(kind),
		"hotel_id", hotelID,
		"booking_id", bookingID,
		"error", err,
	)
	event := notify.Failure(string(kind), message)
	event.HotelID = hotelID
	event.BookingID = bookingID
	s.bus.Publish(event)
}

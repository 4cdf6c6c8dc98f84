// Package service implements the booking API's rules over the in-memory store.
package service

import (
	"context"
	"errors"
	"path/filepath"
	"staybook/internal/booking"
	"staybook/internal/stubapi/repository"
	"staybook/pkg/credential"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"staybook/pkg/validation"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	MessageHotelDeleted     = "Hotel has been deleted."
	MessageBookingCancelled = "Booking cancelled"
)

// HotelInput is a parsed create-hotel form.
type HotelInput struct {
	Name          string  `json:"name" validate:"required,min=2,max=120"`
	Type          string  `json:"type" validate:"required,max=60"`
	City          string  `json:"city" validate:"required,max=80"`
	Address       string  `json:"address" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=2000"`
	Rating        float64 `json:"rating" validate:"min=0,max=5"`
	Rooms         int     `json:"rooms" validate:"required,min=1"`
	CheapestPrice float64 `json:"cheapestPrice" validate:"required,gt=0"`

	Image *repository.Upload
}

type bookingInput struct {
	CheckInDate  string             `json:"checkInDate" validate:"required"`
	CheckOutDate string             `json:"checkOutDate" validate:"required"`
	Guests       int                `json:"guests" validate:"required,min=1,max=4"`
	Room         model.RoomCategory `json:"room" validate:"required,oneof=standard deluxe suite"`
	HotelID      string             `json:"hotelId" validate:"required,mongodb"`
}

type Service struct {
	store    *repository.MemoryStore
	auth     *Authenticator
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

func New(store *repository.MemoryStore, auth *Authenticator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:    store,
		auth:     auth,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Stats() map[string]int {
	return s.store.Stats()
}

// SeedAdmin creates the administrator account unless the email is taken.
func (s *Service) SeedAdmin(name, email, password string) error {
	_, err := s.createUser(name, email, password, model.RoleAdmin)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil
	}
	return err
}

func (s *Service) Register(_ context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validateStruct(&req); err != nil {
		return nil, err
	}

	user, err := s.createUser(req.Name, req.Email, req.Password, model.RoleGuest)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, apperrors.Conflict("User already exists")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}
	return s.authResponse(user)
}

func (s *Service) createUser(name, email, password string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	record := &repository.UserRecord{
		User: model.User{
			Name:      name,
			Email:     sanitizer.NormalizeEmail(email),
			Role:      role,
			CreatedAt: s.now().UTC(),
		},
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(record); err != nil {
		return nil, err
	}
	s.log.Info("User created", "user_id", record.ID, "role", string(role))
	return &record.User, nil
}

func (s *Service) Login(_ context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validateStruct(&req); err != nil {
		return nil, err
	}

	record, err := s.store.FindUserByEmail(req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(record.PasswordHash, []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	return s.authResponse(&record.User)
}

func (s *Service) authResponse(user *model.User) (*model.AuthResponse, error) {
	token, err := s.auth.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &model.AuthResponse{Token: token, User: *user}, nil
}

// Authenticate resolves a bearer token to its claims.
func (s *Service) Authenticate(token string) (*credential.Claims, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("Not authorized, no token")
	}
	claims, err := s.auth.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Not authorized, token failed")
	}
	if _, err := s.store.FindUserByID(claims.UserID); err != nil {
		return nil, apperrors.Unauthorized("Not authorized, user not found")
	}
	return claims, nil
}

func (s *Service) ListHotels(_ context.Context) []*model.Hotel {
	return s.store.ListHotels()
}

func (s *Service) GetHotel(_ context.Context, id string) (*model.Hotel, error) {
	if !repository.ValidID(id) {
		return nil, apperrors.InvalidInput("Invalid hotel id")
	}
	hotel, err := s.store.FindHotel(id)
	if err != nil {
		return nil, apperrors.NotFound("Hotel")
	}
	return hotel, nil
}

func (s *Service) CreateHotel(_ context.Context, caller *credential.Claims, input *HotelInput) (*model.Hotel, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	input.Name = sanitizer.NormalizeName(input.Name)
	input.Type = sanitizer.NormalizeLabel(input.Type)
	input.City = sanitizer.NormalizeCity(input.City)
	input.Address = sanitizer.TrimAndNormalize(input.Address)
	input.Description = sanitizer.NormalizeText(input.Description)
	if err := s.validateStruct(input); err != nil {
		return nil, err
	}

	hotel := &model.Hotel{
		Name:          input.Name,
		Type:          input.Type,
		City:          input.City,
		Address:       input.Address,
		Description:   input.Description,
		Rating:        input.Rating,
		Rooms:         input.Rooms,
		CheapestPrice: input.CheapestPrice,
	}
	if input.Image != nil {
		hotel.Photos = s.saveUpload(*input.Image)
	}
	s.store.CreateHotel(hotel)

	s.log.Info("Hotel created", "hotel_id", hotel.ID, "created_by", caller.UserID)
	return hotel, nil
}

func (s *Service) DeleteHotel(_ context.Context, caller *credential.Claims, id string) (string, error) {
	if err := requireAdmin(caller); err != nil {
		return "", err
	}
	if !repository.ValidID(id) {
		return "", apperrors.InvalidInput("Invalid hotel id")
	}
	if err := s.store.DeleteHotel(id); err != nil {
		return "", apperrors.NotFound("Hotel")
	}
	s.log.Info("Hotel deleted", "hotel_id", id, "deleted_by", caller.UserID)
	return MessageHotelDeleted, nil
}

func (s *Service) Book(_ context.Context, caller *credential.Claims, req model.BookingRequest) (*model.Booking, error) {
	input := bookingInput(req)
	if err := s.validateStruct(&input); err != nil {
		return nil, err
	}

	checkIn, err := model.ParseDate(input.CheckInDate)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid check-in date")
	}
	checkOut, err := model.ParseDate(input.CheckOutDate)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid check-out date")
	}
	nights := booking.Nights(checkIn.Time, checkOut.Time)
	if nights == 0 {
		return nil, apperrors.InvalidInput("Check-out date must be after check-in date")
	}

	hotel, err := s.store.FindHotel(input.HotelID)
	if err != nil {
		return nil, apperrors.NotFound("Hotel")
	}

	record := &repository.BookingRecord{
		UserID:       caller.UserID,
		HotelID:      hotel.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Guests:       input.Guests,
		Room:         input.Room,
		TotalPrice:   booking.Total(nights, hotel.CheapestPrice),
		CreatedAt:    s.now().UTC(),
	}
	switch err := s.store.Reserve(record); {
	case errors.Is(err, repository.ErrHotelReserved):
		return nil, apperrors.Conflict("Hotel is already reserved")
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NotFound("Hotel")
	case err != nil:
		return nil, apperrors.Internal("Failed to book hotel", err)
	}

	s.log.Info("Hotel booked",
		"booking_id", record.ID,
		"hotel_id", hotel.ID,
		"user_id", caller.UserID,
		"nights", nights,
		"total_price", record.TotalPrice,
	)
	return toBooking(record, hotel), nil
}

func (s *Service) ListBookings(_ context.Context, caller *credential.Claims) []*model.Booking {
	records := s.store.ListBookingsByUser(caller.UserID)
	bookings := make([]*model.Booking, 0, len(records))
	for _, record := range records {
		hotel, _ := s.store.FindHotel(record.HotelID)
		bookings = append(bookings, toBooking(record, hotel))
	}
	return bookings
}

func (s *Service) CancelBooking(_ context.Context, caller *credential.Claims, bookingID, hotelID string) (string, error) {
	if !repository.ValidID(bookingID) {
		return "", apperrors.InvalidInput("Invalid booking id")
	}
	if hotelID == "" {
		return "", apperrors.InvalidInput("hotelId is required")
	}

	switch err := s.store.Cancel(caller.UserID, bookingID, hotelID); {
	case errors.Is(err, repository.ErrNotFound):
		return "", apperrors.NotFound("Booking")
	case errors.Is(err, repository.ErrHotelMismatch):
		return "", apperrors.InvalidInput("Booking does not belong to this hotel")
	case errors.Is(err, repository.ErrNotConfirmed):
		return "", apperrors.Conflict("Booking is already cancelled")
	case err != nil:
		return "", apperrors.Internal("Failed to cancel booking", err)
	}

	s.log.Info("Booking cancelled", "booking_id", bookingID, "hotel_id", hotelID, "user_id", caller.UserID)
	return MessageBookingCancelled, nil
}

func (s *Service) Profile(_ context.Context, caller *credential.Claims, userID string) (*model.ProfileResponse, error) {
	if err := requireSelfOrAdmin(caller, userID); err != nil {
		return nil, err
	}
	record, err := s.store.FindUserByID(userID)
	if err != nil {
		return nil, apperrors.NotFound("User")
	}
	return &model.ProfileResponse{Me: record.User}, nil
}

func (s *Service) UpdateProfile(_ context.Context, caller *credential.Claims, userID, name string, picture *repository.Upload) (*model.User, error) {
	if err := requireSelfOrAdmin(caller, userID); err != nil {
		return nil, err
	}
	form := model.ProfileForm{Name: sanitizer.NormalizeName(name)}
	if err := s.validateStruct(&form); err != nil {
		return nil, err
	}

	var pictureName string
	if picture != nil {
		pictureName = s.saveUpload(*picture)
	}

	record, err := s.store.UpdateUser(userID, func(u *repository.UserRecord) {
		u.Name = form.Name
		if pictureName != "" {
			u.ProfilePicture = pictureName
		}
	})
	if err != nil {
		return nil, apperrors.NotFound("User")
	}
	return &record.User, nil
}

func (s *Service) Upload(name string) (repository.Upload, error) {
	upload, err := s.store.FindUpload(name)
	if err != nil {
		return repository.Upload{}, apperrors.NotFound("File")
	}
	return upload, nil
}

// saveUpload stores upload under a generated name that keeps its extension.
func (s *Service) saveUpload(upload repository.Upload) string {
	upload.Name = repository.NewID() + strings.ToLower(filepath.Ext(upload.Name))
	s.store.SaveUpload(upload)
	return upload.Name
}

func (s *Service) validateStruct(v any) error {
	err := validation.Struct(s.validate, v)
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.AppError()
	}
	return err
}

func requireAdmin(caller *credential.Claims) error {
	if caller == nil || model.Role(caller.Role) != model.RoleAdmin {
		return apperrors.Forbidden("Admin access required")
	}
	return nil
}

func requireSelfOrAdmin(caller *credential.Claims, userID string) error {
	if caller == nil {
		return apperrors.Unauthorized("Not authorized")
	}
	if caller.UserID != userID && model.Role(caller.Role) != model.RoleAdmin {
		return apperrors.Forbidden("You can only access your own profile")
	}
	return nil
}

func toBooking(record *repository.BookingRecord, hotel *model.Hotel) *model.Booking {
	ref := &model.HotelRef{HotelSummary: model.HotelSummary{ID: record.HotelID}}
	if hotel != nil {
		ref.HotelSummary = model.HotelSummary{
			ID:            hotel.ID,
			Name:          hotel.Name,
			City:          hotel.City,
			Address:       hotel.Address,
			Photos:        hotel.Photos,
			CheapestPrice: hotel.CheapestPrice,
		}
	}
	return &model.Booking{
		ID:           record.ID,
		User:         record.UserID,
		Hotel:        ref,
		CheckInDate:  record.CheckInDate,
		CheckOutDate: record.CheckOutDate,
		Guests:       record.Guests,
		Room:         record.Room,
		TotalPrice:   record.TotalPrice,
		Status:       record.Status,
		CreatedAt:    record.CreatedAt,
	}
}

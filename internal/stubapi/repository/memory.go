package repository

import (
	"errors"
	"staybook/pkg/model"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrHotelReserved  = errors.New("hotel is already reserved")
	ErrNotConfirmed   = errors.New("booking is not confirmed")
	ErrHotelMismatch  = errors.New("booking belongs to another hotel")
)

type UserRecord struct {
	model.User
	PasswordHash []byte
}

type BookingRecord struct {
	ID           string
	UserID       string
	HotelID      string
	CheckInDate  model.Date
	CheckOutDate model.Date
	Guests       int
	Room         model.RoomCategory
	TotalPrice   float64
	Status       model.BookingStatus
	CreatedAt    time.Time
}

type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewID returns a fresh ObjectID in hex, the id format the booking API uses.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed ObjectID.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// MemoryStore keeps users, hotels, bookings and uploads in memory. Every
// method returns copies, so callers never share records with the store.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]*UserRecord
	emails       map[string]string
	hotels       map[string]*model.Hotel
	hotelOrder   []string
	bookings     map[string]*BookingRecord
	bookingOrder []string
	uploads      map[string]Upload
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*UserRecord),
		emails:   make(map[string]string),
		hotels:   make(map[string]*model.Hotel),
		bookings: make(map[string]*BookingRecord),
		uploads:  make(map[string]Upload),
	}
}

func (s *MemoryStore) CreateUser(user *UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[user.Email]; exists {
		return ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = NewID()
	}
	stored := *user
	s.users[user.ID] = &stored
	s.emails[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) FindUserByEmail(email string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := *s.users[id]
	return &user, nil
}

func (s *MemoryStore) FindUserByID(id string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) UpdateUser(id string, apply func(*UserRecord)) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	apply(user)
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) CreateHotel(hotel *model.Hotel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hotel.ID == "" {
		hotel.ID = NewID()
	}
	if hotel.ReservationStatus == "" {
		hotel.ReservationStatus = model.StatusAvailable
	}
	stored := *hotel
	s.hotels[hotel.ID] = &stored
	s.hotelOrder = append(s.hotelOrder, hotel.ID)
}

func (s *MemoryStore) ListHotels() []*model.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hotels := make([]*model.Hotel, 0, len(s.hotelOrder))
	for _, id := range s.hotelOrder {
		hotel := *s.hotels[id]
		hotels = append(hotels, &hotel)
	}
	return hotels
}

func (s *MemoryStore) FindHotel(id string) (*model.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hotel, ok := s.hotels[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *hotel
	return &copied, nil
}

func (s *MemoryStore) DeleteHotel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[id]; !ok {
		return ErrNotFound
	}
	delete(s.hotels, id)
	for i, hid := range s.hotelOrder {
		if hid == id {
			s.hotelOrder = append(s.hotelOrder[:i], s.hotelOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Reserve stores booking and marks its hotel confirmed in one step. It fails
// with ErrHotelReserved when the hotel is already confirmed.
func (s *MemoryStore) Reserve(booking *BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hotel, ok := s.hotels[booking.HotelID]
	if !ok {
		return ErrNotFound
	}
	if hotel.ReservationStatus == model.StatusConfirmed {
		return ErrHotelReserved
	}

	if booking.ID == "" {
		booking.ID = NewID()
	}
	booking.Status = model.BookingConfirmed
	stored := *booking
	s.bookings[booking.ID] = &stored
	s.bookingOrder = append(s.bookingOrder, booking.ID)
	hotel.ReservationStatus = model.StatusConfirmed
	return nil
}

// Cancel marks userID's booking cancelled and frees its hotel.
func (s *MemoryStore) Cancel(userID, bookingID, hotelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[bookingID]
	if !ok || booking.UserID != userID {
		return ErrNotFound
	}
	if booking.HotelID != hotelID {
		return ErrHotelMismatch
	}
	if booking.Status != model.BookingConfirmed {
		return ErrNotConfirmed
	}

	booking.Status = model.BookingCancelled
	if hotel, ok := s.hotels[hotelID]; ok {
		hotel.ReservationStatus = model.StatusAvailable
	}
	return nil
}

func (s *MemoryStore) ListBookingsByUser(userID string) []*BookingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookings []*BookingRecord
	for _, id := range s.bookingOrder {
		if b := s.bookings[id]; b.UserID == userID {
			copied := *b
			bookings = append(bookings, &copied)
		}
	}
	return bookings
}

func (s *MemoryStore) SaveUpload(upload Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[upload.Name] = upload
}

func (s *MemoryStore) FindUpload(name string) (Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	upload, ok := s.uploads[name]
	if !ok {
		return Upload{}, ErrNotFound
	}
	return upload, nil
}

// Stats reports record counts for the health endpoint.
func (s *MemoryStore) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"users":    len(s.users),
		"hotels":   len(s.hotels),
		"bookings": len(s.bookings),
		"uploads":  len(s.uploads),
	}
}

// Package booking drives a single hotel's booking form from first edit to a
// confirmed reservation.
package booking

import (
	"context"
	"errors"
	"staybook/internal/cache"
	"staybook/internal/notify"
	"staybook/internal/reservation"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"sync"
	"time"
)

type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

const (
	MessageBooked        = "Booking successful!"
	MessageBookingFailed = "Booking failed"

	source = "booking"
)

var (
	ErrReserved   = errors.New("hotel is already reserved")
	ErrSubmitting = errors.New("a booking is already being submitted")
	ErrClosed     = errors.New("booking engine is closed")
)

// Booker submits a booking request. *client.BookingClient satisfies it.
type Booker interface {
	Book(ctx context.Context, req model.BookingRequest, hotelID string) (*model.Booking, error)
}

type Config struct {
	HotelID       string
	PricePerNight float64
	Booker        Booker
	Tracker       *reservation.Tracker
	Coordinator   *cache.Coordinator
	Bus           *notify.Bus
	Log           *logger.Logger
	// Clock defaults to time.Now. It decides what "today" is for check-in.
	Clock func() time.Time
}

type Engine struct {
	mu        sync.Mutex
	hotelID   string
	price     float64
	draft     Draft
	state     State
	closed    bool
	booker    Booker
	tracker   *reservation.Tracker
	coord     *cache.Coordinator
	bus       *notify.Bus
	validator *DraftValidator
	log       *logger.Logger
	now       func() time.Time
}

func NewEngine(cfg Config) *Engine {
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Tracker == nil {
		cfg.Tracker = reservation.NewTracker(nil)
	}
	return &Engine{
		hotelID:   cfg.HotelID,
		price:     cfg.PricePerNight,
		draft:     NewDraft(),
		state:     StateEditing,
		booker:    cfg.Booker,
		tracker:   cfg.Tracker,
		coord:     cfg.Coordinator,
		bus:       cfg.Bus,
		validator: NewDraftValidator(),
		log:       cfg.Log,
		now:       cfg.Clock,
	}
}

func (e *Engine) HotelID() string {
	return e.hotelID
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// SetPrice updates the nightly rate, e.g. after the hotel was re-read.
func (e *Engine) SetPrice(pricePerNight float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.price = pricePerNight
}

func (e *Engine) SetCheckIn(date string) {
	e.Edit(func(d *Draft) { d.CheckInDate = date })
}

func (e *Engine) SetCheckOut(date string) {
	e.Edit(func(d *Draft) { d.CheckOutDate = date })
}

func (e *Engine) SetGuests(guests int) {
	e.Edit(func(d *Draft) { d.Guests = guests })
}

func (e *Engine) SetRoom(room model.RoomCategory) {
	e.Edit(func(d *Draft) { d.Room = room })
}

// Edit applies fn to the draft. Editing after a success starts a new attempt.
func (e *Engine) Edit(fn func(*Draft)) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	fn(&e.draft)
	var events []notify.Event
	if e.state == StateSucceeded {
		events = append(events, e.transition(StateEditing))
	}
	e.mu.Unlock()

	e.publish(events...)
}

// Reset restores the initial draft.
func (e *Engine) Reset() {
	e.Edit(func(d *Draft) { *d = NewDraft() })
}

// Quote prices the current draft. It is recomputed on every call.
func (e *Engine) Quote() Quote {
	e.mu.Lock()
	defer e.mu.Unlock()
	return QuoteDates(e.draft.CheckInDate, e.draft.CheckOutDate, e.price)
}

// CanSubmit reports whether Submit would reach the network.
func (e *Engine) CanSubmit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == StateSubmitting || !e.tracker.Allowed(e.hotelID) {
		return false
	}
	return e.validator.Validate(e.draft, e.now()) == nil
}

// ActionLabel is the text for the submit control.
func (e *Engine) ActionLabel() string {
	e.mu.Lock()
	submitting := e.state == StateSubmitting
	e.mu.Unlock()
	return e.tracker.Label(e.hotelID, submitting)
}

// Submit validates the draft and sends it. It returns ErrReserved while the
// hotel is confirmed, ErrSubmitting while another submission is in flight, and
// validation.ValidationErrors when the draft is invalid, all without a request.
func (e *Engine) Submit(ctx context.Context) (*model.Booking, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	if e.state == StateSubmitting {
		e.mu.Unlock()
		return nil, ErrSubmitting
	}
	if !e.tracker.Allowed(e.hotelID) {
		e.mu.Unlock()
		return nil, ErrReserved
	}

	events := []notify.Event{e.transition(StateValidating)}
	if err := e.validator.Validate(e.draft, e.now()); err != nil {
		events = append(events, e.transition(StateEditing))
		e.mu.Unlock()
		e.publish(events...)
		return nil, err
	}

	req := e.draft.Request(e.hotelID)
	events = append(events, e.transition(StateSubmitting))
	e.mu.Unlock()
	e.publish(events...)

	e.log.Debug("submitting booking",
		"hotel_id", e.hotelID,
		"check_in", req.CheckInDate,
		"check_out", req.CheckOutDate,
		"guests", req.Guests,
		"room", string(req.Room),
	)

	booking, err := e.booker.Book(ctx, req, e.hotelID)
	return e.complete(booking, err)
}

func (e *Engine) complete(booking *model.Booking, err error) (*model.Booking, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.log.Debug("dropping booking response for closed engine", "hotel_id", e.hotelID, "error", err)
		return booking, err
	}

	if err != nil {
		events := []notify.Event{
			e.transition(StateFailed),
			e.transition(StateEditing),
		}
		e.mu.Unlock()

		e.log.Warn("booking failed", "hotel_id", e.hotelID, "error", err)
		failure := notify.Failure(source, apperrors.UserMessage(err, MessageBookingFailed))
		failure.HotelID = e.hotelID
		e.publish(append(events, failure)...)
		return nil, err
	}

	e.draft = NewDraft()
	events := []notify.Event{e.transition(StateSucceeded)}
	e.mu.Unlock()

	bookingID := ""
	if booking != nil {
		bookingID = booking.ID
	}
	e.log.Info("booking confirmed", "hotel_id", e.hotelID, "booking_id", bookingID)
	e.publish(events...)
	e.tracker.Confirm(e.hotelID)

	if e.coord != nil {
		e.coord.Settle(cache.Mutation{Kind: cache.BookHotel, HotelID: e.hotelID, BookingID: bookingID})
	}
	success := notify.Success(source, MessageBooked)
	success.HotelID = e.hotelID
	success.BookingID = bookingID
	e.publish(success)
	return booking, nil
}

// Close detaches the engine from its owner. A response that arrives after
// Close changes nothing and publishes nothing.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

// transition must be called with mu held. The returned event is published
// after the lock is released.
func (e *Engine) transition(to State) notify.Event {
	e.state = to
	return notify.Event{
		Kind:    notify.KindState,
		Source:  source,
		State:   string(to),
		HotelID: e.hotelID,
	}
}

func (e *Engine) publish(events ...notify.Event) {
	if e.bus == nil {
		return
	}
	for _, ev := range events {
		e.bus.Publish(ev)
	}
}

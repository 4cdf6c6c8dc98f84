package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"staybook/internal/stubapi/repository"
	"staybook/internal/stubapi/service"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret123"
)

type testAPI struct {
	t      *testing.T
	router *httprouter.Router
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := logger.Discard()
	svc := service.New(repository.NewMemoryStore(), service.NewAuthenticator("test-secret", time.Hour), log)
	if err := svc.SeedAdmin("Admin", adminEmail, adminPassword); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	router := httprouter.New()
	NewAPIHandler(svc, log).RegisterRoutes(router)
	NewHealthHandler(svc, log).RegisterRoutes(router)
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return a.serve(req, token)
}

func (a *testAPI) multipart(method, path, token string, fields map[string]string, fileField, fileName string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		_ = writer.WriteField(name, value)
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			a.t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write([]byte("image-bytes"))
	}
	_ = writer.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return a.serve(req, token)
}

func (a *testAPI) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(email, password string) model.AuthResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/user/login", "", model.LoginRequest{Email: email, Password: password})
	if rec.Code != http.StatusOK {
		a.t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	var resp model.AuthResponse
	decode(a.t, rec, &resp)
	return resp
}

func (a *testAPI) register(name, email string) model.AuthResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/user/register", "", model.RegisterRequest{Name: name, Email: email, Password: "password1"})
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("register status = %d, body %s", rec.Code, rec.Body)
	}
	var resp model.AuthResponse
	decode(a.t, rec, &resp)
	return resp
}

func (a *testAPI) createHotel(token string) model.Hotel {
	a.t.Helper()
	rec := a.multipart(http.MethodPost, "/api/hotel/create-hotel", token, map[string]string{
		"name":          "Grand Hotel",
		"type":          "Hotel",
		"city":          "  Lisbon ",
		"address":       "1 Main St",
		"rating":        "4.5",
		"rooms":         "12",
		"cheapestPrice": "120",
	}, hotelImageField, "front.JPG")
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("create hotel status = %d, body %s", rec.Code, rec.Body)
	}
	var hotel model.Hotel
	decode(a.t, rec, &hotel)
	return hotel
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body model.MessageResponse
	decode(t, rec, &body)
	return body.Message
}

func TestAuth(t *testing.T) {
	api := newTestAPI(t)

	guest := api.register("Jane Doe", "Jane@Example.com")
	if guest.Token == "" || guest.User.Role != model.RoleGuest || guest.User.Email != "jane@example.com" {
		t.Errorf("register response = %+v", guest)
	}

	rec := api.do(http.MethodPost, "/api/user/register", "", model.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "password1"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d", rec.Code)
	}

	rec = api.do(http.MethodPost, "/api/user/login", "", model.LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
	if rec.Code != http.StatusUnauthorized || message(t, rec) != "Invalid email or password" {
		t.Errorf("bad login = %d %s", rec.Code, rec.Body)
	}

	rec = api.do(http.MethodPost, "/api/user/register", "", model.RegisterRequest{Name: "J", Email: "not-an-email"})
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid register status = %d", rec.Code)
	}

	admin := api.login(adminEmail, adminPassword)
	if admin.User.Role != model.RoleAdmin {
		t.Errorf("admin role = %q", admin.User.Role)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{name: "bookings without token", method: http.MethodGet, path: "/api/booking"},
		{name: "bookings with garbage token", method: http.MethodGet, path: "/api/booking", token: "garbage"},
		{name: "delete without token", method: http.MethodDelete, path: "/api/hotel/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.token, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestHotelLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	guest := api.register("Guest User", "guest@example.com")

	rec := api.multipart(http.MethodPost, "/api/hotel/create-hotel", guest.Token, map[string]string{"name": "Nope"}, "", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("guest create status = %d", rec.Code)
	}

	hotel := api.createHotel(admin.Token)
	if hotel.ReservationStatus != model.StatusAvailable {
		t.Errorf("new hotel status = %q", hotel.ReservationStatus)
	}
	if hotel.City != "Lisbon" {
		t.Errorf("city = %q", hotel.City)
	}
	if hotel.Photos == "" {
		t.Fatalf("expected stored photo name")
	}

	rec = api.do(http.MethodGet, "/uploads/"+hotel.Photos, "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "image-bytes" {
		t.Errorf("upload = %d %q", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("upload content type = %q", ct)
	}

	rec = api.do(http.MethodGet, "/api/hotel/single/"+hotel.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get hotel status = %d", rec.Code)
	}
	rec = api.do(http.MethodGet, "/api/hotel/single/not-an-id", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d", rec.Code)
	}

	rec = api.do(http.MethodDelete, "/api/hotel/"+hotel.ID, guest.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("guest delete status = %d", rec.Code)
	}
	rec = api.do(http.MethodDelete, "/api/hotel/"+hotel.ID, admin.Token, nil)
	if rec.Code != http.StatusOK || message(t, rec) != service.MessageHotelDeleted {
		t.Errorf("delete = %d %s", rec.Code, rec.Body)
	}

	var hotels []model.Hotel
	decode(t, api.do(http.MethodGet, "/api/hotel", "", nil), &hotels)
	if len(hotels) != 0 {
		t.Errorf("hotels after delete = %d", len(hotels))
	}
}

func TestBookingLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	guest := api.register("Guest User", "guest@example.com")
	other := api.register("Other User", "other@example.com")
	hotel := api.createHotel(admin.Token)

	req := model.BookingRequest{
		CheckInDate:  "2030-06-01",
		CheckOutDate: "2030-06-04",
		Guests:       2,
		Room:         model.RoomDeluxe,
		HotelID:      hotel.ID,
	}
	rec := api.do(http.MethodPost, "/api/booking/book-hotel", guest.Token, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("book status = %d, body %s", rec.Code, rec.Body)
	}
	var booked model.Booking
	decode(t, rec, &booked)
	if booked.TotalPrice != 360 || booked.Status != model.BookingConfirmed {
		t.Errorf("booking = %+v", booked)
	}

	rec = api.do(http.MethodPost, "/api/booking/book-hotel", other.Token, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("second booking status = %d", rec.Code)
	}

	var hotelAfter model.Hotel
	decode(t, api.do(http.MethodGet, "/api/hotel/single/"+hotel.ID, "", nil), &hotelAfter)
	if !hotelAfter.Reserved() {
		t.Errorf("hotel should be confirmed after booking")
	}

	rec = api.do(http.MethodPatch, "/api/booking/book-cancel/"+booked.ID, other.Token, model.CancelRequest{HotelID: hotel.ID})
	if rec.Code != http.StatusNotFound {
		t.Errorf("cancel by another user status = %d", rec.Code)
	}

	rec = api.do(http.MethodPatch, "/api/booking/book-cancel/"+booked.ID, guest.Token, model.CancelRequest{HotelID: hotel.ID})
	if rec.Code != http.StatusOK || message(t, rec) != service.MessageBookingCancelled {
		t.Errorf("cancel = %d %s", rec.Code, rec.Body)
	}
	rec = api.do(http.MethodPatch, "/api/booking/book-cancel/"+booked.ID, guest.Token, model.CancelRequest{HotelID: hotel.ID})
	if rec.Code != http.StatusConflict {
		t.Errorf("second cancel status = %d", rec.Code)
	}

	_ = api.do(http.MethodDelete, "/api/hotel/"+hotel.ID, admin.Token, nil)

	var bookings []model.Booking
	decode(t, api.do(http.MethodGet, "/api/booking", guest.Token, nil), &bookings)
	if len(bookings) != 1 {
		t.Fatalf("bookings = %d", len(bookings))
	}
	if bookings[0].Status != model.BookingCancelled || bookings[0].HotelID() != hotel.ID {
		t.Errorf("listed booking = %+v", bookings[0])
	}
}

func TestBook_Validation(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	hotel := api.createHotel(admin.Token)

	tests := []struct {
		name string
		req  model.BookingRequest
	}{
		{name: "too many guests", req: model.BookingRequest{CheckInDate: "2030-06-01", CheckOutDate: "2030-06-02", Guests: 5, Room: model.RoomSuite, HotelID: hotel.ID}},
		{name: "unknown room", req: model.BookingRequest{CheckInDate: "2030-06-01", CheckOutDate: "2030-06-02", Guests: 1, Room: "penthouse", HotelID: hotel.ID}},
		{name: "check-out before check-in", req: model.BookingRequest{CheckInDate: "2030-06-05", CheckOutDate: "2030-06-02", Guests: 1, Room: model.RoomSuite, HotelID: hotel.ID}},
		{name: "malformed hotel id", req: model.BookingRequest{CheckInDate: "2030-06-01", CheckOutDate: "2030-06-02", Guests: 1, Room: model.RoomSuite, HotelID: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/booking/book-hotel", admin.Token, tt.req)
			if rec.Code < 400 || rec.Code >= 500 {
				t.Errorf("status = %d, body %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)
	guest := api.register("Guest User", "guest@example.com")
	other := api.register("Other User", "other@example.com")

	rec := api.do(http.MethodGet, "/api/user/profile/"+guest.User.ID, guest.Token, nil)
	var profile model.ProfileResponse
	decode(t, rec, &profile)
	if profile.Me.Email != "guest@example.com" {
		t.Errorf("profile = %+v", profile)
	}

	rec = api.do(http.MethodGet, "/api/user/profile/"+guest.User.ID, other.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign profile status = %d", rec.Code)
	}

	rec = api.multipart(http.MethodPut, "/api/user/profile/edit/"+guest.User.ID, guest.Token,
		map[string]string{"name": "  Renamed   Guest "}, profilePictureField, "me.png")
	var updated model.User
	decode(t, rec, &updated)
	if updated.Name != "Renamed Guest" || updated.ProfilePicture == "" {
		t.Errorf("updated = %+v", updated)
	}

	rec = api.multipart(http.MethodPut, "/api/user/profile/edit/"+guest.User.ID, guest.Token,
		map[string]string{"name": "Kept Picture"}, "", "")
	decode(t, rec, &updated)
	if updated.ProfilePicture == "" {
		t.Errorf("picture should survive an update without a file")
	}
}

func TestReady(t *testing.T) {
	api := newTestAPI(t)
	var health HealthResponse
	decode(t, api.do(http.MethodGet, "/ready", "", nil), &health)
	if health.Status != "ready" || health.Records["users"] != 1 {
		t.Errorf("ready = %+v", health)
	}
}

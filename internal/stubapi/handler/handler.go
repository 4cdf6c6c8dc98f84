// Package handler exposes the booking API over HTTP under /api.
package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"staybook/internal/stubapi/repository"
	"staybook/internal/stubapi/service"
	"staybook/pkg/credential"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

const (
	hotelImageField     = "hotelImage"
	profilePictureField = "profilePicture"
	multipartMemory     = 8 << 20
)

type authedHandle func(http.ResponseWriter, *http.Request, httprouter.Params, *credential.Claims)

type APIHandler struct {
	service *service.Service
	log     *logger.Logger
}

func NewAPIHandler(svc *service.Service, log *logger.Logger) *APIHandler {
	return &APIHandler{service: svc, log: log}
}

func (h *APIHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/user/register", h.Register)
	router.POST("/api/user/login", h.Login)
	router.GET("/api/user/profile/:id", h.protect(h.Profile))
	router.PUT("/api/user/profile/edit/:id", h.protect(h.UpdateProfile))

	router.GET("/api/hotel", h.ListHotels)
	router.GET("/api/hotel/single/:id", h.GetHotel)
	router.POST("/api/hotel/create-hotel", h.protect(h.CreateHotel))
	router.DELETE("/api/hotel/:id", h.protect(h.DeleteHotel))

	router.POST("/api/booking/book-hotel", h.protect(h.Book))
	router.GET("/api/booking", h.protect(h.ListBookings))
	router.PATCH("/api/booking/book-cancel/:id", h.protect(h.CancelBooking))

	router.GET("/uploads/:file", h.Upload)
}

// protect resolves the bearer token before calling next.
func (h *APIHandler) protect(next authedHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := h.service.Authenticate(httputil.BearerToken(r))
		if err != nil {
			h.writeError(w, "Authenticate", err)
			return
		}
		next(w, r, ps, claims)
	}
}

func (h *APIHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}
	h.write(w, "Register", http.StatusCreated, resp)
}

func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}
	h.write(w, "Login", http.StatusOK, resp)
}

func (h *APIHandler) Profile(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *credential.Claims) {
	profile, err := h.service.Profile(r.Context(), claims, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Profile", err)
		return
	}
	h.write(w, "Profile", http.StatusOK, profile)
}

func (h *APIHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *credential.Claims) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, "UpdateProfile", apperrors.InvalidInput("Invalid multipart body"))
		return
	}
	picture, err := readUpload(r, profilePictureField)
	if err != nil {
		h.writeError(w, "UpdateProfile", err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims, ps.ByName("id"), r.FormValue("name"), picture)
	if err != nil {
		h.writeError(w, "UpdateProfile", err)
		return
	}
	h.write(w, "UpdateProfile", http.StatusOK, user)
}

func (h *APIHandler) ListHotels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.write(w, "ListHotels", http.StatusOK, h.service.ListHotels(r.Context()))
}

func (h *APIHandler) GetHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotel, err := h.service.GetHotel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetHotel", err)
		return
	}
	h.write(w, "GetHotel", http.StatusOK, hotel)
}

func (h *APIHandler) CreateHotel(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *credential.Claims) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, "CreateHotel", apperrors.InvalidInput("Invalid multipart body"))
		return
	}
	input, err := parseHotelForm(r)
	if err != nil {
		h.writeError(w, "CreateHotel", err)
		return
	}

	hotel, err := h.service.CreateHotel(r.Context(), claims, input)
	if err != nil {
		h.writeError(w, "CreateHotel", err)
		return
	}
	h.write(w, "CreateHotel", http.StatusCreated, hotel)
}

func (h *APIHandler) DeleteHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *credential.Claims) {
	message, err := h.service.DeleteHotel(r.Context(), claims, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "DeleteHotel", err)
		return
	}
	h.write(w, "DeleteHotel", http.StatusOK, model.MessageResponse{Message: message})
}

func (h *APIHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *credential.Claims) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Book", err)
		return
	}

	booking, err := h.service.Book(r.Context(), claims, req)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}
	h.write(w, "Book", http.StatusCreated, booking)
}

func (h *APIHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *credential.Claims) {
	h.write(w, "ListBookings", http.StatusOK, h.service.ListBookings(r.Context(), claims))
}

func (h *APIHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *credential.Claims) {
	var req model.CancelRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CancelBooking", err)
		return
	}

	message, err := h.service.CancelBooking(r.Context(), claims, ps.ByName("id"), req.HotelID)
	if err != nil {
		h.writeError(w, "CancelBooking", err)
		return
	}
	h.write(w, "CancelBooking", http.StatusOK, model.MessageResponse{Message: message})
}

func (h *APIHandler) Upload(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	upload, err := h.service.Upload(ps.ByName("file"))
	if err != nil {
		h.writeError(w, "Upload", err)
		return
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(upload.Data)))
	if _, err := w.Write(upload.Data); err != nil {
		h.log.Error("failed to write upload", "handler", "Upload", "file", upload.Name, "error", err)
	}
}

func (h *APIHandler) write(w http.ResponseWriter, handler string, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("request failed", "handler", handler, "error", err)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func parseHotelForm(r *http.Request) (*service.HotelInput, error) {
	input := &service.HotelInput{
		Name:        r.FormValue("name"),
		Type:        r.FormValue("type"),
		City:        r.FormValue("city"),
		Address:     r.FormValue("address"),
		Description: r.FormValue("description"),
	}

	var err error
	if input.Rating, err = parseFloat(r, "rating"); err != nil {
		return nil, err
	}
	if input.CheapestPrice, err = parseFloat(r, "cheapestPrice"); err != nil {
		return nil, err
	}
	if raw := r.FormValue("rooms"); raw != "" {
		if input.Rooms, err = strconv.Atoi(raw); err != nil {
			return nil, apperrors.InvalidInput("rooms must be a whole number")
		}
	}
	if input.Image, err = readUpload(r, hotelImageField); err != nil {
		return nil, err
	}
	return input, nil
}

func parseFloat(r *http.Request, field string) (float64, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(field + " must be a number")
	}
	return value, nil
}

// readUpload returns the file sent under field, or nil when none was sent.
func readUpload(r *http.Request, field string) (*repository.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid " + field + " upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid " + field + " upload")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			contentType = byExt
		}
	}
	return &repository.Upload{Name: header.Filename, ContentType: contentType, Data: data}, nil
}

package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"servicehub-backend/models"
	"servicehub-backend/services"
	"servicehub-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateBookingStatusInput defines the expected JSON structure for a
// status change
type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type BookingController struct {
	Service *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Service: svc}
}

// CreateBooking handles the multipart creation form: provider_id,
// user_id, date, time, location, description and optional images[]
func (bc *BookingController) CreateBooking(c *gin.Context) {
	input := services.CreateBookingInput{
		ProviderID:  c.PostForm("provider_id"),
		UserID:      c.PostForm("user_id"),
		Date:        c.PostForm("date"),
		Time:        c.PostForm("time"),
		Location:    c.PostForm("location"),
		Description: c.PostForm("description"),
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["images"]
	}

	booking, err := bc.Service.CreateBooking(c.Request.Context(), input, files)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetMyBookings lists bookings for the calling customer, or for a
// provider when provider_id is given instead
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	if providerID := c.Query("provider_id"); providerID != "" {
		bookings, err := bc.Service.ListForProvider(c.Request.Context(), providerID)
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "user_id or provider_id is required")
		return
	}

	bookings, err := bc.Service.ListForCustomer(c.Request.Context(), userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetAllBookings is the administrative view of every booking with
// provider and customer display fields
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	bookings, err := bc.Service.ListAll(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus transitions a booking within the closed status set
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("id")

	var input UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bc.Service.UpdateStatus(c.Request.Context(), bookingID, models.BookingStatus(input.Status))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func respondBookingError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var storageErr *services.StorageError

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrProviderNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Provider not found")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking status")
	case errors.As(err, &validationErr):
		utils.RespondWithError(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &storageErr):
		utils.RespondWithError(c, http.StatusBadGateway, "Storage failure, request aborted")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

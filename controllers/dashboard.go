package controllers

import (
	"errors"
	"net/http"

	"servicehub-backend/config"
	"servicehub-backend/models"
	"servicehub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderDashboard struct {
	TotalBookings     int64   `json:"totalBookings"`
	PendingBookings   int64   `json:"pendingBookings"`
	ConfirmedBookings int64   `json:"confirmedBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	EstimatedEarnings float64 `json:"estimatedEarnings"`
	Rating            float64 `json:"rating"`
	ReviewsCount      int     `json:"reviewsCount"`
}

// GetProviderDashboard summarizes a provider's booking pipeline
func GetProviderDashboard(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid provider ID format")
		return
	}

	var provider models.Provider
	if err := config.DB.First(&provider, "id = ?", providerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Provider not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	overview := ProviderDashboard{
		Rating:       provider.Rating,
		ReviewsCount: provider.ReviewsCount,
	}

	config.DB.Model(&models.Booking{}).
		Where("provider_id = ?", providerID).
		Count(&overview.TotalBookings)

	statusCounts := map[models.BookingStatus]*int64{
		models.BookingStatusPending:   &overview.PendingBookings,
		models.BookingStatusConfirmed: &overview.ConfirmedBookings,
		models.BookingStatusCompleted: &overview.CompletedBookings,
		models.BookingStatusCancelled: &overview.CancelledBookings,
	}
	for status, dest := range statusCounts {
		config.DB.Model(&models.Booking{}).
			Where("provider_id = ? AND status = ?", providerID, status).
			Count(dest)
	}

	// Rough earnings figure: one billable hour per completed booking
	overview.EstimatedEarnings = float64(overview.CompletedBookings) * provider.HourlyRate

	c.JSON(http.StatusOK, overview)
}

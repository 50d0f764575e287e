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

// RegisterProviderInput defines the expected JSON structure for provider
// registration
type RegisterProviderInput struct {
	Email        string  `json:"email" binding:"required,email"`
	FullName     string  `json:"full_name" binding:"required"`
	Password     string  `json:"password" binding:"required,min=8"`
	Phone        string  `json:"phone"`
	BusinessName string  `json:"business_name" binding:"required"`
	ServiceType  string  `json:"service_type" binding:"required"`
	HourlyRate   float64 `json:"hourly_rate" binding:"min=0"`
	Location     string  `json:"location"`
	WorkingHours string  `json:"working_hours"`
}

// RegisterProvider creates a provider account
func RegisterProvider(c *gin.Context) {
	var input RegisterProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var existing models.Provider
	result := config.DB.Where("email = ?", input.Email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	provider := models.Provider{
		Email:        input.Email,
		FullName:     input.FullName,
		Password:     input.Password, // Will be hashed in BeforeCreate hook
		Phone:        input.Phone,
		BusinessName: input.BusinessName,
		ServiceType:  input.ServiceType,
		HourlyRate:   input.HourlyRate,
		Location:     input.Location,
		WorkingHours: input.WorkingHours,
		IsActive:     true,
	}

	if err := config.DB.Create(&provider).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create provider")
		return
	}

	c.JSON(http.StatusCreated, provider)
}

// GetProviders lists active providers, optionally filtered by service
// category
func GetProviders(c *gin.Context) {
	query := config.DB.Where("is_active = ?", true)
	if serviceType := c.Query("service_type"); serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}

	var providers []models.Provider
	if err := query.Order("rating DESC").Find(&providers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve providers")
		return
	}

	c.JSON(http.StatusOK, providers)
}

// GetProvider retrieves a specific provider by ID
func GetProvider(c *gin.Context) {
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

	c.JSON(http.StatusOK, provider)
}

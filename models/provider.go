package models

import (
	"time"

	"servicehub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider is a service vendor with profile and rate information. The
// booking core only ever reads providers; mutation happens through the
// provider registration/management endpoints.
type Provider struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName string    `gorm:"column:full_name;not null" json:"full_name"`
	Password string    `gorm:"not null" json:"-"`
	Phone    string    `json:"phone"`

	BusinessName string  `gorm:"column:business_name" json:"business_name"`
	ServiceType  string  `gorm:"column:service_type" json:"service_type"`
	HourlyRate   float64 `gorm:"column:hourly_rate;type:decimal(10,2)" json:"hourly_rate"`
	Location     string  `json:"location"`
	WorkingHours string  `gorm:"column:working_hours" json:"working_hours"`

	Rating       float64 `gorm:"default:0.0" json:"rating"`
	ReviewsCount int     `gorm:"column:reviews_count;default:0" json:"reviews_count"`
	IsVerified   bool    `gorm:"column:is_verified;default:false" json:"is_verified"`
	Image        string  `gorm:"default:'/images/placeholder.jpg'" json:"image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	Bookings []Booking `gorm:"foreignKey:ProviderID" json:"-"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(p.Password)
	if err != nil {
		return err
	}
	p.Password = hashed
	return
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a member of the closed status set. The
// storage check constraint is backend-specific, so membership is also
// enforced here before anything reaches the database.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking maps the bookings table onto the public API shape. The column
// renames (customer_id/user_id, service_date/date, service_time/time,
// notes/description) live only in these struct tags; every read and write
// goes through this one mapping.
type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID     `gorm:"type:uuid;column:customer_id;index;not null" json:"user_id"`
	ProviderID  uuid.UUID     `gorm:"type:uuid;column:provider_id;index;not null" json:"provider_id"`
	ServiceDate string        `gorm:"column:service_date;not null" json:"date"`
	ServiceTime string        `gorm:"column:service_time;not null" json:"time"`
	Location    string        `gorm:"not null" json:"location"`
	Status      BookingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Notes       string        `gorm:"column:notes;type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images   []BookingImage `gorm:"foreignKey:BookingID" json:"-"`
	Customer *User          `gorm:"foreignKey:CustomerID" json:"-"`
	Provider *Provider      `gorm:"foreignKey:ProviderID" json:"-"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// ImageURLs flattens the attachment rows into the ordered URL list the
// API exposes. Never nil so the JSON field is [] rather than null.
func (b *Booking) ImageURLs() []string {
	urls := make([]string, 0, len(b.Images))
	for _, img := range b.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// BookingImage is one attachment reference, ordered by Position within
// its booking.
type BookingImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;column:booking_id;index;not null" json:"booking_id"`
	URL       string    `gorm:"not null" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`
}

func (i *BookingImage) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

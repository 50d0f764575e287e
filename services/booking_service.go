// services/booking_service.go
package services

import (
	"context"
	"errors"
	"mime/multipart"

	"servicehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingService owns the booking lifecycle: it validates referenced
// entities, assigns identity and timestamps, and transitions status.
// Bookings start as pending and are never physically deleted here.
type BookingService struct {
	db     *gorm.DB
	images *ImageStore
}

func NewBookingService(db *gorm.DB, images *ImageStore) *BookingService {
	return &BookingService{db: db, images: images}
}

// CreateBookingInput carries the public request shape; field names follow
// the API, not the schema.
type CreateBookingInput struct {
	UserID      string
	ProviderID  string
	Date        string
	Time        string
	Location    string
	Description string
}

// BookingResponse is a booking joined with the display fields callers
// render next to it.
type BookingResponse struct {
	models.Booking
	Images        []string `json:"images"`
	ProviderName  string   `json:"provider_name,omitempty"`
	ProviderEmail string   `json:"provider_email,omitempty"`
	UserEmail     string   `json:"user_email,omitempty"`
}

func toResponse(b models.Booking) BookingResponse {
	resp := BookingResponse{Booking: b, Images: b.ImageURLs()}
	if b.Provider != nil {
		resp.ProviderName = b.Provider.BusinessName
		resp.ProviderEmail = b.Provider.Email
	}
	if b.Customer != nil {
		resp.UserEmail = b.Customer.Email
	}
	return resp
}

// CreateBooking validates the referenced user and provider, stores any
// attachments, and persists one pending booking. Attachments are written
// before the insert; if the insert fails they are removed again so a
// failed creation leaves no file behind.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput, files []*multipart.FileHeader) (*BookingResponse, error) {
	missing := missingFields(input)
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	customerID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	providerID, err := uuid.Parse(input.ProviderID)
	if err != nil {
		return nil, ErrProviderNotFound
	}

	var customer models.User
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, &StorageError{Op: "lookup user", Err: err}
	}

	var provider models.Provider
	if err := s.db.WithContext(ctx).First(&provider, "id = ?", providerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, &StorageError{Op: "lookup provider", Err: err}
	}

	booking := models.Booking{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		ProviderID:  provider.ID,
		ServiceDate: input.Date,
		ServiceTime: input.Time,
		Location:    input.Location,
		Notes:       input.Description,
		Status:      models.BookingStatusPending,
	}

	urls, err := s.images.SaveBookingImages(booking.ID.String(), files)
	if err != nil {
		return nil, err
	}
	for i, url := range urls {
		booking.Images = append(booking.Images, models.BookingImage{
			BookingID: booking.ID,
			URL:       url,
			Position:  i,
		})
	}

	// Booking row and attachment rows land in one transaction; readers
	// never see a partial booking.
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&booking).Error
	}); err != nil {
		s.images.RemoveBookingImages(urls)
		return nil, &StorageError{Op: "insert booking", Err: err}
	}

	booking.Customer = &customer
	booking.Provider = &provider
	resp := toResponse(booking)
	return &resp, nil
}

// ListForCustomer returns the customer's bookings, newest first. An
// unknown customer simply yields an empty list.
func (s *BookingService) ListForCustomer(ctx context.Context, userID string) ([]BookingResponse, error) {
	return s.list(ctx, "customer_id = ?", userID)
}

// ListForProvider returns the provider's bookings, newest first.
func (s *BookingService) ListForProvider(ctx context.Context, providerID string) ([]BookingResponse, error) {
	return s.list(ctx, "provider_id = ?", providerID)
}

// ListAll returns every booking joined with provider and customer display
// fields, newest first. Administrative view; no pagination.
func (s *BookingService) ListAll(ctx context.Context) ([]BookingResponse, error) {
	return s.list(ctx, "", nil)
}

func (s *BookingService) list(ctx context.Context, cond string, arg any) ([]BookingResponse, error) {
	var bookings []models.Booking
	q := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Customer").
		Preload("Provider").
		Order("created_at DESC")
	if cond != "" {
		q = q.Where(cond, arg)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, &StorageError{Op: "list bookings", Err: err}
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toResponse(b))
	}
	return responses, nil
}

// UpdateStatus moves a booking to the given status and refreshes
// updated_at. Any member of the closed set is reachable from any other;
// no transition policy is enforced beyond set membership.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) (*BookingResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, &StorageError{Op: "lookup booking", Err: err}
	}

	// Single atomic UPDATE; concurrent updates to the same booking are
	// last-writer-wins. created_at is never touched.
	if err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).
		Error; err != nil {
		return nil, &StorageError{Op: "update status", Err: err}
	}

	var updated models.Booking
	if err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Customer").
		Preload("Provider").
		First(&updated, "id = ?", id).Error; err != nil {
		return nil, &StorageError{Op: "reread booking", Err: err}
	}

	resp := toResponse(updated)
	return &resp, nil
}

func missingFields(input CreateBookingInput) []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"provider_id", input.ProviderID},
		{"user_id", input.UserID},
		{"date", input.Date},
		{"time", input.Time},
		{"location", input.Location},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

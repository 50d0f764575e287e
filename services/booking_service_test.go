package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"servicehub-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Booking{},
		&models.BookingImage{},
		&models.NotificationLog{},
	))
	return db
}

func newTestService(t *testing.T) (*BookingService, *gorm.DB, *ImageStore) {
	t.Helper()
	db := newTestDB(t)
	store := NewImageStoreAt(t.TempDir())
	return NewBookingService(db, store), db, store
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, FullName: "Test Customer", Password: "secret-pass", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProvider(t *testing.T, db *gorm.DB, email string) models.Provider {
	t.Helper()
	provider := models.Provider{
		Email:        email,
		FullName:     "Test Provider",
		Password:     "secret-pass",
		Phone:        "+14155551234",
		BusinessName: "Sparkle Cleaning",
		ServiceType:  "cleaning",
		HourlyRate:   45,
		Location:     "Springfield",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&provider).Error)
	return provider
}

func validInput(user models.User, provider models.Provider) CreateBookingInput {
	return CreateBookingInput{
		UserID:      user.ID.String(),
		ProviderID:  provider.ID.String(),
		Date:        "2024-06-01",
		Time:        "14:00",
		Location:    "123 Main St",
		Description: "deep clean, two bedrooms",
	}
}

func TestCreateBooking(t *testing.T) {
	svc, db, _ := newTestService(t)
	user := seedUser(t, db, "u1@example.com")
	provider := seedProvider(t, db, "p1@example.com")

	booking, err := svc.CreateBooking(context.Background(), validInput(user, provider), nil)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.NotEqual(t, uuid.Nil, booking.ID)
	assert.True(t, booking.CreatedAt.Equal(booking.UpdatedAt), "created_at and updated_at must match at creation")
	assert.Equal(t, user.ID, booking.CustomerID)
	assert.Equal(t, provider.ID, booking.ProviderID)
	assert.Equal(t, "Sparkle Cleaning", booking.ProviderName)
	assert.Equal(t, "p1@example.com", booking.ProviderEmail)
	assert.Equal(t, "u1@example.com", booking.UserEmail)
	assert.Empty(t, booking.Images)

	second, err := svc.CreateBooking(context.Background(), validInput(user, provider), nil)
	require.NoError(t, err)
	assert.NotEqual(t, booking.ID, second.ID, "every booking gets a fresh id")
}

func TestCreateBookingUnknownReferences(t *testing.T) {
	svc, db, _ := newTestService(t)
	user := seedUser(t, db, "u1@example.com")
	provider := seedProvider(t, db, "p1@example.com")

	cases := []struct {
		name    string
		mutate  func(*CreateBookingInput)
		wantErr error
	}{
		{"unknown user", func(in *CreateBookingInput) { in.UserID = uuid.NewString() }, ErrUserNotFound},
		{"malformed user id", func(in *CreateBookingInput) { in.UserID = "not-a-uuid" }, ErrUserNotFound},
		{"unknown provider", func(in *CreateBookingInput) { in.ProviderID = uuid.NewString() }, ErrProviderNotFound},
		{"malformed provider id", func(in *CreateBookingInput) { in.ProviderID = "nope" }, ErrProviderNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(user, provider)
			tc.mutate(&input)

			_, err := svc.CreateBooking(context.Background(), input, nil)
			assert.ErrorIs(t, err, tc.wantErr)

			var count int64
			require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
			assert.Zero(t, count, "failed creation must not persist a row")
		})
	}
}

func TestCreateBookingMissingFields(t *testing.T) {
	svc, db, _ := newTestService(t)
	user := seedUser(t, db, "u1@example.com")
	provider := seedProvider(t, db, "p1@example.com")

	input := validInput(user, provider)
	input.Date = ""
	input.Location = ""

	_, err := svc.CreateBooking(context.Background(), input, nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{"date", "location"}, validationErr.Missing)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateBookingWithImages(t *testing.T) {
	svc, db, store := newTestService(t)
	user := seedUser(t, db, "u1@example.com")
	provider := seedProvider(t, db, "p1@example.com")

	files := multipartFiles(t, map[string][]byte{
		"before.jpg": []byte("jpeg-bytes-1"),
		"after.jpg":  []byte("jpeg-bytes-2"),
	})

	booking, err := svc.CreateBooking(context.Background(), validInput(user, provider), files)
	require.NoError(t, err)
	require.Len(t, booking.Images, 2)

	for _, url := range booking.Images {
		assert.Contains(t, url, "/uploads/bookings/")
		assert.Contains(t, url, booking.ID.String())

		path := filepath.Join(store.Root(), "bookings", filepath.Base(url))
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr, "referenced file must exist on disk")
	}

	// Attachment references survive a later read, in order
	listed, err := svc.ListForCustomer(context.Background(), user.ID.String())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, booking.Images, listed[0].Images)
}

func TestListForCustomer(t *testing.T) {
	svc, db, _ := newTestService(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	provider := seedProvider(t, db, "p1@example.com")

	first, err := svc.CreateBooking(context.Background(), validInput(alice, provider), nil)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	second, err := svc.CreateBooking(context.Background(), validInput(alice, provider), nil)
	require.NoError(t, err)
	_, err = svc.CreateBooking(context.Background(), validInput(bob, provider), nil)
	require.NoError(t, err)

	bookings, err := svc.ListForCustomer(context.Background(), alice.ID.String())
	require.NoError(t, err)
	require.Len(t, bookings, 2, "only the customer's own bookings")
	assert.Equal(t, second.ID, bookings[0].ID, "newest created_at first")
	assert.Equal(t, first.ID, bookings[1].ID)

	again, err := svc.ListForCustomer(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, bookings, again, "repeated reads with no writes are identical")

	empty, err := svc.ListForCustomer(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, empty, "no bookings is an empty list, not an error")
}

func TestListForProviderAndAll(t *testing.T) {
	svc, db, _ := newTestService(t)
	user := seedUser(t, db, "u1@example.com")
	p1 := seedProvider(t, db, "p1@example.com")
	p2 := seedProvider(t, db, "p2@example.com")

	_, err := svc.CreateBooking(context.Background(), validInput(user, p1), nil)
	require.NoError(t, err)
	_, err = svc.CreateBooking(context.Background(), validInput(user, p2), nil)
	require.NoError(t, err)

	forP1, err := svc.ListForProvider(context.Background(), p1.ID.String())
	require.NoError(t, err)
	require.Len(t, forP1, 1)
	assert.Equal(t, p1.ID, forP1[0].ProviderID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, b := range all {
		assert.NotEmpty(t, b.ProviderName, "admin view carries provider display fields")
		assert.NotEmpty(t, b.UserEmail, "admin view carries customer display fields")
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, db, _ := newTestService(t)
	user := seedUser(t, db, "u1@example.com")
	provider := seedProvider(t, db, "p1@example.com")

	created, err := svc.CreateBooking(context.Background(), validInput(user, provider), nil)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	updated, err := svc.UpdateStatus(context.Background(), created.ID.String(), models.BookingStatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at must advance")
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "created_at never changes")
}

func TestUpdateStatusUnknownBooking(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), models.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.UpdateStatus(context.Background(), "not-a-uuid", models.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	svc, db, _ := newTestService(t)
	user := seedUser(t, db, "u1@example.com")
	provider := seedProvider(t, db, "p1@example.com")

	created, err := svc.CreateBooking(context.Background(), validInput(user, provider), nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID.String(), models.BookingStatus("rejected"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var row models.Booking
	require.NoError(t, db.First(&row, "id = ?", created.ID).Error)
	assert.Equal(t, models.BookingStatusPending, row.Status, "no row may transition to an invalid value")
}

// Scenario from the booking lifecycle contract: create, confirm, list.
func TestBookingLifecycleScenario(t *testing.T) {
	svc, db, _ := newTestService(t)
	u1 := seedUser(t, db, "u1@example.com")
	p1 := seedProvider(t, db, "p1@example.com")

	created, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		UserID:     u1.ID.String(),
		ProviderID: p1.ID.String(),
		Date:       "2024-06-01",
		Time:       "14:00",
		Location:   "123 Main St",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, created.Status)

	time.Sleep(20 * time.Millisecond)
	confirmed, err := svc.UpdateStatus(context.Background(), created.ID.String(), models.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.UpdatedAt.After(created.UpdatedAt))

	bookings, err := svc.ListForCustomer(context.Background(), u1.ID.String())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, created.ID, bookings[0].ID)
	assert.Equal(t, models.BookingStatusConfirmed, bookings[0].Status)
}

// multipartFiles builds real FileHeaders by round-tripping a multipart
// form through its reader.
func multipartFiles(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["images"]
}

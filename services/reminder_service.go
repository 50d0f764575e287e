// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"servicehub-backend/models"
	"servicehub-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService tells providers about tomorrow's confirmed bookings.
// It runs off a daily cron sweep and never feeds back into booking
// state; a failed send is logged and retried the next day at most.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendUpcomingReminders)

	c.Start()
	log.Println("Booking reminder scheduler started")
}

// SendUpcomingReminders notifies providers of confirmed bookings whose
// service date is tomorrow.
func (s *ReminderService) SendUpcomingReminders() {
	log.Println("Starting booking reminder sweep...")

	tomorrow := utils.BeginningOfDay(time.Now()).AddDate(0, 0, 1).Format("2006-01-02")

	var bookings []models.Booking
	if err := s.db.
		Preload("Customer").
		Preload("Provider").
		Where("status = ? AND service_date = ?", models.BookingStatusConfirmed, tomorrow).
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to fetch bookings for %s: %v", tomorrow, err)
		return
	}

	for _, booking := range bookings {
		s.sendReminder(booking)
	}

	log.Printf("Booking reminder sweep completed: %d bookings", len(bookings))
}

func (s *ReminderService) sendReminder(booking models.Booking) {
	if booking.Provider == nil || booking.Customer == nil {
		log.Printf("Booking %s: missing provider or customer, skipping reminder", booking.ID)
		return
	}
	if !utils.ValidatePhone(booking.Provider.Phone) {
		log.Printf("Booking %s: provider %s has no usable phone number", booking.ID, booking.ProviderID)
		return
	}

	message := fmt.Sprintf("Reminder: %s has a booking with %s tomorrow at %s, %s.",
		booking.Provider.BusinessName,
		booking.Customer.FullName,
		booking.ServiceTime,
		booking.Location)

	// WhatsApp when the number is in E.164 form, SMS otherwise
	channel := "sms"
	to := booking.Provider.Phone
	if strings.HasPrefix(booking.Provider.Phone, "+") {
		to = "whatsapp:" + booking.Provider.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder for booking %s: %v", booking.ID, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent for booking %s, SID: %s", booking.ID, *resp.Sid)
	} else {
		log.Printf("Reminder sent for booking %s, but no SID returned", booking.ID)
	}

	notificationLog := models.NotificationLog{
		BookingID:    booking.ID,
		ProviderID:   booking.ProviderID,
		CustomerID:   booking.CustomerID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&notificationLog).Error; err != nil {
		log.Printf("Failed to log reminder for booking %s: %v", booking.ID, err)
	}
}

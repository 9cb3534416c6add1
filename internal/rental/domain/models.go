// Package domain contains rental applications, bookings, and leads.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ApplicationStatus tracks an application through admin review.
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationDeclined  ApplicationStatus = "declined"
)

// PlanType distinguishes plain rentals from rent-to-own applications.
type PlanType string

const (
	PlanTypeRent      PlanType = "rent"
	PlanTypeRentToOwn PlanType = "rent_to_own"
)

// BookingStatus tracks an approved application's rental window.
type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCanceled  BookingStatus = "canceled"
)

// RentalApplication is a customer's request to rent a listed bike.
type RentalApplication struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	ListingID      snowflake.ID      `gorm:"not null;index" json:"listing_id"`
	ApplicantName  string            `gorm:"type:text;not null" json:"applicant_name"`
	ApplicantEmail string            `gorm:"type:text;not null" json:"applicant_email"`
	PlanType       PlanType          `gorm:"type:text;not null" json:"plan_type"`
	Status         ApplicationStatus `gorm:"type:text;not null;default:submitted;index" json:"status"`
	Note           string            `gorm:"type:text;not null;default:''" json:"note"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (RentalApplication) TableName() string { return "rental_applications" }

// Booking is created when an application is approved.
type Booking struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ApplicationID snowflake.ID  `gorm:"not null" json:"application_id"`
	ListingID     snowflake.ID  `gorm:"not null" json:"listing_id"`
	StartsOn      time.Time     `gorm:"not null" json:"starts_on"`
	EndsOn        *time.Time    `gorm:"" json:"ends_on"`
	Status        BookingStatus `gorm:"type:text;not null;default:scheduled" json:"status"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }

// Lead is a contact-form capture surfaced on the admin dashboard.
type Lead struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"type:text;not null" json:"name"`
	Email     string        `gorm:"type:text;not null" json:"email"`
	Message   string        `gorm:"type:text;not null;default:''" json:"message"`
	ListingID *snowflake.ID `gorm:"" json:"listing_id"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Lead) TableName() string { return "leads" }

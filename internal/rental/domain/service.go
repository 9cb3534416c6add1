package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	SubmitApplication(ctx context.Context, req SubmitApplicationRequest) (RentalApplication, error)
	ListApplications(ctx context.Context, status string) ([]RentalApplication, error)
	// ReviewApplication moves an application to the requested status. Approval
	// also creates a scheduled booking starting on startsOn.
	ReviewApplication(ctx context.Context, id string, status string, startsOn time.Time) (RentalApplication, error)

	ListBookings(ctx context.Context) ([]Booking, error)

	CaptureLead(ctx context.Context, req CaptureLeadRequest) (Lead, error)
	ListLeads(ctx context.Context) ([]Lead, error)
}

type SubmitApplicationRequest struct {
	ListingID      string `json:"listing_id"`
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
	PlanType       string `json:"plan_type"`
	Note           string `json:"note"`
}

type CaptureLeadRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	ListingID string `json:"listing_id"`
}

var (
	ErrInvalidApplicationID = errors.New("invalid_application_id")
	ErrApplicationNotFound  = errors.New("application_not_found")
	ErrInvalidListing       = errors.New("invalid_listing")
	ErrInvalidApplicant     = errors.New("invalid_applicant")
	ErrInvalidPlanType      = errors.New("invalid_plan_type")
	ErrInvalidTransition    = errors.New("invalid_status_transition")
	ErrInvalidLead          = errors.New("invalid_lead")
)

package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	rentaldomain "github.com/Huve14/Go-Moto-sub000/internal/rental/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	listingRepo listingdomain.Repository
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	ListingRepo listingdomain.Repository
}

func NewService(p Params) rentaldomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("rental.service"),
		genID:       p.GenID,
		listingRepo: p.ListingRepo,
	}
}

func (s *Service) SubmitApplication(ctx context.Context, req rentaldomain.SubmitApplicationRequest) (rentaldomain.RentalApplication, error) {
	listingID, err := parseID(req.ListingID)
	if err != nil {
		return rentaldomain.RentalApplication{}, rentaldomain.ErrInvalidListing
	}

	name := strings.TrimSpace(req.ApplicantName)
	email := strings.TrimSpace(req.ApplicantEmail)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return rentaldomain.RentalApplication{}, rentaldomain.ErrInvalidApplicant
	}

	planType := rentaldomain.PlanType(strings.TrimSpace(req.PlanType))
	if planType != rentaldomain.PlanTypeRent && planType != rentaldomain.PlanTypeRentToOwn {
		return rentaldomain.RentalApplication{}, rentaldomain.ErrInvalidPlanType
	}

	listing, err := s.listingRepo.FindByID(ctx, s.db, listingID)
	if err != nil {
		return rentaldomain.RentalApplication{}, err
	}
	if listing == nil || listing.ListingStatus != listingdomain.StatusPublished {
		return rentaldomain.RentalApplication{}, rentaldomain.ErrInvalidListing
	}

	application := rentaldomain.RentalApplication{
		ID:             s.genID.Generate(),
		ListingID:      listingID,
		ApplicantName:  name,
		ApplicantEmail: email,
		PlanType:       planType,
		Status:         rentaldomain.ApplicationSubmitted,
		Note:           strings.TrimSpace(req.Note),
	}
	if err := s.db.WithContext(ctx).Create(&application).Error; err != nil {
		return rentaldomain.RentalApplication{}, err
	}
	return application, nil
}

func (s *Service) ListApplications(ctx context.Context, status string) ([]rentaldomain.RentalApplication, error) {
	query := s.db.WithContext(ctx).Model(&rentaldomain.RentalApplication{})
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}

	var applications []rentaldomain.RentalApplication
	if err := query.Order("created_at DESC").Limit(100).Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (s *Service) ReviewApplication(ctx context.Context, id string, status string, startsOn time.Time) (rentaldomain.RentalApplication, error) {
	applicationID, err := parseID(id)
	if err != nil {
		return rentaldomain.RentalApplication{}, rentaldomain.ErrInvalidApplicationID
	}

	target := rentaldomain.ApplicationStatus(strings.TrimSpace(status))
	switch target {
	case rentaldomain.ApplicationReviewing, rentaldomain.ApplicationApproved, rentaldomain.ApplicationDeclined:
	default:
		return rentaldomain.RentalApplication{}, rentaldomain.ErrInvalidTransition
	}

	var application rentaldomain.RentalApplication
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&application, "id = ?", applicationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return rentaldomain.ErrApplicationNotFound
			}
			return err
		}

		if !transitionAllowed(application.Status, target) {
			return rentaldomain.ErrInvalidTransition
		}

		now := time.Now().UTC()
		if err := tx.Model(&rentaldomain.RentalApplication{}).
			Where("id = ?", applicationID).
			Updates(map[string]any{"status": target, "updated_at": now}).Error; err != nil {
			return err
		}
		application.Status = target
		application.UpdatedAt = now

		if target != rentaldomain.ApplicationApproved {
			return nil
		}

		start := startsOn.UTC()
		if start.IsZero() {
			start = now
		}
		booking := rentaldomain.Booking{
			ID:            s.genID.Generate(),
			ApplicationID: application.ID,
			ListingID:     application.ListingID,
			StartsOn:      start,
			Status:        rentaldomain.BookingScheduled,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return rentaldomain.RentalApplication{}, err
	}
	return application, nil
}

func (s *Service) ListBookings(ctx context.Context) ([]rentaldomain.Booking, error) {
	var bookings []rentaldomain.Booking
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(100).Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Service) CaptureLead(ctx context.Context, req rentaldomain.CaptureLeadRequest) (rentaldomain.Lead, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return rentaldomain.Lead{}, rentaldomain.ErrInvalidLead
	}

	lead := rentaldomain.Lead{
		ID:      s.genID.Generate(),
		Name:    name,
		Email:   email,
		Message: strings.TrimSpace(req.Message),
	}
	if raw := strings.TrimSpace(req.ListingID); raw != "" {
		listingID, err := parseID(raw)
		if err != nil {
			return rentaldomain.Lead{}, rentaldomain.ErrInvalidLead
		}
		lead.ListingID = &listingID
	}

	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return rentaldomain.Lead{}, err
	}
	return lead, nil
}

func (s *Service) ListLeads(ctx context.Context) ([]rentaldomain.Lead, error) {
	var leads []rentaldomain.Lead
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(100).Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func transitionAllowed(from, to rentaldomain.ApplicationStatus) bool {
	switch from {
	case rentaldomain.ApplicationSubmitted:
		return to == rentaldomain.ApplicationReviewing || to == rentaldomain.ApplicationApproved || to == rentaldomain.ApplicationDeclined
	case rentaldomain.ApplicationReviewing:
		return to == rentaldomain.ApplicationApproved || to == rentaldomain.ApplicationDeclined
	default:
		return false
	}
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, rentaldomain.ErrInvalidApplicationID
	}
	return snowflake.ID(value), nil
}

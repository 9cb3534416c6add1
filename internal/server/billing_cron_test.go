package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Huve14/Go-Moto-sub000/internal/billing/lifecycle"
	"github.com/Huve14/Go-Moto-sub000/internal/clock"
	"github.com/Huve14/Go-Moto-sub000/internal/config"
	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	listingrepo "github.com/Huve14/Go-Moto-sub000/internal/listing/repository"
	maildomain "github.com/Huve14/Go-Moto-sub000/internal/mail/domain"
	sellerdomain "github.com/Huve14/Go-Moto-sub000/internal/seller/domain"
	sellerrepo "github.com/Huve14/Go-Moto-sub000/internal/seller/repository"
	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	subscriptionrepo "github.com/Huve14/Go-Moto-sub000/internal/subscription/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingSender struct {
	sent []maildomain.Message
}

func (s *recordingSender) Send(_ context.Context, msg maildomain.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

const testCronSecret = "cron-test-secret"

func newTestServer(t *testing.T, now time.Time) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&sellerdomain.Seller{},
		&subscriptiondomain.Subscription{},
		&listingdomain.Listing{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		Environment: "test",
		CronSecret:  testCronSecret,
		AppBaseURL:  "https://motosub.test",
	}
	runner := lifecycle.NewRunner(lifecycle.Params{
		DB:               db,
		Log:              zap.NewNop(),
		Config:           cfg,
		SubscriptionRepo: subscriptionrepo.Provide(),
		ListingRepo:      listingrepo.Provide(),
		SellerRepo:       sellerrepo.Provide(),
		Sender:           &recordingSender{},
	})

	engine := gin.New()
	s := NewServer(Params{
		Engine: engine,
		DB:     db,
		Log:    zap.NewNop(),
		Config: cfg,
		Clock:  clock.Fixed(now),
		Runner: runner,
	})
	s.RegisterRoutes()
	return s, db
}

func seedOverdueSubscription(t *testing.T, db *gorm.DB, now time.Time) snowflake.ID {
	t.Helper()
	seller := sellerdomain.Seller{ID: 10, Email: "seller@example.com", DisplayName: "Overdue Seller"}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("insert seller: %v", err)
	}

	due := now.Add(-6 * time.Hour)
	sub := subscriptiondomain.Subscription{
		ID:             100,
		SellerID:       seller.ID,
		PlanID:         1,
		Status:         subscriptiondomain.StatusActive,
		NextPaymentDue: &due,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
	return sub.ID
}

func postCron(s *Server, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/cron/billing", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func TestBillingCronRejectsMissingAndWrongSecret(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s, db := newTestServer(t, now)
	subID := seedOverdueSubscription(t, db, now)

	for _, authorization := range []string{"", "Bearer wrong-secret", "Basic " + testCronSecret, testCronSecret} {
		rec := postCron(s, authorization)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("auth %q: expected 401, got %d", authorization, rec.Code)
		}
	}

	// No pass may have touched the row.
	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", subID).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.Status != subscriptiondomain.StatusActive {
		t.Fatalf("expected active after rejected requests, got %s", sub.Status)
	}
	if sub.GraceUntil != nil {
		t.Fatalf("expected no grace window, got %s", sub.GraceUntil)
	}
}

func TestBillingCronRejectsWhenSecretUnconfigured(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s, _ := newTestServer(t, now)
	s.cfg.CronSecret = ""

	rec := postCron(s, "Bearer "+testCronSecret)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBillingCronSuccessEnvelope(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s, db := newTestServer(t, now)
	subID := seedOverdueSubscription(t, db, now)

	rec := postCron(s, "Bearer "+testCronSecret)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
		Results   struct {
			MarkedPastDue int      `json:"markedPastDue"`
			Paused        int      `json:"paused"`
			RemindersSent int      `json:"remindersSent"`
			Errors        []string `json:"errors"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success=true: %s", rec.Body.String())
	}
	if body.Message != "Billing cron job completed" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Results.MarkedPastDue != 1 || body.Results.Paused != 0 || body.Results.RemindersSent != 1 {
		t.Fatalf("unexpected tally: %+v", body.Results)
	}
	if len(body.Results.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", body.Results.Errors)
	}

	at, err := time.Parse(time.RFC3339, body.Timestamp)
	if err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
	if !at.Equal(now) {
		t.Fatalf("expected timestamp %s, got %s", now, at)
	}

	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", subID).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.Status != subscriptiondomain.StatusPastDue {
		t.Fatalf("expected past_due, got %s", sub.Status)
	}
}

func TestBillingCronAliasRouteRuns(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s, _ := newTestServer(t, now)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/billing-daily", nil)
	req.Header.Set("Authorization", "Bearer "+testCronSecret)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on alias route, got %d", rec.Code)
	}
}

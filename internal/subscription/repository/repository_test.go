package repository

import (
	"context"
	"testing"
	"time"

	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	if err := db.AutoMigrate(&subscriptiondomain.Subscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func insert(t *testing.T, db *gorm.DB, id int64, status subscriptiondomain.SubscriptionStatus, due time.Time, grace *time.Time) {
	t.Helper()
	sub := subscriptiondomain.Subscription{
		ID:             snowflake.ID(id),
		SellerID:       snowflake.ID(id + 9000),
		PlanID:         1,
		Status:         status,
		NextPaymentDue: &due,
		GraceUntil:     grace,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestFindDueActiveIncludesDueTodayAndEarlier(t *testing.T) {
	db := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	insert(t, db, 1, subscriptiondomain.StatusActive, time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC), nil)
	insert(t, db, 2, subscriptiondomain.StatusActive, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), nil)
	insert(t, db, 3, subscriptiondomain.StatusActive, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), nil)
	insert(t, db, 4, subscriptiondomain.StatusPaused, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), nil)

	due, err := repo.FindDueActive(ctx, db, now)
	if err != nil {
		t.Fatalf("find due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due subscriptions, got %d", len(due))
	}
	if due[0].ID != 1 || due[1].ID != 2 {
		t.Fatalf("unexpected candidates: %v, %v", due[0].ID, due[1].ID)
	}
}

func TestMarkPastDueIsConditionalOnActiveStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	grace := due.Add(subscriptiondomain.GracePeriod)
	insert(t, db, 1, subscriptiondomain.StatusActive, due, nil)

	changed, err := repo.MarkPastDue(ctx, db, 1, grace, now)
	if err != nil {
		t.Fatalf("mark past due: %v", err)
	}
	if !changed {
		t.Fatalf("expected transition to apply")
	}

	// A second attempt finds the row no longer active and must not touch it.
	changed, err = repo.MarkPastDue(ctx, db, 1, grace.Add(time.Hour), now)
	if err != nil {
		t.Fatalf("second mark past due: %v", err)
	}
	if changed {
		t.Fatalf("expected conditional update to skip non-active row")
	}

	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", 1).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if sub.GraceUntil == nil || !sub.GraceUntil.UTC().Equal(grace) {
		t.Fatalf("grace_until overwritten by losing update: %v", sub.GraceUntil)
	}
}

func TestFindGraceExpiredUsesStrictCutoff(t *testing.T) {
	db := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	now := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	expired := due.Add(subscriptiondomain.GracePeriod)
	insert(t, db, 1, subscriptiondomain.StatusPastDue, due, &expired)

	exactlyNow := now
	insert(t, db, 2, subscriptiondomain.StatusPastDue, due, &exactlyNow)

	future := now.Add(time.Hour)
	insert(t, db, 3, subscriptiondomain.StatusPastDue, due, &future)

	rows, err := repo.FindGraceExpired(ctx, db, now)
	if err != nil {
		t.Fatalf("find grace expired: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("expected only the expired row, got %v", rows)
	}
}

func TestFindGraceReminderDueMatchesTwoDayWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	now := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)

	dueMatch := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	graceMatch := dueMatch.Add(subscriptiondomain.GracePeriod)
	insert(t, db, 1, subscriptiondomain.StatusPastDue, dueMatch, &graceMatch)

	dueEarly := time.Date(2024, 1, 11, 15, 0, 0, 0, time.UTC)
	graceEarly := dueEarly.Add(subscriptiondomain.GracePeriod)
	insert(t, db, 2, subscriptiondomain.StatusPastDue, dueEarly, &graceEarly)

	dueLate := time.Date(2024, 1, 9, 15, 0, 0, 0, time.UTC)
	graceLate := dueLate.Add(subscriptiondomain.GracePeriod)
	insert(t, db, 3, subscriptiondomain.StatusPastDue, dueLate, &graceLate)

	rows, err := repo.FindGraceReminderDue(ctx, db, now)
	if err != nil {
		t.Fatalf("find reminder due: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("expected only the two-day-old row, got %v", rows)
	}
}

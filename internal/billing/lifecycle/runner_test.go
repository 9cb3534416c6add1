package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Huve14/Go-Moto-sub000/internal/config"
	"github.com/Huve14/Go-Moto-sub000/internal/events"
	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	listingrepo "github.com/Huve14/Go-Moto-sub000/internal/listing/repository"
	maildomain "github.com/Huve14/Go-Moto-sub000/internal/mail/domain"
	sellerdomain "github.com/Huve14/Go-Moto-sub000/internal/seller/domain"
	sellerrepo "github.com/Huve14/Go-Moto-sub000/internal/seller/repository"
	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	subscriptionrepo "github.com/Huve14/Go-Moto-sub000/internal/subscription/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeSender struct {
	sent []maildomain.Message
	fail bool
}

func (f *fakeSender) Send(_ context.Context, msg maildomain.Message) error {
	if f.fail {
		return errors.New("mail gateway down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupLifecycleDB(t *testing.T) *gorm.DB {
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

	err = db.AutoMigrate(
		&sellerdomain.Seller{},
		&subscriptiondomain.Subscription{},
		&listingdomain.Listing{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRunner(t *testing.T, db *gorm.DB, sender maildomain.Sender) *Runner {
	t.Helper()
	return newTestRunnerWithRepos(t, db, sender, subscriptionrepo.Provide(), nil)
}

func newTestRunnerWithRepos(t *testing.T, db *gorm.DB, sender maildomain.Sender, subs subscriptiondomain.Repository, outbox *events.Outbox) *Runner {
	t.Helper()
	return NewRunner(Params{
		DB:               db,
		Log:              zap.NewNop(),
		Config:           config.Config{AppBaseURL: "https://motosub.test"},
		SubscriptionRepo: subs,
		ListingRepo:      listingrepo.Provide(),
		SellerRepo:       sellerrepo.Provide(),
		Sender:           sender,
		Outbox:           outbox,
	})
}

func newTestOutbox(t *testing.T, db *gorm.DB) *events.Outbox {
	t.Helper()
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return events.NewOutbox(db, node)
}

func createBillingEventsTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Exec(`CREATE TABLE billing_events (
		id BIGINT PRIMARY KEY,
		subscription_id BIGINT NOT NULL,
		seller_id BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '{}',
		dedupe_key TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error
	if err != nil {
		t.Fatalf("create billing_events: %v", err)
	}
}

func countEvents(t *testing.T, db *gorm.DB, eventType string) int64 {
	t.Helper()
	var count int64
	err := db.Table("billing_events").Where("event_type = ?", eventType).Count(&count).Error
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	return count
}

var nextID snowflake.ID = 1000

func newID() snowflake.ID {
	nextID++
	return nextID
}

func insertSeller(t *testing.T, db *gorm.DB, email string) snowflake.ID {
	t.Helper()
	seller := sellerdomain.Seller{ID: newID(), Email: email, DisplayName: "Test Seller"}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("insert seller: %v", err)
	}
	return seller.ID
}

func insertSubscription(t *testing.T, db *gorm.DB, sellerID snowflake.ID, status subscriptiondomain.SubscriptionStatus, due time.Time, graceUntil *time.Time) snowflake.ID {
	t.Helper()
	sub := subscriptiondomain.Subscription{
		ID:             newID(),
		SellerID:       sellerID,
		PlanID:         newID(),
		Status:         status,
		NextPaymentDue: &due,
		GraceUntil:     graceUntil,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
	return sub.ID
}

func insertListing(t *testing.T, db *gorm.DB, sellerID snowflake.ID, status listingdomain.ListingStatus) snowflake.ID {
	t.Helper()
	listing := listingdomain.Listing{
		ID:            newID(),
		SellerID:      sellerID,
		Title:         "Trek FX 3",
		ListingStatus: status,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("insert listing: %v", err)
	}
	return listing.ID
}

func loadSubscription(t *testing.T, db *gorm.DB, id snowflake.ID) subscriptiondomain.Subscription {
	t.Helper()
	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", id).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	return sub
}

func loadListing(t *testing.T, db *gorm.DB, id snowflake.ID) listingdomain.Listing {
	t.Helper()
	var listing listingdomain.Listing
	if err := db.First(&listing, "id = ?", id).Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	return listing
}

func TestRunMarksDueSubscriptionPastDue(t *testing.T) {
	db := setupLifecycleDB(t)
	sender := &fakeSender{}
	runner := newTestRunner(t, db, sender)

	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	sellerID := insertSeller(t, db, "seller@example.com")
	subID := insertSubscription(t, db, sellerID, subscriptiondomain.StatusActive, due, nil)

	summary, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.MarkedPastDue != 1 {
		t.Fatalf("expected markedPastDue=1, got %d", summary.MarkedPastDue)
	}
	if summary.RemindersSent != 1 {
		t.Fatalf("expected remindersSent=1, got %d", summary.RemindersSent)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", summary.Errors)
	}

	sub := loadSubscription(t, db, subID)
	if sub.Status != subscriptiondomain.StatusPastDue {
		t.Fatalf("expected past_due, got %s", sub.Status)
	}
	wantGrace := due.Add(subscriptiondomain.GracePeriod)
	if sub.GraceUntil == nil || !sub.GraceUntil.UTC().Equal(wantGrace) {
		t.Fatalf("expected grace_until %v, got %v", wantGrace, sub.GraceUntil)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "seller@example.com" {
		t.Fatalf("expected one email to seller, got %v", sender.sent)
	}
}

func TestRunLeavesFutureDueUntouched(t *testing.T) {
	db := setupLifecycleDB(t)
	runner := newTestRunner(t, db, &fakeSender{})

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	sellerID := insertSeller(t, db, "seller@example.com")
	subID := insertSubscription(t, db, sellerID, subscriptiondomain.StatusActive, due, nil)

	summary, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.MarkedPastDue != 0 || summary.Paused != 0 || summary.RemindersSent != 0 {
		t.Fatalf("expected empty tally, got %+v", summary)
	}

	sub := loadSubscription(t, db, subID)
	if sub.Status != subscriptiondomain.StatusActive || sub.GraceUntil != nil {
		t.Fatalf("subscription changed unexpectedly: %+v", sub)
	}
}

func TestRunPausesGraceExpiredAndHidesListings(t *testing.T) {
	db := setupLifecycleDB(t)
	sender := &fakeSender{}
	runner := newTestRunner(t, db, sender)

	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	grace := due.Add(subscriptiondomain.GracePeriod)
	now := time.Date(2024, 1, 14, 0, 0, 1, 0, time.UTC)

	sellerID := insertSeller(t, db, "seller@example.com")
	subID := insertSubscription(t, db, sellerID, subscriptiondomain.StatusPastDue, due, &grace)
	publishedID := insertListing(t, db, sellerID, listingdomain.StatusPublished)
	draftID := insertListing(t, db, sellerID, listingdomain.StatusDraft)

	summary, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Paused != 1 {
		t.Fatalf("expected paused=1, got %d", summary.Paused)
	}

	sub := loadSubscription(t, db, subID)
	if sub.Status != subscriptiondomain.StatusPaused {
		t.Fatalf("expected paused, got %s", sub.Status)
	}
	if got := loadListing(t, db, publishedID).ListingStatus; got != listingdomain.StatusPaused {
		t.Fatalf("expected published listing paused, got %s", got)
	}
	if got := loadListing(t, db, draftID).ListingStatus; got != listingdomain.StatusDraft {
		t.Fatalf("expected draft listing untouched, got %s", got)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one paused notification, got %d", len(sender.sent))
	}
}

func TestRunIsIdempotentAcrossConsecutiveRuns(t *testing.T) {
	db := setupLifecycleDB(t)
	runner := newTestRunner(t, db, &fakeSender{})

	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	grace := due.Add(subscriptiondomain.GracePeriod)
	now := time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)

	sellerID := insertSeller(t, db, "seller@example.com")
	insertSubscription(t, db, sellerID, subscriptiondomain.StatusPastDue, due, &grace)
	insertListing(t, db, sellerID, listingdomain.StatusPublished)

	first, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Paused != 1 {
		t.Fatalf("expected paused=1 on first run, got %d", first.Paused)
	}

	second, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.MarkedPastDue != 0 || second.Paused != 0 || second.RemindersSent != 0 {
		t.Fatalf("expected empty tally on second run, got %+v", second)
	}
}

func TestEmailFailureDoesNotRollBackTransition(t *testing.T) {
	db := setupLifecycleDB(t)
	sender := &fakeSender{fail: true}
	runner := newTestRunner(t, db, sender)

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	sellerID := insertSeller(t, db, "seller@example.com")
	due := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	subID := insertSubscription(t, db, sellerID, subscriptiondomain.StatusActive, due, nil)

	summary, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.MarkedPastDue != 1 {
		t.Fatalf("expected markedPastDue=1, got %d", summary.MarkedPastDue)
	}
	if summary.RemindersSent != 0 {
		t.Fatalf("expected remindersSent=0, got %d", summary.RemindersSent)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("expected one send error, got %v", summary.Errors)
	}
	if summary.Errors[0].Kind != KindEmailSend {
		t.Fatalf("expected email_send error, got %s", summary.Errors[0].Kind)
	}

	if got := loadSubscription(t, db, subID).Status; got != subscriptiondomain.StatusPastDue {
		t.Fatalf("expected past_due despite email failure, got %s", got)
	}
}

func TestGraceReminderSentExactlyTwoDaysAfterDue(t *testing.T) {
	db := setupLifecycleDB(t)
	sender := &fakeSender{}
	runner := newTestRunner(t, db, sender)

	now := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)
	sellerID := insertSeller(t, db, "seller@example.com")

	// Due exactly two days before the run date, still inside grace.
	dueTwoDays := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	graceTwoDays := dueTwoDays.Add(subscriptiondomain.GracePeriod)
	insertSubscription(t, db, sellerID, subscriptiondomain.StatusPastDue, dueTwoDays, &graceTwoDays)

	// Due only one day ago: not eligible yet.
	otherSeller := insertSeller(t, db, "other@example.com")
	dueOneDay := time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC)
	graceOneDay := dueOneDay.Add(subscriptiondomain.GracePeriod)
	insertSubscription(t, db, otherSeller, subscriptiondomain.StatusPastDue, dueOneDay, &graceOneDay)

	summary, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.RemindersSent != 1 {
		t.Fatalf("expected remindersSent=1, got %d", summary.RemindersSent)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "seller@example.com" {
		t.Fatalf("expected final reminder to seller@example.com, got %v", sender.sent)
	}
}

func TestRunExampleScenario(t *testing.T) {
	db := setupLifecycleDB(t)
	runner := newTestRunner(t, db, &fakeSender{})

	sellerID := insertSeller(t, db, "seller@example.com")
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	subID := insertSubscription(t, db, sellerID, subscriptiondomain.StatusActive, due, nil)
	listingID := insertListing(t, db, sellerID, listingdomain.StatusPublished)

	first, err := runner.Run(context.Background(), time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.MarkedPastDue != 1 {
		t.Fatalf("expected markedPastDue=1, got %d", first.MarkedPastDue)
	}
	sub := loadSubscription(t, db, subID)
	wantGrace := time.Date(2024, 1, 13, 9, 0, 0, 0, time.UTC)
	if sub.GraceUntil == nil || !sub.GraceUntil.UTC().Equal(wantGrace) {
		t.Fatalf("expected grace_until %v, got %v", wantGrace, sub.GraceUntil)
	}

	second, err := runner.Run(context.Background(), time.Date(2024, 1, 14, 0, 0, 1, 0, time.UTC))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Paused != 1 {
		t.Fatalf("expected paused=1, got %d", second.Paused)
	}
	if got := loadListing(t, db, listingID).ListingStatus; got != listingdomain.StatusPaused {
		t.Fatalf("expected listing paused, got %s", got)
	}
}

func TestRunRecordsTransitionEvents(t *testing.T) {
	db := setupLifecycleDB(t)
	createBillingEventsTable(t, db)
	runner := newTestRunnerWithRepos(t, db, &fakeSender{}, subscriptionrepo.Provide(), newTestOutbox(t, db))

	sellerID := insertSeller(t, db, "seller@example.com")
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	insertSubscription(t, db, sellerID, subscriptiondomain.StatusActive, due, nil)
	insertListing(t, db, sellerID, listingdomain.StatusPublished)

	if _, err := runner.Run(context.Background(), due); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if got := countEvents(t, db, events.EventSubscriptionPastDue); got != 1 {
		t.Fatalf("expected 1 past_due event, got %d", got)
	}

	if _, err := runner.Run(context.Background(), time.Date(2024, 1, 14, 0, 0, 1, 0, time.UTC)); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := countEvents(t, db, events.EventSubscriptionPaused); got != 1 {
		t.Fatalf("expected 1 paused event, got %d", got)
	}
	if got := countEvents(t, db, events.EventListingsPaused); got != 1 {
		t.Fatalf("expected 1 listings event, got %d", got)
	}
}

func TestEventPublishFailureIsSoft(t *testing.T) {
	db := setupLifecycleDB(t)
	// billing_events table deliberately absent: every publish fails.
	runner := newTestRunnerWithRepos(t, db, &fakeSender{}, subscriptionrepo.Provide(), newTestOutbox(t, db))

	sellerID := insertSeller(t, db, "seller@example.com")
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	subID := insertSubscription(t, db, sellerID, subscriptiondomain.StatusActive, due, nil)

	summary, err := runner.Run(context.Background(), time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.MarkedPastDue != 1 {
		t.Fatalf("expected markedPastDue=1, got %d", summary.MarkedPastDue)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("expected no summary errors from event publishing, got %v", summary.Errors)
	}
	if got := loadSubscription(t, db, subID).Status; got != subscriptiondomain.StatusPastDue {
		t.Fatalf("expected past_due, got %s", got)
	}
}

// staleGraceRepo replays a grace-expired candidate whose row has since been
// reactivated, mimicking an external payment landing between query and write.
type staleGraceRepo struct {
	subscriptiondomain.Repository
	stale []subscriptiondomain.Subscription
}

func (r staleGraceRepo) FindGraceExpired(context.Context, *gorm.DB, time.Time) ([]subscriptiondomain.Subscription, error) {
	return r.stale, nil
}

func TestLostPauseRaceLeavesSellerAlone(t *testing.T) {
	db := setupLifecycleDB(t)
	sender := &fakeSender{}

	sellerID := insertSeller(t, db, "seller@example.com")
	future := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	subID := insertSubscription(t, db, sellerID, subscriptiondomain.StatusActive, future, nil)
	listingID := insertListing(t, db, sellerID, listingdomain.StatusPublished)

	stale := staleGraceRepo{
		Repository: subscriptionrepo.Provide(),
		stale:      []subscriptiondomain.Subscription{loadSubscription(t, db, subID)},
	}
	runner := newTestRunnerWithRepos(t, db, sender, stale, nil)

	summary, err := runner.Run(context.Background(), time.Date(2024, 1, 14, 0, 0, 1, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Paused != 0 {
		t.Fatalf("expected paused=0 for lost race, got %d", summary.Paused)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", summary.Errors)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no paused notification, got %v", sender.sent)
	}
	if got := loadListing(t, db, listingID).ListingStatus; got != listingdomain.StatusPublished {
		t.Fatalf("expected listing to stay published, got %s", got)
	}
	if got := loadSubscription(t, db, subID).Status; got != subscriptiondomain.StatusActive {
		t.Fatalf("expected subscription to stay active, got %s", got)
	}
}

func TestMissingSellerRecordedAsSoftError(t *testing.T) {
	db := setupLifecycleDB(t)
	runner := newTestRunner(t, db, &fakeSender{})

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	// Seller row intentionally absent.
	subID := insertSubscription(t, db, newID(), subscriptiondomain.StatusActive, due, nil)

	summary, err := runner.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.MarkedPastDue != 1 {
		t.Fatalf("expected transition despite missing seller, got %d", summary.MarkedPastDue)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Kind != KindEmailResolve {
		t.Fatalf("expected one email_resolve error, got %v", summary.Errors)
	}
	if got := loadSubscription(t, db, subID).Status; got != subscriptiondomain.StatusPastDue {
		t.Fatalf("expected past_due, got %s", got)
	}
}

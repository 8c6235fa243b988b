package lead

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"leadpanel/internal/pkg/logger"
	"leadpanel/internal/pkg/metrics"
)

var testMetrics = metrics.New() // prometheus collectors register globally, share one set

func setupTestService(t *testing.T) (*Service, *Subscription) {
	t.Helper()
	dsn := fmt.Sprintf("file:lead_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Lead{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	broker := NewBroker()
	sub := broker.Subscribe()
	t.Cleanup(sub.Unsubscribe)

	return NewService(NewRepository(db), broker, logger.New("error"), testMetrics), sub
}

func TestCreatePublishesInsertEvent(t *testing.T) {
	svc, sub := setupTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, &CreateLeadRequest{Name: "Ada Lovelace", Source: "website"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if l.ID == 0 {
		t.Fatal("expected backend-assigned id")
	}
	if l.Status != StatusNew {
		t.Fatalf("expected status new, got %s", l.Status)
	}

	ev := <-sub.C
	if ev.Type != EventInsert {
		t.Fatalf("expected insert event, got %s", ev.Type)
	}
	if ev.ID() != l.ID {
		t.Fatalf("expected event for lead %d, got %d", l.ID, ev.ID())
	}
}

func TestUpdateStatusPublishesOldAndNew(t *testing.T) {
	svc, sub := setupTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, &CreateLeadRequest{Name: "Grace Hopper"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	<-sub.C // drain insert

	updated, err := svc.UpdateStatus(ctx, l.ID, StatusHot)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != StatusHot {
		t.Fatalf("expected status hot, got %s", updated.Status)
	}

	ev := <-sub.C
	if ev.Type != EventUpdate {
		t.Fatalf("expected update event, got %s", ev.Type)
	}
	if ev.Old.Status != StatusNew || ev.New.Status != StatusHot {
		t.Fatalf("expected old=new new=hot, got old=%s new=%s", ev.Old.Status, ev.New.Status)
	}

	stored, err := svc.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.Status != StatusHot {
		t.Fatalf("status not persisted, got %s", stored.Status)
	}
}

func TestUpdateStatusRejectsUnknownStatusAndLead(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, 1, Status("tepid")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, 9999, StatusHot); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestBulkUpdateStatusIgnoresUnknownIDs(t *testing.T) {
	svc, sub := setupTestService(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		l, err := svc.Create(ctx, &CreateLeadRequest{Name: fmt.Sprintf("Lead %d", i)})
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		ids = append(ids, l.ID)
		<-sub.C
	}

	updated, err := svc.BulkUpdateStatus(ctx, append(ids, 9999), StatusWon)
	if err != nil {
		t.Fatalf("BulkUpdateStatus returned error: %v", err)
	}
	if updated != 3 {
		t.Fatalf("expected 3 updated, got %d", updated)
	}

	// One update event per affected lead
	seen := make(map[int64]bool)
	for i := 0; i < 3; i++ {
		ev := <-sub.C
		if ev.Type != EventUpdate {
			t.Fatalf("expected update event, got %s", ev.Type)
		}
		if ev.New.Status != StatusWon {
			t.Fatalf("expected status won in event, got %s", ev.New.Status)
		}
		seen[ev.ID()] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("no event seen for lead %d", id)
		}
	}
}

func TestBulkUpdateStatusValidatesInput(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.BulkUpdateStatus(ctx, nil, StatusHot); !errors.Is(err, ErrNoIDs) {
		t.Fatalf("expected ErrNoIDs, got %v", err)
	}
	if _, err := svc.BulkUpdateStatus(ctx, []int64{1}, Status("bogus")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateCommentAndDelete(t *testing.T) {
	svc, sub := setupTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, &CreateLeadRequest{Name: "Katherine Johnson"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	<-sub.C

	withComment, err := svc.UpdateComment(ctx, l.ID, "called back, interested")
	if err != nil {
		t.Fatalf("UpdateComment returned error: %v", err)
	}
	if withComment.Comment == nil || *withComment.Comment != "called back, interested" {
		t.Fatalf("comment not set: %+v", withComment.Comment)
	}
	<-sub.C

	if err := svc.Delete(ctx, l.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	ev := <-sub.C
	if ev.Type != EventDelete || ev.ID() != l.ID {
		t.Fatalf("expected delete event for %d, got %s/%d", l.ID, ev.Type, ev.ID())
	}

	if _, err := svc.GetByID(ctx, l.ID); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, l.ID); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound on double delete, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, sub := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, &CreateLeadRequest{Name: fmt.Sprintf("Lead %d", i)}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		<-sub.C
	}

	leads, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(leads) != 3 {
		t.Fatalf("expected 3 leads, got %d", len(leads))
	}
	for i := 1; i < len(leads); i++ {
		if leads[i].CreatedAt.After(leads[i-1].CreatedAt) {
			t.Fatal("expected newest-first ordering")
		}
	}
}

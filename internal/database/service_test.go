package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func testConfig(path string) models.DatabaseConfig {
	return models.DatabaseConfig{
		Path:            path,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

func setupTestDB(t *testing.T) (*Service, func()) {
	t.Helper()

	service, err := NewService(context.Background(), testConfig(filepath.Join(t.TempDir(), "ledger.db")))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		service.Close()
	}

	return service, cleanup
}

func mustCreateUser(t *testing.T, s *Service, username, externalId string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), username, externalId)
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func TestNewService_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("")
	if _, err := NewService(context.Background(), cfg); err == nil {
		t.Fatal("Expected error for empty path")
	}

	cfg = testConfig(filepath.Join(t.TempDir(), "x.db"))
	cfg.MaxOpenConns = 0
	if _, err := NewService(context.Background(), cfg); err == nil {
		t.Fatal("Expected error for zero max open connections")
	}
}

func TestNewService_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := NewService(context.Background(), testConfig(path))
	if err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	mustCreateUser(t, first, "alice", "chat-1")
	first.Close()

	second, err := NewService(context.Background(), testConfig(path))
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer second.Close()

	user, err := second.GetUserByExternalId(context.Background(), "chat-1")
	if err != nil {
		t.Fatalf("Expected user to survive reopen: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}
}

func TestNewService_InMemory(t *testing.T) {
	service, err := NewService(context.Background(), testConfig(memoryPath))
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	defer service.Close()

	mustCreateUser(t, service, "alice", "chat-1")
	if err := service.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, service, "alice", "chat-1")

	_, err := service.CreateUser(context.Background(), "alice", "chat-2")
	if !errors.Is(err, store.ErrDuplicateUser) {
		t.Fatalf("Expected ErrDuplicateUser for username, got %v", err)
	}

	_, err = service.CreateUser(context.Background(), "bob", "chat-1")
	if !errors.Is(err, store.ErrDuplicateUser) {
		t.Fatalf("Expected ErrDuplicateUser for external id, got %v", err)
	}
}

func TestCreateUser_WithoutExternalId(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreateUser(t, service, "alice", "")
	mustCreateUser(t, service, "bob", "")

	users, err := service.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.ExternalId != "" {
			t.Errorf("Expected empty external id, got %q", u.ExternalId)
		}
	}
}

func TestGetUserByExternalId_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.GetUserByExternalId(context.Background(), "nobody")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestExpenses_RangeAndOrdering(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := mustCreateUser(t, service, "alice", "chat-1")
	other := mustCreateUser(t, service, "bob", "chat-2")

	insert := func(id, userId, amount, category string, date int64, desc models.Description) {
		t.Helper()
		err := service.InsertExpense(ctx, models.Expense{
			Id:          id,
			UserId:      userId,
			Amount:      decimal.RequireFromString(amount),
			Category:    category,
			Description: desc,
			Date:        date,
			CreatedAt:   date,
		})
		if err != nil {
			t.Fatalf("InsertExpense(%s) failed: %v", id, err)
		}
	}

	insert("e1", user.Id, "10.50", "Food", 1000, models.SomeDescription("lunch"))
	insert("e2", user.Id, "5", "food", 2000, models.NoDescription)
	insert("e3", user.Id, "7.25", "Transport", 2000, models.NoDescription)
	insert("e4", user.Id, "99", "Food", 5000, models.NoDescription)
	insert("e5", other.Id, "1", "Food", 1500, models.NoDescription)

	all, err := service.ListExpensesInRange(ctx, store.ExpenseRangeParams{
		UserId: user.Id, StartDate: 1000, EndDate: 2000, Order: store.Ascending,
	})
	if err != nil {
		t.Fatalf("ListExpensesInRange failed: %v", err)
	}
	if got := ids(all); !equalStrings(got, []string{"e1", "e2", "e3"}) {
		t.Errorf("Expected [e1 e2 e3], got %v", got)
	}
	if all[0].Description.OrEmpty() != "lunch" || all[1].Description.IsPresent() {
		t.Errorf("Description round trip failed: %+v %+v", all[0].Description, all[1].Description)
	}
	if !all[0].Amount.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("Expected amount 10.5, got %s", all[0].Amount)
	}

	food, err := service.ListExpensesInRange(ctx, store.ExpenseRangeParams{
		UserId: user.Id, StartDate: 0, EndDate: 10000, CategoryKey: "FOOD", Order: store.Descending,
	})
	if err != nil {
		t.Fatalf("ListExpensesInRange with category failed: %v", err)
	}
	if got := ids(food); !equalStrings(got, []string{"e4", "e2", "e1"}) {
		t.Errorf("Expected [e4 e2 e1], got %v", got)
	}

	recent, err := service.ListRecentExpenses(ctx, user.Id, 2)
	if err != nil {
		t.Fatalf("ListRecentExpenses failed: %v", err)
	}
	// e3 was inserted after e2 with the same date, so it comes first
	if got := ids(recent); !equalStrings(got, []string{"e4", "e3"}) {
		t.Errorf("Expected [e4 e3], got %v", got)
	}
}

func TestInsertExpense_RejectsUnknownUser(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	err := service.InsertExpense(context.Background(), models.Expense{
		Id: "e1", UserId: "missing", Amount: decimal.NewFromInt(1), Category: "Food", Date: 1,
	})
	if err == nil {
		t.Fatal("Expected foreign key violation for unknown user")
	}
}

func TestFeedback_InsertListAndCursor(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := mustCreateUser(t, service, "alice", "chat-1")

	predicted := "Food"
	confidence := 0.42
	events := []models.CategoryFeedback{
		{Id: "f1", UserId: user.Id, OriginalText: "pizza", AiPredictedCategory: &predicted, AiConfidence: &confidence,
			UserChosenCategory: "Food", Timestamp: 10},
		{Id: "f2", UserId: user.Id, OriginalText: "bus", AiPredictedCategory: &predicted,
			UserChosenCategory: "Transport", IsCorrection: true, Timestamp: 20},
		{Id: "f3", UserId: user.Id, OriginalText: "gift", UserChosenCategory: "Gifts", Timestamp: 30},
	}
	for _, e := range events {
		if err := service.InsertFeedback(ctx, e); err != nil {
			t.Fatalf("InsertFeedback(%s) failed: %v", e.Id, err)
		}
	}

	cursor, err := service.GetExportCursor(ctx, "amqp")
	if err != nil {
		t.Fatalf("GetExportCursor failed: %v", err)
	}
	if cursor != 0 {
		t.Fatalf("Expected initial cursor 0, got %d", cursor)
	}

	batch, err := service.ListFeedbackAfter(ctx, cursor, 2)
	if err != nil {
		t.Fatalf("ListFeedbackAfter failed: %v", err)
	}
	if len(batch) != 2 || batch[0].Id != "f1" || batch[1].Id != "f2" {
		t.Fatalf("Unexpected first batch: %+v", batch)
	}
	if batch[0].AiConfidence == nil || *batch[0].AiConfidence != 0.42 {
		t.Errorf("Expected confidence 0.42, got %v", batch[0].AiConfidence)
	}
	if batch[1].AiConfidence != nil {
		t.Errorf("Expected absent confidence, got %v", *batch[1].AiConfidence)
	}
	if !batch[1].IsCorrection || batch[0].IsCorrection {
		t.Errorf("Correction flags did not round trip: %+v", batch)
	}

	if err := service.SetExportCursor(ctx, "amqp", batch[1].Seq); err != nil {
		t.Fatalf("SetExportCursor failed: %v", err)
	}
	cursor, err = service.GetExportCursor(ctx, "amqp")
	if err != nil {
		t.Fatalf("GetExportCursor failed: %v", err)
	}

	rest, err := service.ListFeedbackAfter(ctx, cursor, 10)
	if err != nil {
		t.Fatalf("ListFeedbackAfter failed: %v", err)
	}
	if len(rest) != 1 || rest[0].Id != "f3" || rest[0].AiPredictedCategory != nil {
		t.Fatalf("Unexpected second batch: %+v", rest)
	}
}

func ids(expenses []models.Expense) []string {
	out := make([]string, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.Id)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package query

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"expense-ledger-go/internal/database"
	"expense-ledger-go/internal/identity"
	"expense-ledger-go/internal/ledger"
	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	engine *Engine
	ledger *ledger.Ledger
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns: 8,
		MaxIdleConns: 4,
		PingTimeout:  5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	for _, u := range []struct{ name, ext string }{{"alice", "chat-1"}, {"bob", "chat-2"}} {
		_, err := db.CreateUser(context.Background(), u.name, u.ext)
		require.NoError(t, err)
	}

	resolver := identity.NewResolver(db)
	return &fixture{
		engine: NewEngine(resolver, db),
		ledger: ledger.NewLedger(resolver, db).WithClock(func() time.Time { return fixedNow }),
	}
}

func (f *fixture) log(t *testing.T, ext string, amount string, category string, date int64, desc *string) string {
	t.Helper()
	id, err := f.ledger.LogExpense(context.Background(), ledger.LogExpenseParams{
		ExternalUserId: ext,
		Amount:         decimal.RequireFromString(amount),
		Category:       category,
		Description:    desc,
		Date:           date,
	})
	require.NoError(t, err)
	return id
}

func ptr[T any](v T) *T { return &v }

func TestGetSummary_Scenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d1 := fixedNow.Add(-48 * time.Hour).UnixMilli()
	d2 := fixedNow.Add(-24 * time.Hour).UnixMilli()

	f.log(t, "chat-1", "10", "Food", d1, nil)
	f.log(t, "chat-1", "20", "Transport", d2, nil)
	f.log(t, "chat-2", "500", "Food", d1, nil)

	all, err := f.engine.GetSummary(ctx, "chat-1", d1, d2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)
	assert.True(t, all.TotalAmount.Equal(decimal.NewFromInt(30)), "total %s", all.TotalAmount)
	assert.Nil(t, all.Category)
	assert.Equal(t, d1, all.StartDate)
	assert.Equal(t, d2, all.EndDate)

	food, err := f.engine.GetSummary(ctx, "chat-1", d1, d2, ptr(" food "))
	require.NoError(t, err)
	assert.Equal(t, 1, food.Count)
	assert.True(t, food.TotalAmount.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, food.Category)
	assert.Equal(t, "food", *food.Category)
}

func TestGetSummary_EdgeCases(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := fixedNow.UnixMilli()
	f.log(t, "chat-1", "1.10", "Food", d, nil)
	f.log(t, "chat-1", "2.20", "FOOD", d, nil)

	t.Run("empty range is zero", func(t *testing.T) {
		s, err := f.engine.GetSummary(ctx, "chat-1", 0, d-1, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Count)
		assert.True(t, s.TotalAmount.IsZero())
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		s, err := f.engine.GetSummary(ctx, "chat-1", d, d-1, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Count)
		assert.True(t, s.TotalAmount.IsZero())
	})

	t.Run("blank category means no filter", func(t *testing.T) {
		s, err := f.engine.GetSummary(ctx, "chat-1", d, d, ptr("   "))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Count)
		assert.Nil(t, s.Category)
	})

	t.Run("inclusive bounds and exact decimal sum", func(t *testing.T) {
		s, err := f.engine.GetSummary(ctx, "chat-1", d, d, ptr("food"))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Count)
		assert.Equal(t, "3.3", s.TotalAmount.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.engine.GetSummary(ctx, "chat-9", 0, d, nil)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestGetRecent_Ordering(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	t1 := fixedNow.Add(-3 * time.Hour).UnixMilli()
	t2 := fixedNow.Add(-2 * time.Hour).UnixMilli()
	t3 := fixedNow.Add(-1 * time.Hour).UnixMilli()

	f.log(t, "chat-1", "1", "A", t1, nil)
	f.log(t, "chat-1", "2", "B", t3, ptr("third"))
	f.log(t, "chat-1", "3", "C", t2, nil)

	recent, err := f.engine.GetRecent(ctx, "chat-1", ptr(2))
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, t3, recent[0].Date)
	assert.Equal(t, t2, recent[1].Date)
	require.NotNil(t, recent[0].Description)
	assert.Equal(t, "third", *recent[0].Description)
	assert.Nil(t, recent[1].Description)
}

func TestGetRecent_TiesAreDeterministic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := fixedNow.UnixMilli()

	first := f.log(t, "chat-1", "1", "A", d, nil)
	second := f.log(t, "chat-1", "2", "B", d, nil)

	for i := 0; i < 3; i++ {
		recent, err := f.engine.GetRecent(ctx, "chat-1", nil)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, second, recent[0].Id)
		assert.Equal(t, first, recent[1].Id)
	}
}

func TestGetRecent_Limits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		f.log(t, "chat-1", "1", "Food", fixedNow.Add(-time.Duration(i)*time.Minute).UnixMilli(), nil)
	}

	tests := []struct {
		name    string
		limit   *int
		want    int
		wantErr bool
	}{
		{name: "default", limit: nil, want: 5},
		{name: "one", limit: ptr(1), want: 1},
		{name: "fifty", limit: ptr(50), want: 7},
		{name: "zero", limit: ptr(0), wantErr: true},
		{name: "fifty-one", limit: ptr(51), wantErr: true},
		{name: "negative", limit: ptr(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recent, err := f.engine.GetRecent(ctx, "chat-1", tt.limit)
			if tt.wantErr {
				require.ErrorIs(t, err, store.ErrInvalidLimit)
				var verr *store.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "limit", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Len(t, recent, tt.want)
		})
	}
}

func TestGetForReport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d1 := fixedNow.Add(-2 * time.Hour).UnixMilli()
	d2 := fixedNow.Add(-1 * time.Hour).UnixMilli()

	f.log(t, "chat-1", "5", "Later", d2, nil)
	f.log(t, "chat-1", "7.5", "Earlier", d1, ptr("  taxi "))
	f.log(t, "chat-1", "9", "Outside", fixedNow.UnixMilli(), nil)

	rows, err := f.engine.GetForReport(ctx, "chat-1", d1, d2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.ReportRow{Date: d1, Category: "Earlier", Amount: rows[0].Amount, Description: "taxi"}, rows[0])
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, "Later", rows[1].Category)
	assert.Equal(t, "", rows[1].Description)

	inverted, err := f.engine.GetForReport(ctx, "chat-1", d2, d1)
	require.NoError(t, err)
	assert.Empty(t, inverted)

	_, err = f.engine.GetForReport(ctx, "nobody", d1, d2)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestReadsAreIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		f.log(t, "chat-1", fmt.Sprintf("%d.25", i+1), "Food", fixedNow.Add(-time.Duration(i)*time.Hour).UnixMilli(), nil)
	}
	start, end := fixedNow.Add(-24*time.Hour).UnixMilli(), fixedNow.UnixMilli()

	s1, err := f.engine.GetSummary(ctx, "chat-1", start, end, nil)
	require.NoError(t, err)
	s2, err := f.engine.GetSummary(ctx, "chat-1", start, end, nil)
	require.NoError(t, err)
	assert.Equal(t, s1.Count, s2.Count)
	assert.True(t, s1.TotalAmount.Equal(s2.TotalAmount))

	r1, err := f.engine.GetRecent(ctx, "chat-1", nil)
	require.NoError(t, err)
	r2, err := f.engine.GetRecent(ctx, "chat-1", nil)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	p1, err := f.engine.GetForReport(ctx, "chat-1", start, end)
	require.NoError(t, err)
	p2, err := f.engine.GetForReport(ctx, "chat-1", start, end)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestConcurrentWritesAreVisibleToLaterReads(t *testing.T) {
	f := setup(t)
	d := fixedNow.UnixMilli()
	const writers = 20

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			_, err := f.ledger.LogExpense(ctx, ledger.LogExpenseParams{
				ExternalUserId: "chat-1",
				Amount:         decimal.RequireFromString("0.10"),
				Category:       "Coffee",
				Date:           d,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	s, err := f.engine.GetSummary(context.Background(), "chat-1", d, d, ptr("coffee"))
	require.NoError(t, err)
	assert.Equal(t, writers, s.Count)
	assert.Equal(t, "2", s.TotalAmount.String())
}

type brokenExpenses struct{}

func (brokenExpenses) InsertExpense(context.Context, models.Expense) error { return nil }

func (brokenExpenses) ListExpensesInRange(context.Context, store.ExpenseRangeParams) ([]models.Expense, error) {
	return nil, errors.New("no such table: expenses")
}

func (brokenExpenses) ListRecentExpenses(context.Context, string, int) ([]models.Expense, error) {
	return nil, errors.New("no such table: expenses")
}

type staticResolver struct{}

func (staticResolver) Resolve(context.Context, string) (*models.User, error) {
	return &models.User{Id: "u1"}, nil
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	e := NewEngine(staticResolver{}, brokenExpenses{})
	ctx := context.Background()

	_, err := e.GetSummary(ctx, "chat-1", 0, 10, nil)
	require.ErrorIs(t, err, store.ErrStoreUnavailable)

	_, err = e.GetRecent(ctx, "chat-1", nil)
	require.ErrorIs(t, err, store.ErrStoreUnavailable)

	_, err = e.GetForReport(ctx, "chat-1", 0, 10)
	require.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.NotContains(t, err.Error(), "no such table")
}

package quote

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { db.Close() }
}

func TestCreateSupersedesPreviousSentQuote(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	q := &Quote{
		ID:         uuid.New(),
		BookingID:  uuid.New(),
		Subtotal:   1220,
		Tax:        219.6,
		ServiceFee: 61,
		Total:      1500.6,
		Status:     StatusSent,
		CreatedAt:  time.Now(),
	}
	items := []QuoteItem{
		{ID: uuid.New(), QuoteID: q.ID, ItemType: "flight", Title: "MAD-LIS", Quantity: 2, UnitPrice: 250},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE quotes SET status = 'superseded'").
		WithArgs(q.BookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO quotes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO quote_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), q, items); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetLatestByBookingNoQuote(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	bookingID := uuid.New()
	mock.ExpectQuery("SELECT \\* FROM quotes").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	q, items, err := repo.GetLatestByBooking(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if q != nil || items != nil {
		t.Errorf("expected nil quote, got %+v / %+v", q, items)
	}
}

func TestGetLatestByBookingLoadsLines(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	bookingID := uuid.New()
	quoteID := uuid.New()
	now := time.Now()

	quoteRows := sqlmock.NewRows([]string{"id", "booking_id", "subtotal", "tax", "service_fee", "total", "status", "created_at"}).
		AddRow(quoteID, bookingID, 1220.0, 219.6, 61.0, 1500.6, "sent", now)
	mock.ExpectQuery("SELECT \\* FROM quotes").
		WithArgs(bookingID).
		WillReturnRows(quoteRows)

	itemRows := sqlmock.NewRows([]string{"id", "quote_id", "item_type", "title", "quantity", "unit_price"}).
		AddRow(uuid.New(), quoteID, "flight", "MAD-LIS", 2, 250.0).
		AddRow(uuid.New(), quoteID, "hotel", "Seaside hotel", 1, 720.0)
	mock.ExpectQuery("SELECT \\* FROM quote_items").
		WithArgs(quoteID).
		WillReturnRows(itemRows)

	q, items, err := repo.GetLatestByBooking(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if q.Total != 1500.6 {
		t.Errorf("total = %v", q.Total)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Title != "MAD-LIS" {
		t.Errorf("first line = %q", items[0].Title)
	}
}

func TestListByBooking(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	bookingID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "booking_id", "subtotal", "tax", "service_fee", "total", "status", "created_at"}).
		AddRow(uuid.New(), bookingID, 100.0, 18.0, 5.0, 123.0, "sent", now).
		AddRow(uuid.New(), bookingID, 90.0, 16.2, 4.5, 110.7, "superseded", now.Add(-time.Hour))
	mock.ExpectQuery("SELECT \\* FROM quotes").
		WithArgs(bookingID).
		WillReturnRows(rows)

	quotes, err := repo.ListByBooking(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("len = %d, want 2", len(quotes))
	}
	if quotes[1].Status != StatusSuperseded {
		t.Errorf("second quote status = %q", quotes[1].Status)
	}
}

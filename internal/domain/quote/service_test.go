package quote_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/booking"
	"github.com/tripline/tripline-api/internal/domain/quote"
)

type fakeBookingStore struct {
	booking   *booking.Booking
	requested []booking.RequestedItem
	quoted    []uuid.UUID
}

func (f *fakeBookingStore) GetWithItems(ctx context.Context, id uuid.UUID) (*booking.Booking, []booking.RequestedItem, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, nil, booking.ErrBookingNotFound
	}
	return f.booking, f.requested, nil
}

func (f *fakeBookingStore) MarkQuoted(ctx context.Context, id uuid.UUID) error {
	f.quoted = append(f.quoted, id)
	return nil
}

type fakeQuoteRepo struct {
	created      []*quote.Quote
	createdItems [][]quote.QuoteItem
	latest       *quote.Quote
	latestItems  []quote.QuoteItem
	createErr    error
}

func (f *fakeQuoteRepo) Create(ctx context.Context, q *quote.Quote, items []quote.QuoteItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, q)
	f.createdItems = append(f.createdItems, items)
	return nil
}

func (f *fakeQuoteRepo) GetLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*quote.Quote, []quote.QuoteItem, error) {
	return f.latest, f.latestItems, nil
}

func (f *fakeQuoteRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*quote.Quote, error) {
	return nil, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []quote.VendorNotification
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeNotifier) NotifyVendor(ctx context.Context, n quote.VendorNotification) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.sent = append(f.sent, n)
	f.mu.Unlock()
	return f.err
}

type fakeVendorDirectory struct {
	urls map[uuid.UUID]string
	err  error
}

func (f *fakeVendorDirectory) NotifyURLByService(ctx context.Context, serviceID uuid.UUID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.urls[serviceID], nil
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(ctx context.Context, event string, payload interface{}) {
	f.events = append(f.events, event)
}

func newTestService(b *booking.Booking, requested []booking.RequestedItem) (*quote.Service, *fakeBookingStore, *fakeQuoteRepo, *fakeNotifier, *fakePublisher) {
	bookings := &fakeBookingStore{booking: b, requested: requested}
	repo := &fakeQuoteRepo{}
	notifier := &fakeNotifier{}
	events := &fakePublisher{}
	svc := quote.NewService(quote.NewDraftStore(), repo, bookings, notifier, &fakeVendorDirectory{}, events)
	return svc, bookings, repo, notifier, events
}

func openBooking(travelers int) *booking.Booking {
	return &booking.Booking{
		ID:        uuid.New(),
		Travelers: travelers,
		Status:    booking.StatusNew,
	}
}

func TestDraftSeedsFromRequestedItems(t *testing.T) {
	b := openBooking(2)
	requested := []booking.RequestedItem{
		{ID: uuid.New(), BookingID: b.ID, RawType: "flight", Title: "Round trip to Rome", Quantity: 2},
	}
	svc, _, _, _, _ := newTestService(b, requested)

	got, items, err := svc.Draft(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("got booking %s, want %s", got.ID, b.ID)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Type != quote.TypeFlight {
		t.Errorf("got type %q, want flight", items[0].Type)
	}
	if items[0].EffectivePrice() != 0 {
		t.Errorf("seeded placeholder must be unpriced, got %v", items[0].EffectivePrice())
	}
}

func TestDraftUnknownBooking(t *testing.T) {
	svc, _, _, _, _ := newTestService(openBooking(1), nil)

	_, _, err := svc.Draft(context.Background(), uuid.New())
	if !errors.Is(err, booking.ErrBookingNotFound) {
		t.Fatalf("got %v, want ErrBookingNotFound", err)
	}
}

func TestSendQuoteEmptyDraft(t *testing.T) {
	b := openBooking(1)
	svc, _, repo, _, _ := newTestService(b, nil)

	_, _, err := svc.SendQuote(context.Background(), b.ID)
	if !errors.Is(err, quote.ErrEmptyDraft) {
		t.Fatalf("got %v, want ErrEmptyDraft", err)
	}
	if len(repo.created) != 0 {
		t.Error("an empty draft must not reach the repository")
	}
}

func TestSendQuoteValidationErrors(t *testing.T) {
	b := openBooking(1)
	svc, _, repo, _, _ := newTestService(b, nil)

	if _, err := svc.AddItem(context.Background(), b.ID, quote.PackageItem{
		Type: quote.TypeHotel, Title: "Unpriced hotel", Quantity: 1,
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	_, validation, err := svc.SendQuote(context.Background(), b.ID)
	if !errors.Is(err, quote.ErrValidationFailed) {
		t.Fatalf("got %v, want ErrValidationFailed", err)
	}
	if len(validation.Errors) == 0 {
		t.Error("validation result must carry the blocking errors")
	}
	if len(repo.created) != 0 {
		t.Error("an invalid draft must not reach the repository")
	}
}

func TestSendQuoteSuccess(t *testing.T) {
	b := openBooking(2)
	svc, bookings, repo, _, events := newTestService(b, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeFlight, Title: "Outbound", Quantity: 2,
		QuotePrice: fp(250), StartDate: "2026-09-10", Origin: "JFK", Destination: "FCO",
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeHotel, Title: "Trastevere suite", Quantity: 4,
		QuotePrice: fp(180), StartDate: "2026-09-10", EndDate: "2026-09-14",
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	q, validation, err := svc.SendQuote(ctx, b.ID)
	if err != nil {
		t.Fatalf("SendQuote: %v", err)
	}
	if !validation.OK() {
		t.Fatalf("unexpected validation errors: %v", validation.Errors)
	}

	// 2*250 + 4*180 = 1220; tax 219.6 rounds to 220, fee 61.
	if q.Subtotal != 1220 {
		t.Errorf("subtotal = %v, want 1220", q.Subtotal)
	}
	if q.Tax != 220 || q.ServiceFee != 61 {
		t.Errorf("tax/fee = %v/%v, want 220/61", q.Tax, q.ServiceFee)
	}
	if q.Total != 1501 {
		t.Errorf("total = %v, want 1501", q.Total)
	}
	if q.Status != quote.StatusSent {
		t.Errorf("status = %q, want sent", q.Status)
	}

	if len(repo.created) != 1 || len(repo.createdItems[0]) != 2 {
		t.Fatalf("repository got %d quotes, want 1 with 2 lines", len(repo.created))
	}
	if len(bookings.quoted) != 1 || bookings.quoted[0] != b.ID {
		t.Error("booking must be marked quoted")
	}
	if len(events.events) != 1 || events.events[0] != "quote_sent" {
		t.Errorf("events = %v, want [quote_sent]", events.events)
	}

	// The draft is gone; the next read re-seeds from intake (empty here).
	_, items, err := svc.Draft(ctx, b.ID)
	if err != nil {
		t.Fatalf("Draft after send: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("draft must be cleared after send, got %d items", len(items))
	}
}

func TestSendQuoteClosedBooking(t *testing.T) {
	b := openBooking(1)
	b.Status = booking.StatusCancelled
	svc, _, repo, _, _ := newTestService(b, nil)

	_, _, err := svc.SendQuote(context.Background(), b.ID)
	if !errors.Is(err, quote.ErrBookingClosed) {
		t.Fatalf("got %v, want ErrBookingClosed", err)
	}
	if len(repo.created) != 0 {
		t.Error("a closed booking must not reach the repository")
	}
}

func TestSendQuoteRepoFailureKeepsDraft(t *testing.T) {
	b := openBooking(1)
	svc, _, repo, _, _ := newTestService(b, nil)
	repo.createErr = errors.New("db down")
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeFlight, Title: "Only leg", Quantity: 1,
		QuotePrice: fp(100), StartDate: "2026-09-10", Origin: "A", Destination: "B",
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if _, _, err := svc.SendQuote(ctx, b.ID); err == nil {
		t.Fatal("expected the repository error to surface")
	}

	_, items, err := svc.Draft(ctx, b.ID)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("draft must survive a failed send, got %d items", len(items))
	}
}

func TestAddItemClosedBooking(t *testing.T) {
	b := openBooking(1)
	b.Status = booking.StatusAccepted
	svc, _, _, _, _ := newTestService(b, nil)

	_, err := svc.AddItem(context.Background(), b.ID, quote.PackageItem{
		Type: quote.TypeHotel, Title: "Late add", Quantity: 1, QuotePrice: fp(50),
	})
	if !errors.Is(err, quote.ErrBookingClosed) {
		t.Fatalf("got %v, want ErrBookingClosed", err)
	}
}

func TestUpdateItemRejectsUnknownType(t *testing.T) {
	b := openBooking(1)
	svc, _, _, _, _ := newTestService(b, nil)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeCar, Title: "Rental", Quantity: 1, QuotePrice: fp(40),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	bad := quote.ItemType("submarine")
	err = svc.UpdateItem(ctx, b.ID, added.ID, quote.ItemPatch{Type: &bad})
	if !errors.Is(err, quote.ErrInvalidItemType) {
		t.Fatalf("got %v, want ErrInvalidItemType", err)
	}
}

func TestNotifyVendorRequiresSavedService(t *testing.T) {
	b := openBooking(1)
	svc, _, _, notifier, _ := newTestService(b, nil)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeGuide, Title: "Walking tour", Quantity: 1, QuotePrice: fp(30),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	err = svc.NotifyVendor(ctx, b.ID, added.ID, "")
	if !errors.Is(err, quote.ErrItemNotPersisted) {
		t.Fatalf("got %v, want ErrItemNotPersisted", err)
	}
	if len(notifier.sent) != 0 {
		t.Error("an unsaved line must never reach the gateway")
	}
}

func TestNotifyVendorSendsSnapshot(t *testing.T) {
	b := openBooking(1)
	svc, _, _, notifier, _ := newTestService(b, nil)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeTransport, Title: "Airport pickup", Quantity: 1,
		QuotePrice: fp(25), ServiceID: uuid.New(), WithDriver: true,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.NotifyVendor(ctx, b.ID, added.ID, "gate 4"); err != nil {
		t.Fatalf("NotifyVendor: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.ServiceID != added.ServiceID || n.Note != "gate 4" || !n.WithDriver {
		t.Errorf("notification snapshot wrong: %+v", n)
	}
}

func TestNotifyVendorCarriesPartnerEndpoint(t *testing.T) {
	b := openBooking(1)
	serviceID := uuid.New()
	bookings := &fakeBookingStore{booking: b}
	notifier := &fakeNotifier{}
	dir := &fakeVendorDirectory{urls: map[uuid.UUID]string{
		serviceID: "https://partner.example.com/hooks/tripline",
	}}
	svc := quote.NewService(quote.NewDraftStore(), &fakeQuoteRepo{}, bookings, notifier, dir, &fakePublisher{})
	ctx := context.Background()

	added, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeHotel, Title: "Hotel Aurora", Quantity: 1,
		QuotePrice: fp(120), ServiceID: serviceID,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.NotifyVendor(ctx, b.ID, added.ID, ""); err != nil {
		t.Fatalf("NotifyVendor: %v", err)
	}
	if got := notifier.sent[0].NotifyURL; got != "https://partner.example.com/hooks/tripline" {
		t.Errorf("got notify_url %q, want the partner endpoint", got)
	}
}

func TestNotifyVendorEndpointLookupFailureStillNotifies(t *testing.T) {
	b := openBooking(1)
	bookings := &fakeBookingStore{booking: b}
	notifier := &fakeNotifier{}
	dir := &fakeVendorDirectory{err: errors.New("db down")}
	svc := quote.NewService(quote.NewDraftStore(), &fakeQuoteRepo{}, bookings, notifier, dir, &fakePublisher{})
	ctx := context.Background()

	added, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeGuide, Title: "City tour", Quantity: 1,
		QuotePrice: fp(50), ServiceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.NotifyVendor(ctx, b.ID, added.ID, ""); err != nil {
		t.Fatalf("NotifyVendor: %v", err)
	}
	if got := notifier.sent[0].NotifyURL; got != "" {
		t.Errorf("got notify_url %q, want gateway fan-out", got)
	}
}

func TestNotifyVendorSingleFlight(t *testing.T) {
	b := openBooking(1)
	svc, _, _, notifier, _ := newTestService(b, nil)
	notifier.started = make(chan struct{}, 1)
	notifier.release = make(chan struct{})
	ctx := context.Background()

	added, err := svc.AddItem(ctx, b.ID, quote.PackageItem{
		Type: quote.TypeHotel, Title: "Hotel", Quantity: 1,
		QuotePrice: fp(80), ServiceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	first := make(chan error, 1)
	go func() {
		first <- svc.NotifyVendor(ctx, b.ID, added.ID, "")
	}()

	// Wait until the first call is parked inside the notifier; the
	// second must bounce instead of queueing.
	<-notifier.started
	second := svc.NotifyVendor(ctx, b.ID, added.ID, "")
	close(notifier.release)

	if !errors.Is(second, quote.ErrNotifyInFlight) {
		t.Errorf("got %v, want ErrNotifyInFlight", second)
	}
	if err := <-first; err != nil {
		t.Errorf("first notification failed: %v", err)
	}
}

package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository/memory"

	"github.com/shopspring/decimal"
)

var (
	testNow  = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	buyer    = models.Party{Role: models.Buyer, ID: "b1"}
	supplier = models.Party{Role: models.Supplier, ID: "s1"}
	rival    = models.Party{Role: models.Supplier, ID: "s2"}
)

type fakeHistory struct {
	mu      sync.Mutex
	changes []models.StatusChange
	err     error
}

func (h *fakeHistory) SaveStatusChange(_ context.Context, c models.StatusChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.changes = append(h.changes, c)
	return nil
}

func (h *fakeHistory) ListStatusChanges(_ context.Context, entity, id string) ([]models.StatusChange, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []models.StatusChange
	for _, c := range h.changes {
		if c.Entity == entity && c.EntityID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) Upload(_ context.Context, key string, body io.Reader, _ string) error {
	if f.failPut {
		return errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fixture struct {
	store     *memory.Store
	history   *fakeHistory
	objects   *fakeObjects
	rfqs      *RFQService
	offers    *OfferService
	orders    *OrderService
	documents *DocumentService
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), history: &fakeHistory{}, objects: newFakeObjects(), now: testNow}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := Deps{
		RFQs:    f.store,
		Offers:  f.store,
		Orders:  f.store,
		History: f.history,
		Logger:  logger,
		Now:     func() time.Time { return f.now },
	}
	f.documents = NewDocumentService(f.store, f.store, f.objects, logger)
	f.rfqs = NewRFQService(deps)
	f.offers = NewOfferService(deps)
	f.orders = NewOrderService(deps, f.documents)
	return f
}

func rfqRequest() models.RFQRequest {
	return models.RFQRequest{
		Title:            "Cement M400",
		Category:         "cement",
		Volume:           decimal.NewFromInt(10),
		Unit:             "t",
		DeliveryLocation: "Tashkent",
		DeliveryDate:     testNow.Add(72 * time.Hour),
		PaymentMethod:    models.BankPayment,
		Deadline:         testNow.Add(24 * time.Hour),
	}
}

func (f *fixture) publish(t *testing.T) *models.RFQ {
	t.Helper()
	rfq, err := f.rfqs.CreateRFQ(context.Background(), buyer, rfqRequest())
	if err != nil {
		t.Fatalf("CreateRFQ: %v", err)
	}
	return rfq
}

func (f *fixture) quote(t *testing.T, party models.Party, rfqID string, price int64) *models.Offer {
	t.Helper()
	offer, err := f.offers.CreateOffer(context.Background(), party, models.OfferRequest{
		RFQID:        rfqID,
		UnitPrice:    decimal.NewFromInt(price),
		DeliveryDate: testNow.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	return offer
}

func registerCompany(t *testing.T, store *memory.Store, party models.Party) {
	t.Helper()
	if err := store.CreateCompany(context.Background(), models.Company{ID: party.ID, Name: "Company " + party.ID, Role: party.Role}); err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
}

func statusOf(err error) int {
	var resp *models.ErrorResponse
	if errors.As(err, &resp) {
		return resp.StatusCode
	}
	return 0
}

func TestRFQService_CreateRFQ(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		party  models.Party
		mutate func(*models.RFQRequest)
		status int
	}{
		{name: "buyer publishes", party: buyer},
		{name: "supplier cannot publish", party: supplier, status: http.StatusForbidden},
		{name: "missing party", party: models.Party{}, status: http.StatusBadRequest},
		{name: "zero volume", party: buyer, mutate: func(r *models.RFQRequest) { r.Volume = decimal.Zero }, status: http.StatusBadRequest},
		{name: "deadline in the past", party: buyer, mutate: func(r *models.RFQRequest) { r.Deadline = testNow.Add(-time.Hour) }, status: http.StatusBadRequest},
		{name: "unknown payment method", party: buyer, mutate: func(r *models.RFQRequest) { r.PaymentMethod = "barter" }, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := rfqRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			rfq, err := f.rfqs.CreateRFQ(ctx, tt.party, req)
			if tt.status != 0 {
				if got := statusOf(err); got != tt.status {
					t.Fatalf("status = %d (%v), want %d", got, err, tt.status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rfq.Status != models.ActiveRFQ || rfq.BuyerID != buyer.ID || rfq.ID == "" {
				t.Fatalf("unexpected rfq: %+v", rfq)
			}
		})
	}
}

func TestRFQService_ListRFQsByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	open := f.publish(t)
	closed := f.publish(t)
	if _, err := f.rfqs.CancelRFQ(ctx, buyer, closed.ID); err != nil {
		t.Fatalf("CancelRFQ: %v", err)
	}

	mine, count, err := f.rfqs.ListRFQs(ctx, buyer, listing.Filter{}, 20, 0)
	if err != nil || count != 2 || len(mine) != 2 {
		t.Fatalf("buyer list = %d items, count %d, err %v", len(mine), count, err)
	}

	visible, count, err := f.rfqs.ListRFQs(ctx, supplier, listing.Filter{}, 20, 0)
	if err != nil || count != 1 || visible[0].ID != open.ID {
		t.Fatalf("supplier list = %+v, count %d, err %v", visible, count, err)
	}

	cancelled, _, err := f.rfqs.ListRFQs(ctx, buyer, listing.Filter{Status: "cancelled"}, 20, 0)
	if err != nil || len(cancelled) != 1 || cancelled[0].ID != closed.ID {
		t.Fatalf("status filter = %+v, err %v", cancelled, err)
	}

	page, count, err := f.rfqs.ListRFQs(ctx, buyer, listing.Filter{}, 1, 1)
	if err != nil || count != 2 || len(page) != 1 {
		t.Fatalf("page = %d items, count %d, err %v", len(page), count, err)
	}
}

func TestOfferService_AcceptCreatesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rfq := f.publish(t)
	first := f.quote(t, supplier, rfq.ID, 50)
	second := f.quote(t, rival, rfq.ID, 45)

	if !first.TotalAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("total = %s, want 500", first.TotalAmount)
	}

	order, err := f.offers.AcceptOffer(ctx, buyer, first.ID)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}
	if order.Status != models.CreatedOrder || order.PaymentStatus != models.PendingPayment {
		t.Fatalf("unexpected order state: %+v", order)
	}
	if order.SupplierID != supplier.ID || !order.TotalAmount.Equal(first.TotalAmount) {
		t.Fatalf("order does not reflect accepted offer: %+v", order)
	}

	got, err := f.store.GetRFQ(ctx, rfq.ID)
	if err != nil || got.Status != models.CompletedRFQ {
		t.Fatalf("rfq after accept = %+v, %v", got, err)
	}

	_, err = f.offers.AcceptOffer(ctx, buyer, second.ID)
	if statusOf(err) != http.StatusConflict {
		t.Fatalf("second accept: status %d (%v), want 409", statusOf(err), err)
	}

	entities := map[string]int{}
	for _, c := range f.history.changes {
		entities[c.Entity]++
	}
	if entities["order"] != 1 || entities["rfq"] != 2 {
		t.Fatalf("unexpected history: %+v", f.history.changes)
	}
}

func TestOfferService_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rfq := f.publish(t)
	offer := f.quote(t, supplier, rfq.ID, 50)

	tests := []struct {
		name   string
		call   func() error
		status int
	}{
		{"supplier cannot accept", func() error { _, err := f.offers.AcceptOffer(ctx, supplier, offer.ID); return err }, http.StatusForbidden},
		{"other buyer cannot reject", func() error {
			_, err := f.offers.RejectOffer(ctx, models.Party{Role: models.Buyer, ID: "b2"}, offer.ID)
			return err
		}, http.StatusForbidden},
		{"buyer cannot quote", func() error {
			_, err := f.offers.CreateOffer(ctx, buyer, models.OfferRequest{RFQID: rfq.ID, UnitPrice: decimal.NewFromInt(1)})
			return err
		}, http.StatusForbidden},
		{"unknown offer", func() error { _, err := f.offers.AcceptOffer(ctx, buyer, "missing"); return err }, http.StatusNotFound},
		{"mismatched total", func() error {
			total := decimal.NewFromInt(1)
			_, err := f.offers.CreateOffer(ctx, rival, models.OfferRequest{RFQID: rfq.ID, UnitPrice: decimal.NewFromInt(50), TotalAmount: &total})
			return err
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusOf(tt.call()); got != tt.status {
				t.Fatalf("status = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestOfferService_CounterSupersedesPrior(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rfq := f.publish(t)
	offer := f.quote(t, supplier, rfq.ID, 50)

	next, err := f.offers.CounterOffer(ctx, buyer, offer.ID, models.CounterRequest{UnitPrice: decimal.NewFromInt(40)})
	if err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}
	if next.SupersedesID == nil || *next.SupersedesID != offer.ID {
		t.Fatalf("counter does not reference prior offer: %+v", next)
	}
	if next.ProposedBy != models.Buyer || next.SupplierID != supplier.ID {
		t.Fatalf("unexpected counter parties: %+v", next)
	}
	if !next.TotalAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("counter total = %s, want 400", next.TotalAmount)
	}

	prior, err := f.store.GetOffer(ctx, offer.ID)
	if err != nil || prior.Status != models.CounterOfferedOffer {
		t.Fatalf("prior offer = %+v, %v", prior, err)
	}
	if _, err := f.offers.AcceptOffer(ctx, buyer, offer.ID); statusOf(err) != http.StatusConflict {
		t.Fatalf("accepting superseded offer: %v, want 409", err)
	}
	if _, err := f.offers.AcceptOffer(ctx, buyer, next.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("buyer accepting own counter: %v, want 403", err)
	}
	order, err := f.offers.AcceptOffer(ctx, supplier, next.ID)
	if err != nil {
		t.Fatalf("supplier accepting buyer counter: %v", err)
	}
	if order.BuyerID != buyer.ID || order.SupplierID != supplier.ID || !order.TotalAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected order from counter: %+v", order)
	}
}

func TestRFQService_GetNegotiationScopesSupplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rfq := f.publish(t)
	mine := f.quote(t, supplier, rfq.ID, 50)
	f.quote(t, rival, rfq.ID, 45)

	view, err := f.rfqs.GetNegotiation(ctx, supplier, rfq.ID)
	if err != nil {
		t.Fatalf("GetNegotiation: %v", err)
	}
	if len(view.Offers) != 1 || view.Offers[0].ID != mine.ID {
		t.Fatalf("supplier sees %+v", view.Offers)
	}

	full, err := f.rfqs.GetNegotiation(ctx, buyer, rfq.ID)
	if err != nil || len(full.Offers) != 2 {
		t.Fatalf("buyer view = %+v, %v", full, err)
	}
	if len(full.Actions.Offers[mine.ID]) == 0 {
		t.Fatal("buyer should have actions on a pending offer")
	}

	if _, err := f.rfqs.GetNegotiation(ctx, models.Party{Role: models.Buyer, ID: "b2"}, rfq.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("foreign buyer: %v, want 403", err)
	}
	if _, err := f.rfqs.CancelRFQ(ctx, buyer, rfq.ID); err != nil {
		t.Fatalf("CancelRFQ: %v", err)
	}
	outsider := models.Party{Role: models.Supplier, ID: "s9"}
	if _, err := f.rfqs.GetNegotiation(ctx, outsider, rfq.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("outsider on closed rfq: %v, want 403", err)
	}
}

func TestRFQService_ExpireOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	overdue := f.publish(t)
	accepted := f.publish(t)
	offer := f.quote(t, supplier, accepted.ID, 10)
	if _, err := f.offers.AcceptOffer(ctx, buyer, offer.ID); err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}

	f.now = testNow.Add(48 * time.Hour)
	n, err := f.rfqs.ExpireOverdue(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ExpireOverdue = %d, %v; want 1", n, err)
	}
	got, _ := f.store.GetRFQ(ctx, overdue.ID)
	if got.Status != models.ExpiredRFQ {
		t.Fatalf("status = %s, want expired", got.Status)
	}
	if n, _ := f.rfqs.ExpireOverdue(ctx); n != 0 {
		t.Fatalf("second sweep expired %d rfqs", n)
	}
	last := f.history.changes[len(f.history.changes)-1]
	if last.Role != models.System || last.To != string(models.ExpiredRFQ) {
		t.Fatalf("unexpected history entry: %+v", last)
	}
}

func TestRFQService_RunExpirySweeperStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.publish(t)
	f.now = testNow.Add(48 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.rfqs.RunExpirySweeper(ctx, time.Hour)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		list, _, _ := f.rfqs.ListRFQs(context.Background(), buyer, listing.Filter{Status: "expired"}, 20, 0)
		if len(list) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sweeper did not run on start")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestOrderService_Progression(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rfq := f.publish(t)
	offer := f.quote(t, supplier, rfq.ID, 50)
	order, err := f.offers.AcceptOffer(ctx, buyer, offer.ID)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}

	steps := []struct {
		party  models.Party
		status models.OrderStatus
		want   int
	}{
		{buyer, models.ContractGeneratedOrder, http.StatusForbidden},
		{supplier, models.AwaitingPaymentOrder, http.StatusConflict},
		{supplier, models.ContractGeneratedOrder, 0},
		{buyer, models.AwaitingPaymentOrder, 0},
		{supplier, models.PaymentReceivedOrder, http.StatusForbidden},
		{buyer, models.PaymentReceivedOrder, 0},
		{supplier, models.InPreparationOrder, 0},
		{buyer, "shipped", http.StatusBadRequest},
	}
	for _, step := range steps {
		got, err := f.orders.UpdateStatus(ctx, step.party, order.ID, string(step.status))
		if step.want != 0 {
			if statusOf(err) != step.want {
				t.Fatalf("%s -> %s: status %d (%v), want %d", step.party.Role, step.status, statusOf(err), err, step.want)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s -> %s: %v", step.party.Role, step.status, err)
		}
		if got.Status != step.status {
			t.Fatalf("status = %s, want %s", got.Status, step.status)
		}
	}

	paid, err := f.orders.GetOrder(ctx, buyer, order.ID)
	if err != nil || paid.PaymentStatus != models.PaidPayment {
		t.Fatalf("payment status = %+v, %v", paid, err)
	}

	ttn := func() *Upload {
		return &Upload{Name: "TTN 1", FileName: "ttn.pdf", ContentType: "application/pdf", Size: 4, File: strings.NewReader("%PDF")}
	}
	if _, err := f.orders.SubmitDelivery(ctx, supplier, order.ID, "TRK-1", ttn()); statusOf(err) != http.StatusNotFound {
		t.Fatalf("delivery without company profile: %v, want 404", err)
	}
	if current, err := f.orders.GetOrder(ctx, supplier, order.ID); err != nil || current.Status != models.InPreparationOrder {
		t.Fatalf("order moved despite failed upload: %+v, %v", current, err)
	}
	registerCompany(t, f.store, supplier)

	shipped, err := f.orders.SubmitDelivery(ctx, supplier, order.ID, "TRK-1", &Upload{
		Name:        "TTN 1",
		FileName:    "ttn.pdf",
		ContentType: "application/pdf",
		Size:        4,
		File:        strings.NewReader("%PDF"),
	})
	if err != nil {
		t.Fatalf("SubmitDelivery: %v", err)
	}
	if shipped.Status != models.InTransitOrder || shipped.TrackingNumber != "TRK-1" {
		t.Fatalf("unexpected order after delivery: %+v", shipped)
	}
	docs, err := f.documents.List(ctx, supplier, supplier.ID)
	if err != nil || len(docs) != 1 || docs[0].Type != models.TransportDocument || docs[0].OrderID == nil {
		t.Fatalf("transport document = %+v, %v", docs, err)
	}

	history, err := f.orders.History(ctx, buyer, order.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 6 {
		t.Fatalf("history has %d entries, want 6", len(history))
	}

	if _, err := f.orders.GetOrder(ctx, rival, order.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("outsider access: %v, want 403", err)
	}
}

func TestOrderService_SubmitDeliveryRequiresTrackingNumber(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.SubmitDelivery(context.Background(), supplier, "any", "  ", nil)
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", statusOf(err))
	}
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	upload := func() Upload {
		return Upload{Name: "Certificate", Type: models.CertificateDocument, FileName: "cert.pdf",
			ContentType: "application/pdf; charset=binary", Size: 3, File: strings.NewReader("pdf")}
	}

	tests := []struct {
		name      string
		mutate    func(*Upload)
		noS3      bool
		noCompany bool
		status    int
	}{
		{name: "stored"},
		{name: "storage not configured", noS3: true, status: http.StatusServiceUnavailable},
		{name: "foreign company", mutate: func(u *Upload) { u.CompanyID = "other" }, status: http.StatusForbidden},
		{name: "disallowed type", mutate: func(u *Upload) { u.ContentType = "application/x-msdownload" }, status: http.StatusBadRequest},
		{name: "too large", mutate: func(u *Upload) { u.Size = MaxUploadSize + 1 }, status: http.StatusBadRequest},
		{name: "unknown document type", mutate: func(u *Upload) { u.Type = "selfie" }, status: http.StatusBadRequest},
		{name: "no company profile", noCompany: true, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := newFakeObjects()
			store := memory.NewStore()
			if !tt.noCompany {
				registerCompany(t, store, supplier)
			}
			svc := NewDocumentService(store, store, objects, nil)
			if tt.noS3 {
				svc.Store = nil
			}
			up := upload()
			if tt.mutate != nil {
				tt.mutate(&up)
			}
			doc, err := svc.Upload(ctx, supplier, up)
			if tt.status != 0 {
				if statusOf(err) != tt.status {
					t.Fatalf("status = %d (%v), want %d", statusOf(err), err, tt.status)
				}
				if len(objects.objects) != 0 {
					t.Fatal("object stored for a rejected upload")
				}
				return
			}
			if err != nil {
				t.Fatalf("Upload: %v", err)
			}
			if doc.ContentType != "application/pdf" || doc.CompanyID != supplier.ID {
				t.Fatalf("unexpected document: %+v", doc)
			}
			if string(objects.objects[doc.ObjectKey]) != "pdf" {
				t.Fatal("object was not stored under the document key")
			}

			_, body, err := svc.Open(ctx, supplier, doc.ID)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			body.Close()

			if err := svc.Delete(ctx, supplier, doc.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if len(objects.objects) != 0 {
				t.Fatal("object was not removed")
			}
		})
	}
}

func TestHistoryFailureDoesNotAbortOperation(t *testing.T) {
	f := newFixture(t)
	f.history.err = errors.New("mongo down")
	if _, err := f.rfqs.CreateRFQ(context.Background(), buyer, rfqRequest()); err != nil {
		t.Fatalf("CreateRFQ: %v", err)
	}
}

func TestCompanyAndAnalytics(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	companies := NewCompanyService(store, nil)
	analytics := NewAnalyticsService(store, nil)

	created, err := companies.CreateCompany(ctx, supplier, models.CompanyRequest{Name: "SteelCo"})
	if err != nil || created.ID != supplier.ID || created.Role != models.Supplier {
		t.Fatalf("CreateCompany = %+v, %v", created, err)
	}
	if _, err := companies.CreateCompany(ctx, supplier, models.CompanyRequest{Name: "SteelCo"}); statusOf(err) != http.StatusConflict {
		t.Fatalf("duplicate company: %v, want 409", err)
	}
	if _, err := companies.UpdateCompany(ctx, buyer, supplier.ID, models.CompanyRequest{Name: "X"}); statusOf(err) != http.StatusForbidden {
		t.Fatalf("foreign update: %v, want 403", err)
	}
	updated, err := companies.UpdateCompany(ctx, supplier, supplier.ID, models.CompanyRequest{Name: "SteelCo LLC", Phone: "+998"})
	if err != nil || updated.Name != "SteelCo LLC" || updated.Phone != "+998" {
		t.Fatalf("UpdateCompany = %+v, %v", updated, err)
	}
	if _, err := companies.GetCompany(ctx, "missing"); statusOf(err) != http.StatusNotFound {
		t.Fatalf("missing company: %v, want 404", err)
	}

	stats, err := analytics.SellerStats(ctx, supplier, "")
	if err != nil || stats.SupplierID != supplier.ID || stats.TotalOffers != 0 {
		t.Fatalf("SellerStats = %+v, %v", stats, err)
	}
	if _, err := analytics.SellerStats(ctx, buyer, supplier.ID); statusOf(err) != http.StatusForbidden {
		t.Fatalf("buyer analytics: %v, want 403", err)
	}
}

func TestCatalogService_Products(t *testing.T) {
	store := memory.NewStore()
	store.AddCategories(memory.DefaultCategories()...)
	store.AddProducts(
		models.Product{ID: "p1", Name: "Cement M400", Category: "cement", Price: decimal.NewFromInt(60), Rating: 4.1},
		models.Product{ID: "p2", Name: "Cement M500", Category: "cement", Price: decimal.NewFromInt(70), Rating: 4.8},
		models.Product{ID: "p3", Name: "Rebar A500", Category: "rebar", Price: decimal.NewFromInt(700), Rating: 4.5},
	)
	svc := NewCatalogService(store, nil)

	products, count, err := svc.Products(context.Background(), listing.Filter{Category: "cement", SortBy: "rating"}, 20, 0)
	if err != nil || count != 2 {
		t.Fatalf("Products = %d, %v", count, err)
	}
	if products[0].ID != "p2" {
		t.Fatalf("first product = %s, want p2", products[0].ID)
	}

	categories, err := svc.Categories(context.Background())
	if err != nil || len(categories) == 0 {
		t.Fatalf("Categories = %v, %v", categories, err)
	}
}

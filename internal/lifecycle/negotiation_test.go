package lifecycle

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/shopspring/decimal"
)

var (
	testNow   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testBuyer = models.Party{Role: models.Buyer, ID: "buyer1"}
)

func newNegotiation(t *testing.T, suppliers ...string) *Negotiation {
	t.Helper()
	n := &Negotiation{RFQ: models.RFQ{
		ID:       "rfq1",
		Title:    "Rebar A500C",
		Category: "metal",
		Volume:   decimal.NewFromInt(20),
		Unit:     "t",
		Status:   models.ActiveRFQ,
		BuyerID:  "buyer1",
		Deadline: testNow.Add(72 * time.Hour),
	}}
	for i, s := range suppliers {
		offer := models.Offer{
			ID:          fmt.Sprintf("offer%d", i+1),
			SupplierID:  s,
			UnitPrice:   decimal.NewFromInt(8500),
			TotalAmount: decimal.NewFromInt(170000),
		}
		if err := n.AddOffer(offer); err != nil {
			t.Fatalf("AddOffer(%s): %v", offer.ID, err)
		}
	}
	return n
}

func acceptedCount(n *Negotiation) int {
	count := 0
	for _, o := range n.Offers {
		if o.Status == models.AcceptedOffer {
			count++
		}
	}
	return count
}

func TestNegotiation_AcceptCreatesOrder(t *testing.T) {
	n := newNegotiation(t, "supplier1", "supplier2")

	order, err := n.Accept("offer1", testBuyer, "ord1", testNow)
	if err != nil {
		t.Fatalf("Accept() unexpected error: %v", err)
	}

	if n.RFQ.Status != models.CompletedRFQ {
		t.Errorf("expected rfq completed, got %s", n.RFQ.Status)
	}
	if order.Status != models.CreatedOrder || order.PaymentStatus != models.PendingPayment {
		t.Errorf("expected created/pending order, got %s/%s", order.Status, order.PaymentStatus)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(170000)) {
		t.Errorf("expected order total 170000, got %s", order.TotalAmount)
	}
	if order.SupplierID != "supplier1" || order.BuyerID != "buyer1" || order.OfferID != "offer1" {
		t.Errorf("unexpected order parties: %+v", order)
	}
	if n.Order != order {
		t.Error("expected negotiation to hold the created order")
	}
}

func TestNegotiation_AcceptanceExclusivity(t *testing.T) {
	n := newNegotiation(t, "supplier1", "supplier2", "supplier3")

	if _, err := n.Accept("offer2", testBuyer, "ord1", testNow); err != nil {
		t.Fatalf("first Accept(): %v", err)
	}
	for _, id := range []string{"offer1", "offer3", "offer2"} {
		if _, err := n.Accept(id, testBuyer, "ord2", testNow); err == nil {
			t.Errorf("Accept(%s) after acceptance should fail", id)
		}
		if got := acceptedCount(n); got != 1 {
			t.Fatalf("expected exactly one accepted offer, got %d", got)
		}
	}
	if n.Order.ID != "ord1" {
		t.Errorf("order replaced by rejected acceptance: %s", n.Order.ID)
	}
}

func TestNegotiation_AcceptRequiresActiveRFQ(t *testing.T) {
	for _, status := range []models.RFQStatus{models.CancelledRFQ, models.ExpiredRFQ, models.CompletedRFQ} {
		t.Run(string(status), func(t *testing.T) {
			n := newNegotiation(t, "supplier1")
			n.RFQ.Status = status

			_, err := n.Accept("offer1", testBuyer, "ord1", testNow)
			if !errors.Is(err, ErrRFQNotActive) {
				t.Fatalf("expected ErrRFQNotActive, got %v", err)
			}
			if n.Offers[0].Status != models.PendingOffer {
				t.Errorf("offer changed on rejection: %s", n.Offers[0].Status)
			}
			if n.Order != nil {
				t.Error("order created on rejection")
			}
		})
	}
}

func TestNegotiation_AcceptRejections(t *testing.T) {
	tests := []struct {
		name    string
		offerID string
		party   models.Party
		mutate  func(n *Negotiation)
		wantErr error
	}{
		{"not the owner", "offer1", models.Party{Role: models.Buyer, ID: "buyer2"}, nil, ErrNotPermitted},
		{"supplier cannot accept", "offer1", models.Party{Role: models.Supplier, ID: "buyer1"}, nil, ErrNotPermitted},
		{"missing offer", "nope", testBuyer, nil, ErrOfferNotFound},
		{"rejected offer", "offer1", testBuyer, func(n *Negotiation) { n.Offers[0].Status = models.RejectedOffer }, ErrInvalidTransition},
		{"inconsistent total", "offer1", testBuyer, func(n *Negotiation) { n.Offers[0].TotalAmount = decimal.NewFromInt(1) }, ErrTotalMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNegotiation(t, "supplier1")
			if tt.mutate != nil {
				tt.mutate(n)
			}
			before := n.Offers[0].Status

			_, err := n.Accept(tt.offerID, tt.party, "ord1", testNow)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if n.RFQ.Status != models.ActiveRFQ {
				t.Errorf("rfq changed on rejection: %s", n.RFQ.Status)
			}
			if n.Offers[0].Status != before {
				t.Errorf("offer changed on rejection: %s", n.Offers[0].Status)
			}
		})
	}
}

func TestNegotiation_RejectIsTerminal(t *testing.T) {
	n := newNegotiation(t, "supplier1")

	if err := n.Reject("offer1", testBuyer); err != nil {
		t.Fatalf("Reject(): %v", err)
	}
	if err := n.Reject("offer1", testBuyer); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Reject() expected ErrInvalidTransition, got %v", err)
	}
	if _, err := n.Accept("offer1", testBuyer, "ord1", testNow); err == nil {
		t.Error("Accept() of rejected offer should fail")
	}
	if n.Offers[0].Status != models.RejectedOffer {
		t.Errorf("expected rejected, got %s", n.Offers[0].Status)
	}
}

func TestNegotiation_CounterLinksOffers(t *testing.T) {
	n := newNegotiation(t, "supplier1")

	terms := CounterTerms{UnitPrice: decimal.NewFromInt(8000), Message: "volume discount?"}
	next, err := n.Counter("offer1", testBuyer, terms, "offer9", testNow)
	if err != nil {
		t.Fatalf("Counter(): %v", err)
	}

	if n.Offers[0].Status != models.CounterOfferedOffer {
		t.Errorf("expected prior offer counter_offered, got %s", n.Offers[0].Status)
	}
	if next.Status != models.PendingOffer {
		t.Errorf("expected new offer pending, got %s", next.Status)
	}
	if next.SupersedesID == nil || *next.SupersedesID != "offer1" {
		t.Errorf("expected supersedes offer1, got %v", next.SupersedesID)
	}
	if next.SupplierID != "supplier1" || next.ProposedBy != models.Buyer {
		t.Errorf("unexpected counter parties: supplier=%s proposedBy=%s", next.SupplierID, next.ProposedBy)
	}
	if !next.TotalAmount.Equal(decimal.NewFromInt(160000)) {
		t.Errorf("expected total 160000, got %s", next.TotalAmount)
	}

	if _, err := n.Counter("offer1", testBuyer, terms, "offer10", testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("countering a superseded offer expected ErrInvalidTransition, got %v", err)
	}

	supplier := models.Party{Role: models.Supplier, ID: "supplier1"}
	again, err := n.Counter("offer9", supplier, CounterTerms{UnitPrice: decimal.NewFromInt(8200)}, "offer11", testNow)
	if err != nil {
		t.Fatalf("supplier Counter(): %v", err)
	}
	if *again.SupersedesID != "offer9" || again.ProposedBy != models.Supplier {
		t.Errorf("unexpected supplier counter: %+v", again)
	}
	if len(n.Offers) != 3 {
		t.Errorf("expected 3 offers, got %d", len(n.Offers))
	}
}

func TestNegotiation_CounterRejections(t *testing.T) {
	tests := []struct {
		name    string
		party   models.Party
		price   int64
		mutate  func(n *Negotiation)
		wantErr error
	}{
		{"foreign supplier", models.Party{Role: models.Supplier, ID: "supplier2"}, 8000, nil, ErrNotPermitted},
		{"system", models.Party{Role: models.System}, 8000, nil, ErrNotPermitted},
		{"closed rfq", testBuyer, 8000, func(n *Negotiation) { n.RFQ.Status = models.ExpiredRFQ }, ErrRFQNotActive},
		{"non-positive price", testBuyer, 0, nil, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNegotiation(t, "supplier1")
			if tt.mutate != nil {
				tt.mutate(n)
			}
			_, err := n.Counter("offer1", tt.party, CounterTerms{UnitPrice: decimal.NewFromInt(tt.price)}, "offer9", testNow)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(n.Offers) != 1 || n.Offers[0].Status != models.PendingOffer {
				t.Errorf("negotiation changed on rejection: %+v", n.Offers)
			}
		})
	}
}

func TestNegotiation_CancelAndExpire(t *testing.T) {
	n := newNegotiation(t)
	if err := n.Cancel(models.Party{Role: models.Buyer, ID: "buyer2"}); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
	if err := n.Cancel(testBuyer); err != nil {
		t.Fatalf("Cancel(): %v", err)
	}
	if err := n.Cancel(testBuyer); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Cancel() expected ErrInvalidTransition, got %v", err)
	}
	if n.Expire(testNow.Add(100 * time.Hour)) {
		t.Error("cancelled rfq must not expire")
	}
	if n.RFQ.Status != models.CancelledRFQ {
		t.Errorf("expected cancelled, got %s", n.RFQ.Status)
	}

	open := newNegotiation(t, "supplier1")
	if open.Expire(testNow) {
		t.Error("rfq expired before deadline")
	}
	if !open.Expire(testNow.Add(73 * time.Hour)) {
		t.Error("rfq did not expire after deadline")
	}
	if open.RFQ.Status != models.ExpiredRFQ {
		t.Errorf("expected expired, got %s", open.RFQ.Status)
	}
}

func TestNegotiation_AddOffer(t *testing.T) {
	tests := []struct {
		name    string
		offer   models.Offer
		status  models.RFQStatus
		wantErr error
	}{
		{"buyer quoting own rfq", models.Offer{ID: "o", SupplierID: "buyer1", UnitPrice: decimal.NewFromInt(1), TotalAmount: decimal.NewFromInt(20)}, models.ActiveRFQ, ErrNotPermitted},
		{"total mismatch", models.Offer{ID: "o", SupplierID: "s", UnitPrice: decimal.NewFromInt(10), TotalAmount: decimal.NewFromInt(100)}, models.ActiveRFQ, ErrTotalMismatch},
		{"inactive rfq", models.Offer{ID: "o", SupplierID: "s", UnitPrice: decimal.NewFromInt(10), TotalAmount: decimal.NewFromInt(200)}, models.ExpiredRFQ, ErrRFQNotActive},
		{"pre-accepted", models.Offer{ID: "o", SupplierID: "s", UnitPrice: decimal.NewFromInt(10), TotalAmount: decimal.NewFromInt(200), Status: models.AcceptedOffer}, models.ActiveRFQ, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNegotiation(t)
			n.RFQ.Status = tt.status
			if err := n.AddOffer(tt.offer); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(n.Offers) != 0 {
				t.Errorf("offer added despite error")
			}
		})
	}
}

func TestReconcileTotal(t *testing.T) {
	unit := decimal.RequireFromString("12.50")
	volume := decimal.RequireFromString("3.2")
	if err := ReconcileTotal(unit, volume, decimal.RequireFromString("40")); err != nil {
		t.Errorf("expected 12.50 x 3.2 = 40, got %v", err)
	}
	if err := ReconcileTotal(unit, volume, decimal.RequireFromString("40.01")); !errors.Is(err, ErrTotalMismatch) {
		t.Errorf("expected ErrTotalMismatch, got %v", err)
	}
	if err := ReconcileTotal(decimal.RequireFromString("10.01"), decimal.RequireFromString("2.5"), decimal.RequireFromString("25.03")); err != nil {
		t.Errorf("expected 10.01 x 2.5 = 25.03 after rounding, got %v", err)
	}
	if err := ReconcileTotal(decimal.RequireFromString("10.01"), decimal.RequireFromString("2.5"), decimal.RequireFromString("25.025")); !errors.Is(err, ErrTotalMismatch) {
		t.Errorf("unrounded total must not reconcile, got %v", err)
	}
}

func TestNegotiation_CloneIsIndependent(t *testing.T) {
	n := newNegotiation(t, "supplier1")
	c := n.Clone()

	if _, err := c.Accept("offer1", testBuyer, "ord1", testNow); err != nil {
		t.Fatalf("Accept() on clone: %v", err)
	}
	if n.RFQ.Status != models.ActiveRFQ || n.Offers[0].Status != models.PendingOffer || n.Order != nil {
		t.Errorf("original changed by clone: rfq=%s offer=%s", n.RFQ.Status, n.Offers[0].Status)
	}
}

func TestNegotiation_AcceptSurvivesStoredScale(t *testing.T) {
	n := newNegotiation(t)
	n.RFQ.Volume = decimal.RequireFromString("2.5")

	req := models.OfferRequest{SupplierID: "supplier1", UnitPrice: decimal.RequireFromString("10.01")}
	offer, err := NewOffer("offer1", req, n.RFQ, testNow)
	if err != nil {
		t.Fatalf("NewOffer(): %v", err)
	}
	if !offer.TotalAmount.Equal(decimal.RequireFromString("25.03")) {
		t.Fatalf("total = %s, want 25.03", offer.TotalAmount)
	}
	if err := n.AddOffer(offer); err != nil {
		t.Fatalf("AddOffer(): %v", err)
	}

	// Значения после чтения из NUMERIC(16,3) / NUMERIC(16,2) / NUMERIC(18,2).
	stored := n.Clone()
	stored.RFQ.Volume = stored.RFQ.Volume.Round(VolumeScale)
	stored.Offers[0].UnitPrice = stored.Offers[0].UnitPrice.Round(PriceScale)
	stored.Offers[0].TotalAmount = stored.Offers[0].TotalAmount.Round(PriceScale)
	if !stored.Offers[0].TotalAmount.Equal(offer.TotalAmount) {
		t.Fatalf("stored total %s differs from computed %s", stored.Offers[0].TotalAmount, offer.TotalAmount)
	}

	order, err := stored.Accept("offer1", testBuyer, "ord1", testNow)
	if err != nil {
		t.Fatalf("Accept() after storage round trip: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("25.03")) {
		t.Errorf("order total = %s, want 25.03", order.TotalAmount)
	}
}

func TestScaleLimits(t *testing.T) {
	rfq := newNegotiation(t).RFQ

	tests := []struct {
		name string
		run  func() error
	}{
		{"offer price with three decimals", func() error {
			_, err := NewOffer("o", models.OfferRequest{SupplierID: "supplier1", UnitPrice: decimal.RequireFromString("10.015")}, rfq, testNow)
			return err
		}},
		{"counter price with three decimals", func() error {
			n := newNegotiation(t, "supplier1")
			_, err := n.Counter("offer1", testBuyer, CounterTerms{UnitPrice: decimal.RequireFromString("8000.001")}, "o2", testNow)
			return err
		}},
		{"volume with four decimals", func() error {
			req := models.RFQRequest{
				BuyerID: "buyer1", Title: "Cement", Category: "cement", Unit: "t", DeliveryLocation: "Tashkent",
				PaymentMethod: models.BankPayment, Volume: decimal.RequireFromString("1.2345"), Deadline: testNow.Add(time.Hour),
			}
			return ValidateRFQRequest(req, testNow)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if _, err := NewOffer("o", models.OfferRequest{SupplierID: "supplier1", UnitPrice: decimal.RequireFromString("10.010")}, rfq, testNow); err != nil {
		t.Errorf("trailing zero must fit the price scale: %v", err)
	}
}

func TestNegotiation_BuyerCounterNeedsSupplier(t *testing.T) {
	n := newNegotiation(t, "supplier1")
	supplier := models.Party{Role: models.Supplier, ID: "supplier1"}

	next, err := n.Counter("offer1", testBuyer, CounterTerms{UnitPrice: decimal.NewFromInt(1)}, "offer2", testNow)
	if err != nil {
		t.Fatalf("Counter(): %v", err)
	}

	if _, err := n.Accept(next.ID, testBuyer, "ord1", testNow); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("buyer accepting own counter: expected ErrNotPermitted, got %v", err)
	}
	if err := n.Reject(next.ID, testBuyer); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("buyer rejecting own counter: expected ErrNotPermitted, got %v", err)
	}
	if _, err := n.Accept(next.ID, models.Party{Role: models.Supplier, ID: "supplier2"}, "ord1", testNow); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("foreign supplier accepting: expected ErrNotPermitted, got %v", err)
	}
	if n.RFQ.Status != models.ActiveRFQ || n.Offers[1].Status != models.PendingOffer {
		t.Fatalf("negotiation changed by refused accept: rfq=%s offer=%s", n.RFQ.Status, n.Offers[1].Status)
	}

	order, err := n.Accept(next.ID, supplier, "ord1", testNow)
	if err != nil {
		t.Fatalf("supplier accepting buyer counter: %v", err)
	}
	if order.BuyerID != "buyer1" || order.SupplierID != "supplier1" || !order.TotalAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("unexpected order %+v", order)
	}
	if n.RFQ.Status != models.CompletedRFQ {
		t.Errorf("expected completed rfq, got %s", n.RFQ.Status)
	}
}

func TestNegotiation_SupplierRejectsBuyerCounter(t *testing.T) {
	n := newNegotiation(t, "supplier1")
	next, err := n.Counter("offer1", testBuyer, CounterTerms{UnitPrice: decimal.NewFromInt(7000)}, "offer2", testNow)
	if err != nil {
		t.Fatalf("Counter(): %v", err)
	}
	if err := n.Reject(next.ID, models.Party{Role: models.Supplier, ID: "supplier1"}); err != nil {
		t.Fatalf("supplier Reject(): %v", err)
	}
	if n.Offers[1].Status != models.RejectedOffer {
		t.Errorf("expected rejected, got %s", n.Offers[1].Status)
	}
}

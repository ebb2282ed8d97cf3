package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/lifecycle"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/session"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"github.com/shopspring/decimal"
)

var (
	testNow      = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testBuyer    = models.Party{Role: models.Buyer, ID: "buyer1"}
	testSupplier = models.Party{Role: models.Supplier, ID: "supplier1"}
)

func newTestClient(t *testing.T, party models.Party, mux *http.ServeMux) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(srv.URL, party, WithHTTPClient(srv.Client()), WithLogger(logger), WithClock(func() time.Time { return testNow }))
	return c, &calls
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func testNegotiation() lifecycle.Negotiation {
	return lifecycle.Negotiation{
		RFQ: models.RFQ{
			ID:       "rfq1",
			Title:    "Арматура А500С",
			Category: "metal",
			Volume:   decimal.NewFromInt(20),
			Status:   models.ActiveRFQ,
			BuyerID:  "buyer1",
			Deadline: testNow.Add(48 * time.Hour),
		},
		Offers: []models.Offer{{
			ID:          "offer1",
			RFQID:       "rfq1",
			SupplierID:  "supplier1",
			UnitPrice:   decimal.NewFromInt(100),
			TotalAmount: decimal.NewFromInt(2000),
			Status:      models.PendingOffer,
		}},
	}
}

func TestClient_SendsPartyAndFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rfqs", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("userId") != "supplier1" || q.Get("role") != "supplier" {
			t.Errorf("party query = %v", q)
		}
		if q.Get("status") != "active" || q.Get("search") != "цемент" || q.Get("limit") != "10" {
			t.Errorf("filter query = %v", q)
		}
		if q.Has("category") {
			t.Errorf("category 'all' must not be sent: %v", q)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"results": []models.RFQ{{ID: "rfq1", Status: models.ActiveRFQ}},
			"count":   7,
		})
	})
	c, _ := newTestClient(t, testSupplier, mux)

	f := listing.Filter{Status: "active", Category: listing.All, Search: "цемент"}
	got, err := c.RFQs(context.Background(), f, Page{Limit: 10})
	if err != nil {
		t.Fatalf("RFQs(): %v", err)
	}
	if len(got.Items) != 1 || got.Count != 7 || got.Items[0].ID != "rfq1" {
		t.Errorf("RFQs() = %+v", got)
	}
}

func TestClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/{orderId}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, models.ErrorResponse{Message: "order not found"})
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})
	c, _ := newTestClient(t, testBuyer, mux)

	_, err := c.Order(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Order() err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Reason != "order not found" {
		t.Errorf("APIError = %+v", apiErr)
	}

	_, err = c.Categories(context.Background())
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway || apiErr.Reason != "upstream unavailable" {
		t.Errorf("Categories() err = %v", err)
	}
}

func TestClient_LocalValidationSkipsRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	tests := []struct {
		name  string
		party models.Party
		call  func(c *Client) error
		want  error
	}{
		{
			name:  "supplier cannot accept",
			party: testSupplier,
			call: func(c *Client) error {
				_, err := c.AcceptOffer(context.Background(), testNegotiation(), "offer1")
				return err
			},
			want: lifecycle.ErrNotPermitted,
		},
		{
			name:  "accept on completed rfq",
			party: testBuyer,
			call: func(c *Client) error {
				n := testNegotiation()
				n.RFQ.Status = models.CompletedRFQ
				_, err := c.AcceptOffer(context.Background(), n, "offer1")
				return err
			},
			want: lifecycle.ErrRFQNotActive,
		},
		{
			name:  "reject already rejected offer",
			party: testBuyer,
			call: func(c *Client) error {
				n := testNegotiation()
				n.Offers[0].Status = models.RejectedOffer
				_, err := c.RejectOffer(context.Background(), n, "offer1")
				return err
			},
			want: lifecycle.ErrInvalidTransition,
		},
		{
			name:  "skip order step",
			party: testSupplier,
			call: func(c *Client) error {
				_, err := c.AdvanceOrder(context.Background(), models.Order{ID: "ord1", BuyerID: "buyer1", SupplierID: "supplier1", Status: models.CreatedOrder}, models.InTransitOrder)
				return err
			},
			want: lifecycle.ErrInvalidTransition,
		},
		{
			name:  "supplier cannot pay",
			party: testSupplier,
			call: func(c *Client) error {
				_, err := c.PayOrder(context.Background(), models.Order{ID: "ord1", BuyerID: "buyer1", SupplierID: "supplier1", Status: models.AwaitingPaymentOrder, PaymentStatus: models.PendingPayment})
				return err
			},
			want: lifecycle.ErrNotPermitted,
		},
		{
			name:  "offer total mismatch",
			party: testSupplier,
			call: func(c *Client) error {
				total := decimal.NewFromInt(999)
				_, err := c.SubmitOffer(context.Background(), testNegotiation().RFQ, models.OfferRequest{UnitPrice: decimal.NewFromInt(100), TotalAmount: &total})
				return err
			},
			want: lifecycle.ErrTotalMismatch,
		},
		{
			name:  "rfq deadline in the past",
			party: testBuyer,
			call: func(c *Client) error {
				_, err := c.CreateRFQ(context.Background(), models.RFQRequest{
					Title: "Цемент", Category: "cement", Volume: decimal.NewFromInt(5), Unit: "t",
					DeliveryLocation: "Ташкент", PaymentMethod: models.BankPayment, Deadline: testNow.Add(-time.Hour),
				})
				return err
			},
			want: lifecycle.ErrValidation,
		},
		{
			name:  "delivery without tracking number",
			party: testSupplier,
			call: func(c *Client) error {
				_, err := c.SubmitDelivery(context.Background(), models.Order{ID: "ord1", Status: models.InPreparationOrder}, Delivery{})
				return err
			},
			want: lifecycle.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, tt.party, mux)
			err := tt.call(c)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if n := atomic.LoadInt32(calls); n != 0 {
				t.Errorf("server received %d requests", n)
			}
		})
	}
}

func TestClient_AcceptOffer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/offers/{offerId}/accept", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("offerId") != "offer1" {
			t.Errorf("offerId = %q", r.PathValue("offerId"))
		}
		writeJSON(t, w, http.StatusOK, models.Order{ID: "ord1", OfferID: "offer1", Status: models.CreatedOrder, PaymentStatus: models.PendingPayment})
	})
	c, calls := newTestClient(t, testBuyer, mux)

	n := testNegotiation()
	order, err := c.AcceptOffer(context.Background(), n, "offer1")
	if err != nil {
		t.Fatalf("AcceptOffer(): %v", err)
	}
	if order.ID != "ord1" || order.Status != models.CreatedOrder {
		t.Errorf("order = %+v", order)
	}
	if n.Offers[0].Status != models.PendingOffer {
		t.Error("local validation mutated caller's negotiation")
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("calls = %d, want exactly one attempt", atomic.LoadInt32(calls))
	}
}

func TestClient_NoRetryOnServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/orders/{orderId}/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, models.ErrorResponse{Message: "order was changed concurrently"})
	})
	c, calls := newTestClient(t, testSupplier, mux)

	order := models.Order{ID: "ord1", BuyerID: "buyer1", SupplierID: "supplier1", Status: models.CreatedOrder}
	_, err := c.AdvanceOrder(context.Background(), order, models.ContractGeneratedOrder)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("AdvanceOrder() err = %v", err)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("calls = %d, want 1", atomic.LoadInt32(calls))
	}
}

func TestClient_UploadDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/documents", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("name") != "Сертификат" || r.FormValue("type") != "certificate" || r.FormValue("companyId") != "c1" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if string(body) != "%PDF-1.4" || header.Filename != "cert.pdf" || header.Header.Get("Content-Type") != "application/pdf" {
			t.Errorf("file = %q %q %q", body, header.Filename, header.Header.Get("Content-Type"))
		}
		writeJSON(t, w, http.StatusCreated, models.Document{ID: "d1", Name: "Сертификат", Type: models.CertificateDocument})
	})
	c, _ := newTestClient(t, testSupplier, mux)

	doc, err := c.UploadDocument(context.Background(), DocumentUpload{
		CompanyID:   "c1",
		Name:        "Сертификат",
		Type:        models.CertificateDocument,
		FileName:    "cert.pdf",
		ContentType: "application/pdf",
		File:        strings.NewReader("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("UploadDocument(): %v", err)
	}
	if doc.ID != "d1" {
		t.Errorf("doc = %+v", doc)
	}

	_, err = c.UploadDocument(context.Background(), DocumentUpload{Name: "x", Type: "passport", File: strings.NewReader("x")})
	if !errors.Is(err, lifecycle.ErrValidation) {
		t.Errorf("unsupported type err = %v", err)
	}
}

func TestClient_SubmitDelivery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders/{orderId}/delivery", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("trackingNumber") != "TRK-1" {
			t.Errorf("trackingNumber = %q", r.FormValue("trackingNumber"))
		}
		writeJSON(t, w, http.StatusOK, models.Order{ID: "ord1", Status: models.InTransitOrder, TrackingNumber: "TRK-1"})
	})
	c, _ := newTestClient(t, testSupplier, mux)

	order := models.Order{ID: "ord1", BuyerID: "buyer1", SupplierID: "supplier1", Status: models.InPreparationOrder, PaymentStatus: models.PaidPayment}
	got, err := c.SubmitDelivery(context.Background(), order, Delivery{TrackingNumber: "TRK-1", FileName: "ttn.pdf", File: strings.NewReader("ttn")})
	if err != nil {
		t.Fatalf("SubmitDelivery(): %v", err)
	}
	if got.Status != models.InTransitOrder {
		t.Errorf("status = %s", got.Status)
	}
}

func TestLoadMetadata_AllSettled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rfqs/statuses/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]string{{"id": "active", "name": "Открыт"}, {"id": "expired", "name": "Истёк"}})
	})
	mux.HandleFunc("GET /api/offers/statuses/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, models.ErrorResponse{Message: "boom"})
	})
	mux.HandleFunc("GET /api/orders/statuses/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"results": []taxonomy.Badge{{Value: "created", Label: "Новый"}}})
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"results": []models.Category{{Key: "metal", Name: "Металлопрокат"}}, "count": 1})
	})
	c, _ := newTestClient(t, testBuyer, mux)

	md := c.LoadMetadata(context.Background())

	if len(md.Failed) != 1 || md.Failed[string(taxonomy.OfferKind)] == nil {
		t.Fatalf("Failed = %v, want only offers", md.Failed)
	}
	if got := md.Describe(taxonomy.RFQKind, "active"); got.Label != "Открыт" || got.Tone != taxonomy.Describe(taxonomy.RFQKind, "active").Tone {
		t.Errorf("rfq active = %+v", got)
	}
	if len(md.Statuses[taxonomy.RFQKind]) != 2 {
		t.Errorf("rfq statuses = %+v", md.Statuses[taxonomy.RFQKind])
	}
	if len(md.Statuses[taxonomy.OfferKind]) != len(models.OfferStatuses) {
		t.Errorf("offer statuses should fall back to defaults, got %+v", md.Statuses[taxonomy.OfferKind])
	}
	if md.Describe(taxonomy.OrderKind, "created").Label != "Новый" {
		t.Errorf("order created = %+v", md.Describe(taxonomy.OrderKind, "created"))
	}
	if len(md.Categories) != 1 || md.Categories[0].Key != "metal" {
		t.Errorf("categories = %+v", md.Categories)
	}
	if len(md.Statuses[taxonomy.PaymentKind]) != len(models.PaymentStatuses) {
		t.Errorf("payment statuses = %+v", md.Statuses[taxonomy.PaymentKind])
	}
}

func TestOptimistic(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		tr := session.NewTracked(models.PendingOffer)
		got, err := Optimistic(context.Background(), tr, models.AcceptedOffer, func(context.Context) (models.OfferStatus, error) {
			if v, phase := tr.Value(); v != models.AcceptedOffer || phase != session.Pending {
				t.Errorf("during call Value() = %s, %s", v, phase)
			}
			return models.AcceptedOffer, nil
		})
		if err != nil || got != models.AcceptedOffer {
			t.Fatalf("Optimistic() = %s, %v", got, err)
		}
		if v, phase := tr.Value(); v != models.AcceptedOffer || phase != session.Confirmed {
			t.Errorf("Value() = %s, %s", v, phase)
		}
	})

	t.Run("rolled back", func(t *testing.T) {
		tr := session.NewTracked(models.PendingOffer)
		callErr := &APIError{StatusCode: http.StatusConflict, Reason: "already accepted"}
		_, err := Optimistic(context.Background(), tr, models.AcceptedOffer, func(context.Context) (models.OfferStatus, error) {
			return "", callErr
		})
		if !errors.Is(err, callErr) {
			t.Fatalf("err = %v", err)
		}
		if v, phase := tr.Value(); v != models.PendingOffer || phase != session.RolledBack {
			t.Errorf("Value() = %s, %s", v, phase)
		}
	})
}

func TestClient_NextOrder(t *testing.T) {
	order := models.Order{ID: "ord1", BuyerID: "buyer1", SupplierID: "supplier1",
		Status: models.CreatedOrder, PaymentStatus: models.PendingPayment}
	awaiting := order
	awaiting.Status = models.AwaitingPaymentOrder

	tests := []struct {
		name        string
		party       models.Party
		order       models.Order
		to          models.OrderStatus
		wantErr     error
		wantStatus  models.OrderStatus
		wantPayment models.PaymentStatus
	}{
		{"supplier generates contract", testSupplier, order, models.ContractGeneratedOrder, nil, models.ContractGeneratedOrder, models.PendingPayment},
		{"buyer cannot generate contract", testBuyer, order, models.ContractGeneratedOrder, lifecycle.ErrNotPermitted, models.CreatedOrder, models.PendingPayment},
		{"skipping a step", testSupplier, order, models.AwaitingPaymentOrder, lifecycle.ErrInvalidTransition, models.CreatedOrder, models.PendingPayment},
		{"buyer pays", testBuyer, awaiting, models.PaymentReceivedOrder, nil, models.PaymentReceivedOrder, models.PaidPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("http://127.0.0.1:0", tt.party)
			before := tt.order
			got, err := c.NextOrder(tt.order, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NextOrder() err = %v, want %v", err, tt.wantErr)
			}
			if got.Status != tt.wantStatus || got.PaymentStatus != tt.wantPayment {
				t.Errorf("NextOrder() = %s/%s, want %s/%s", got.Status, got.PaymentStatus, tt.wantStatus, tt.wantPayment)
			}
			if tt.order != before {
				t.Error("NextOrder must not change the input order")
			}
		})
	}
}

package router

import (
	"net/http"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/handlers"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers собирает обработчики всех разделов API.
type Handlers struct {
	RFQ      *handlers.RFQHandler
	Offer    *handlers.OfferHandler
	Order    *handlers.OrderHandler
	Document *handlers.DocumentHandler
	Catalog  *handlers.CatalogHandler
}

func InitRoutes(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlers.PingHandler)

		r.Get("/categories", h.Catalog.ListCategories)
		r.Get("/products", h.Catalog.ListProducts)
		r.Post("/companies", h.Catalog.CreateCompany)
		r.Get("/companies/{companyId}", h.Catalog.GetCompany)
		r.Put("/companies/{companyId}", h.Catalog.UpdateCompany)
		r.Get("/analytics/seller", h.Catalog.SellerStats)

		r.Route("/rfqs", func(r chi.Router) {
			statusRoutes(r, taxonomy.RFQKind)
			r.Get("/", h.RFQ.ListRFQs)
			r.Post("/", h.RFQ.CreateRFQ)
			r.Get("/{rfqId}", h.RFQ.GetRFQ)
			r.Put("/{rfqId}/cancel", h.RFQ.CancelRFQ)
			r.Get("/{rfqId}/offers", h.RFQ.ListRFQOffers)
		})

		r.Route("/offers", func(r chi.Router) {
			statusRoutes(r, taxonomy.OfferKind)
			r.Get("/", h.Offer.ListOffers)
			r.Post("/", h.Offer.CreateOffer)
			r.Put("/{offerId}/accept", h.Offer.AcceptOffer)
			r.Put("/{offerId}/reject", h.Offer.RejectOffer)
			r.Post("/{offerId}/counter", h.Offer.CounterOffer)
		})

		r.Route("/orders", func(r chi.Router) {
			statusRoutes(r, taxonomy.OrderKind)
			r.Get("/", h.Order.ListOrders)
			r.Get("/{orderId}", h.Order.GetOrder)
			r.Put("/{orderId}/status", h.Order.UpdateOrderStatus)
			r.Put("/{orderId}/pay", h.Order.PayOrder)
			r.Post("/{orderId}/delivery", h.Order.SubmitDelivery)
			r.Get("/{orderId}/history", h.Order.OrderHistory)
		})

		r.Route("/payments", func(r chi.Router) {
			statusRoutes(r, taxonomy.PaymentKind)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.Document.ListDocuments)
			r.Post("/", h.Document.UploadDocument)
			r.Get("/{documentId}/file", h.Document.DownloadDocument)
			r.Delete("/{documentId}", h.Document.DeleteDocument)
		})
	})

	return r
}

// statusRoutes регистрирует словарь статусов с завершающим слэшем и без него.
func statusRoutes(r chi.Router, kind taxonomy.Kind) {
	r.Get("/statuses", handlers.Statuses(kind))
	r.Get("/statuses/", handlers.Statuses(kind))
}

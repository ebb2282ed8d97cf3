package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/shopspring/decimal"
)

// Число знаков после запятой, которое хранится для денег и объёмов.
const (
	PriceScale  = 2
	VolumeScale = 3
)

// ValidateRFQRequest проверяет запрос на создание RFQ относительно момента создания.
func ValidateRFQRequest(req models.RFQRequest, createdAt time.Time) error {
	switch {
	case strings.TrimSpace(req.BuyerID) == "":
		return invalid("buyerId", "is required")
	case strings.TrimSpace(req.Title) == "":
		return invalid("title", "is required")
	case strings.TrimSpace(req.Category) == "":
		return invalid("category", "is required")
	case !req.Volume.IsPositive():
		return invalid("volume", "must be greater than zero")
	case !fitsScale(req.Volume, VolumeScale):
		return invalid("volume", fmt.Sprintf("must have at most %d decimal places", VolumeScale))
	case strings.TrimSpace(req.Unit) == "":
		return invalid("unit", "is required")
	case strings.TrimSpace(req.DeliveryLocation) == "":
		return invalid("deliveryLocation", "is required")
	case req.PaymentMethod != models.BankPayment && req.PaymentMethod != models.CashPayment:
		return invalid("paymentMethod", "must be 'bank' or 'cash'")
	case req.Deadline.IsZero():
		return invalid("deadline", "is required")
	case req.Deadline.Before(createdAt):
		return invalid("deadline", "must not be before creation time")
	}
	return nil
}

// NewRFQ строит активный RFQ из проверенного запроса.
func NewRFQ(id string, req models.RFQRequest, createdAt time.Time) (*models.RFQ, error) {
	if err := ValidateRFQRequest(req, createdAt); err != nil {
		return nil, err
	}
	return &models.RFQ{
		ID:                  id,
		Title:               req.Title,
		Category:            req.Category,
		Subcategory:         req.Subcategory,
		Brand:               req.Brand,
		Grade:               req.Grade,
		Volume:              req.Volume,
		Unit:                req.Unit,
		DeliveryLocation:    req.DeliveryLocation,
		DeliveryDate:        req.DeliveryDate,
		PaymentMethod:       req.PaymentMethod,
		Message:             req.Message,
		SpecialRequirements: req.SpecialRequirements,
		Status:              models.ActiveRFQ,
		CreatedAt:           createdAt,
		Deadline:            req.Deadline,
		BuyerID:             req.BuyerID,
	}, nil
}

// NewOffer строит ожидающее предложение; итог вычисляется, если не задан.
func NewOffer(id string, req models.OfferRequest, rfq models.RFQ, createdAt time.Time) (models.Offer, error) {
	if strings.TrimSpace(req.SupplierID) == "" {
		return models.Offer{}, invalid("supplierId", "is required")
	}
	if err := validatePrice(req.UnitPrice); err != nil {
		return models.Offer{}, err
	}
	total := OfferTotal(req.UnitPrice, rfq.Volume)
	if req.TotalAmount != nil {
		if err := ReconcileTotal(req.UnitPrice, rfq.Volume, *req.TotalAmount); err != nil {
			return models.Offer{}, err
		}
	}
	return models.Offer{
		ID:            id,
		RFQID:         rfq.ID,
		SupplierID:    req.SupplierID,
		UnitPrice:     req.UnitPrice,
		TotalAmount:   total,
		DeliveryDate:  req.DeliveryDate,
		DeliveryTerms: req.DeliveryTerms,
		Message:       req.Message,
		Status:        models.PendingOffer,
		CreatedAt:     createdAt,
		ProposedBy:    models.Supplier,
		RFQTitle:      rfq.Title,
		Category:      rfq.Category,
	}, nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return invalid("unitPrice", "must be positive")
	}
	if !fitsScale(price, PriceScale) {
		return invalid("unitPrice", fmt.Sprintf("must have at most %d decimal places", PriceScale))
	}
	return nil
}

func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

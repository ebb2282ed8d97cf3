package models

import "github.com/shopspring/decimal"

// SellerStats содержит агрегаты для панели аналитики поставщика.
type SellerStats struct {
	SupplierID       string              `json:"supplierId"`
	OffersByStatus   map[OfferStatus]int `json:"offersByStatus"`
	OrdersByStatus   map[OrderStatus]int `json:"ordersByStatus"`
	TotalOffers      int                 `json:"totalOffers"`
	AcceptanceRate   float64             `json:"acceptanceRate"`
	CompletedRevenue decimal.Decimal     `json:"completedRevenue"`
	ActiveOrders     int                 `json:"activeOrders"`
}

// ComputeRates заполняет производные поля по счётчикам.
func (s *SellerStats) ComputeRates() {
	s.TotalOffers = 0
	for _, n := range s.OffersByStatus {
		s.TotalOffers += n
	}
	decided := s.OffersByStatus[AcceptedOffer] + s.OffersByStatus[RejectedOffer]
	if decided > 0 {
		s.AcceptanceRate = float64(s.OffersByStatus[AcceptedOffer]) / float64(decided)
	} else {
		s.AcceptanceRate = 0
	}
	s.ActiveOrders = 0
	for status, n := range s.OrdersByStatus {
		if !status.IsTerminal() {
			s.ActiveOrders += n
		}
	}
}

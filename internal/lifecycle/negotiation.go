package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
	"github.com/shopspring/decimal"
)

// Negotiation объединяет RFQ, его предложения и заказ, если он создан.
// Все методы сначала проверяют условия и только затем меняют состояние.
type Negotiation struct {
	RFQ    models.RFQ     `json:"rfq"`
	Offers []models.Offer `json:"offers"`
	Order  *models.Order  `json:"order,omitempty"`
}

// CounterTerms содержит условия встречного предложения.
type CounterTerms struct {
	UnitPrice     decimal.Decimal
	DeliveryDate  time.Time
	DeliveryTerms string
	Message       string
}

// Clone возвращает независимую копию переговоров.
func (n *Negotiation) Clone() Negotiation {
	c := Negotiation{RFQ: n.RFQ, Offers: slices.Clone(n.Offers)}
	if n.Order != nil {
		order := *n.Order
		c.Order = &order
	}
	return c
}

// Offer возвращает предложение по ID.
func (n *Negotiation) Offer(id string) (*models.Offer, error) {
	for i := range n.Offers {
		if n.Offers[i].ID == id {
			return &n.Offers[i], nil
		}
	}
	return nil, fmt.Errorf("offer %s: %w", id, ErrOfferNotFound)
}

// AcceptedOffer возвращает принятое предложение или nil.
func (n *Negotiation) AcceptedOffer() *models.Offer {
	for i := range n.Offers {
		if n.Offers[i].Status == models.AcceptedOffer {
			return &n.Offers[i]
		}
	}
	return nil
}

// AddOffer добавляет новое предложение поставщика к активному RFQ.
func (n *Negotiation) AddOffer(o models.Offer) error {
	if n.RFQ.Status != models.ActiveRFQ {
		return fmt.Errorf("rfq %s is %s: %w", n.RFQ.ID, n.RFQ.Status, ErrRFQNotActive)
	}
	if o.SupplierID == "" || o.SupplierID == n.RFQ.BuyerID {
		return fmt.Errorf("supplier %q cannot quote rfq %s: %w", o.SupplierID, n.RFQ.ID, ErrNotPermitted)
	}
	if o.Status != "" && o.Status != models.PendingOffer {
		return &TransitionError{Entity: "offer", ID: o.ID, From: "", To: string(o.Status)}
	}
	if err := validatePrice(o.UnitPrice); err != nil {
		return err
	}
	if err := ReconcileTotal(o.UnitPrice, n.RFQ.Volume, o.TotalAmount); err != nil {
		return err
	}
	o.Status = models.PendingOffer
	o.RFQID = n.RFQ.ID
	if o.ProposedBy == "" {
		o.ProposedBy = models.Supplier
	}
	n.Offers = append(n.Offers, o)
	return nil
}

// Accept принимает предложение и создаёт заказ. RFQ переходит в completed.
// Принять предложение может только сторона, которой оно адресовано:
// покупатель - предложение поставщика, поставщик - встречное предложение покупателя.
func (n *Negotiation) Accept(offerID string, party models.Party, orderID string, now time.Time) (*models.Order, error) {
	offer, err := n.Offer(offerID)
	if err != nil {
		return nil, err
	}
	if err := n.requireRespondent(offer, party); err != nil {
		return nil, err
	}
	if n.RFQ.Status != models.ActiveRFQ {
		return nil, fmt.Errorf("rfq %s is %s: %w", n.RFQ.ID, n.RFQ.Status, ErrRFQNotActive)
	}
	if accepted := n.AcceptedOffer(); accepted != nil {
		return nil, fmt.Errorf("offer %s already accepted: %w", accepted.ID, ErrAlreadyAccepted)
	}
	if !CanTransitionOffer(offer.Status, models.AcceptedOffer) {
		return nil, &TransitionError{Entity: "offer", ID: offer.ID, From: string(offer.Status), To: string(models.AcceptedOffer)}
	}
	if err := ReconcileTotal(offer.UnitPrice, n.RFQ.Volume, offer.TotalAmount); err != nil {
		return nil, err
	}

	offer.Status = models.AcceptedOffer
	n.RFQ.Status = models.CompletedRFQ
	n.Order = &models.Order{
		ID:            orderID,
		OfferID:       offer.ID,
		RFQID:         n.RFQ.ID,
		BuyerID:       n.RFQ.BuyerID,
		SupplierID:    offer.SupplierID,
		TotalAmount:   offer.TotalAmount,
		OrderDate:     now,
		DeliveryDate:  offer.DeliveryDate,
		PaymentStatus: models.PendingPayment,
		Status:        models.CreatedOrder,
		RFQTitle:      n.RFQ.Title,
		SupplierName:  offer.SupplierName,
		Category:      n.RFQ.Category,
	}
	return n.Order, nil
}

// Reject отклоняет ожидающее предложение от имени стороны, которой оно адресовано.
func (n *Negotiation) Reject(offerID string, party models.Party) error {
	offer, err := n.Offer(offerID)
	if err != nil {
		return err
	}
	if err := n.requireRespondent(offer, party); err != nil {
		return err
	}
	return TransitionOffer(offer, models.RejectedOffer)
}

// Counter заменяет ожидающее предложение новым с изменёнными условиями.
// Новое предложение ссылается на прежнее через SupersedesID.
func (n *Negotiation) Counter(offerID string, party models.Party, terms CounterTerms, newID string, now time.Time) (*models.Offer, error) {
	offer, err := n.Offer(offerID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(party, n.RFQ.BuyerID, offer.SupplierID) || party.Role == models.System {
		return nil, fmt.Errorf("%s %s cannot counter offer %s: %w", party.Role, party.ID, offer.ID, ErrNotPermitted)
	}
	if n.RFQ.Status != models.ActiveRFQ {
		return nil, fmt.Errorf("rfq %s is %s: %w", n.RFQ.ID, n.RFQ.Status, ErrRFQNotActive)
	}
	if !CanTransitionOffer(offer.Status, models.CounterOfferedOffer) {
		return nil, &TransitionError{Entity: "offer", ID: offer.ID, From: string(offer.Status), To: string(models.CounterOfferedOffer)}
	}
	if err := validatePrice(terms.UnitPrice); err != nil {
		return nil, err
	}

	next := models.Offer{
		ID:            newID,
		RFQID:         n.RFQ.ID,
		SupplierID:    offer.SupplierID,
		UnitPrice:     terms.UnitPrice,
		TotalAmount:   OfferTotal(terms.UnitPrice, n.RFQ.Volume),
		DeliveryDate:  offer.DeliveryDate,
		DeliveryTerms: offer.DeliveryTerms,
		Message:       terms.Message,
		Status:        models.PendingOffer,
		CreatedAt:     now,
		ProposedBy:    party.Role,
		RFQTitle:      n.RFQ.Title,
		SupplierName:  offer.SupplierName,
		Category:      n.RFQ.Category,
	}
	if !terms.DeliveryDate.IsZero() {
		next.DeliveryDate = terms.DeliveryDate
	}
	if terms.DeliveryTerms != "" {
		next.DeliveryTerms = terms.DeliveryTerms
	}
	prior := offer.ID
	next.SupersedesID = &prior

	offer.Status = models.CounterOfferedOffer
	n.Offers = append(n.Offers, next)
	return &n.Offers[len(n.Offers)-1], nil
}

// Cancel отменяет RFQ по решению покупателя.
func (n *Negotiation) Cancel(buyer models.Party) error {
	if err := n.requireOwner(buyer); err != nil {
		return err
	}
	return TransitionRFQ(&n.RFQ, models.CancelledRFQ)
}

// Expire переводит RFQ в expired, если срок прошёл и нет принятого предложения.
// Для RFQ в любом другом состоянии ничего не делает.
func (n *Negotiation) Expire(now time.Time) bool {
	if n.RFQ.Status != models.ActiveRFQ || !now.After(n.RFQ.Deadline) || n.AcceptedOffer() != nil {
		return false
	}
	n.RFQ.Status = models.ExpiredRFQ
	return true
}

func (n *Negotiation) requireOwner(buyer models.Party) error {
	if buyer.Role != models.Buyer || buyer.ID == "" || buyer.ID != n.RFQ.BuyerID {
		return fmt.Errorf("%s %s does not own rfq %s: %w", buyer.Role, buyer.ID, n.RFQ.ID, ErrNotPermitted)
	}
	return nil
}

// requireRespondent проверяет, что действует сторона, которой адресовано предложение.
func (n *Negotiation) requireRespondent(offer *models.Offer, party models.Party) error {
	if offer.ProposedBy != models.Buyer {
		return n.requireOwner(party)
	}
	if party.Role != models.Supplier || party.ID == "" || party.ID != offer.SupplierID {
		return fmt.Errorf("%s %s cannot answer the buyer's counter %s: %w", party.Role, party.ID, offer.ID, ErrNotPermitted)
	}
	return nil
}

// OfferTotal вычисляет итог предложения с точностью до копеек.
func OfferTotal(unitPrice, volume decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(volume).Round(PriceScale)
}

// ReconcileTotal проверяет, что итог равен цене за единицу, умноженной на объём,
// с округлением до копеек.
func ReconcileTotal(unitPrice, volume, total decimal.Decimal) error {
	if !OfferTotal(unitPrice, volume).Equal(total) {
		return fmt.Errorf("%s x %s != %s: %w", unitPrice, volume, total, ErrTotalMismatch)
	}
	return nil
}

package lifecycle

import (
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

type Action string // Действие, доступное участнику

const (
	CancelRFQAction   Action = "cancel_rfq"
	SubmitOfferAction Action = "submit_offer"
	AcceptOfferAction Action = "accept_offer"
	RejectOfferAction Action = "reject_offer"
	CounterAction     Action = "counter_offer"
)

// ActionSet перечисляет действия над RFQ и над каждым предложением.
type ActionSet struct {
	RFQ    []Action            `json:"rfq"`
	Offers map[string][]Action `json:"offers"`
}

// View - переговоры вместе с действиями, доступными запросившему участнику.
type View struct {
	Negotiation
	Actions ActionSet `json:"actions"`
}

// ViewFor строит представление переговоров для участника.
func (n *Negotiation) ViewFor(party models.Party) View {
	return View{Negotiation: *n, Actions: n.AllowedActions(party)}
}

// AllowedActions вычисляет действия участника в текущем состоянии переговоров.
func (n *Negotiation) AllowedActions(party models.Party) ActionSet {
	set := ActionSet{RFQ: []Action{}, Offers: make(map[string][]Action, len(n.Offers))}
	active := n.RFQ.Status == models.ActiveRFQ
	owner := party.Role == models.Buyer && party.ID != "" && party.ID == n.RFQ.BuyerID
	hasAccepted := n.AcceptedOffer() != nil

	if active && owner {
		set.RFQ = append(set.RFQ, CancelRFQAction)
	}
	if active && party.Role == models.Supplier && party.ID != "" && party.ID != n.RFQ.BuyerID {
		set.RFQ = append(set.RFQ, SubmitOfferAction)
	}

	for _, o := range n.Offers {
		actions := []Action{}
		pending := o.Status == models.PendingOffer
		supplier := party.Role == models.Supplier && party.ID != "" && party.ID == o.SupplierID
		respondent := owner
		if o.ProposedBy == models.Buyer {
			respondent = supplier
		}
		switch {
		case respondent && pending:
			if active && !hasAccepted {
				actions = append(actions, AcceptOfferAction)
			}
			actions = append(actions, RejectOfferAction)
			if active {
				actions = append(actions, CounterAction)
			}
		case (owner || supplier) && pending && active:
			actions = append(actions, CounterAction)
		}
		set.Offers[o.ID] = actions
	}
	return set
}

// OrderTargets возвращает статусы, в которые участник может перевести заказ.
func OrderTargets(o models.Order, party models.Party) []models.OrderStatus {
	targets := []models.OrderStatus{}
	candidates := []models.OrderStatus{}
	if next, ok := NextOrderStatus(o.Status); ok {
		candidates = append(candidates, next)
	}
	if !o.Status.IsTerminal() {
		candidates = append(candidates, models.CancelledOrder)
	}
	for _, to := range candidates {
		trial := o
		var err error
		if to == models.PaymentReceivedOrder {
			err = MarkPaid(&trial, party)
		} else {
			err = TransitionOrder(&trial, to, party)
		}
		if err == nil {
			targets = append(targets, to)
		}
	}
	return targets
}

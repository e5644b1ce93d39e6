package registration

import (
	"errors"
	"math"
)

// roundMoney rounds to two decimal places, half away from zero.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountInSubunits converts a currency amount to the gateway's integer
// subunits. Rounded, not truncated: 0.29 in float64 sits just under 29.
func AmountInSubunits(amount float64) int {
	return int(math.Round(amount * 100))
}

// ComputeLineItems resolves the priced components of a registration and
// the server-side total. The caller never dictates the ticket price:
// TICKET items always use the event's own price as the unit price, so a
// tampered request cannot underpay. DEPOSIT and ADDON items keep their
// requested unit price.
//
// An empty request yields a single ticket at the event price.
func ComputeLineItems(eventPrice float64, requested []LineItemRequest) ([]LineItem, float64, error) {
	if eventPrice < 0 {
		return nil, 0, errors.New("event price cannot be negative")
	}

	if len(requested) == 0 {
		requested = []LineItemRequest{{Kind: ItemTicket, Quantity: 1}}
	}

	items := make([]LineItem, 0, len(requested))
	var total float64
	ticketCount := 0

	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, 0, errors.New("line item quantity must be positive")
		}

		unitPrice := req.UnitPrice
		label := req.Label

		switch req.Kind {
		case ItemTicket:
			unitPrice = eventPrice
			if label == "" {
				label = "Ticket"
			}
			ticketCount += req.Quantity
		case ItemDeposit, ItemAddon:
			if unitPrice < 0 {
				return nil, 0, errors.New("line item unit price cannot be negative")
			}
		default:
			return nil, 0, errors.New("unknown line item kind: " + req.Kind)
		}

		amount := roundMoney(unitPrice * float64(req.Quantity))
		items = append(items, LineItem{
			Kind:      req.Kind,
			Label:     label,
			UnitPrice: unitPrice,
			Quantity:  req.Quantity,
			Amount:    amount,
		})
		total += amount
	}

	if ticketCount == 0 {
		return nil, 0, errors.New("registration requires at least one ticket")
	}

	return items, roundMoney(total), nil
}

// TicketQuantity sums the ticket line items; used for the capacity check.
func TicketQuantity(items []LineItem) int {
	n := 0
	for _, item := range items {
		if item.Kind == ItemTicket {
			n += item.Quantity
		}
	}
	return n
}

package registration

import (
	"testing"
)

func TestComputeLineItemsDefaultsToSingleTicket(t *testing.T) {
	items, total, err := ComputeLineItems(25.00, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Kind != ItemTicket || items[0].Quantity != 1 {
		t.Errorf("default item = %+v, want one ticket", items[0])
	}
	if total != 25.00 {
		t.Errorf("total = %.2f, want 25.00", total)
	}
}

func TestComputeLineItemsTicketPriceComesFromEvent(t *testing.T) {
	// A tampered request cannot set its own ticket price.
	items, total, err := ComputeLineItems(50.00, []LineItemRequest{
		{Kind: ItemTicket, UnitPrice: 0.01, Quantity: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if items[0].UnitPrice != 50.00 {
		t.Errorf("ticket unit price = %.2f, want 50.00", items[0].UnitPrice)
	}
	if total != 100.00 {
		t.Errorf("total = %.2f, want 100.00", total)
	}
}

func TestComputeLineItemsMixedItems(t *testing.T) {
	items, total, err := ComputeLineItems(20.00, []LineItemRequest{
		{Kind: ItemTicket, Quantity: 2},
		{Kind: ItemDeposit, Label: "Equipment deposit", UnitPrice: 15.00, Quantity: 1},
		{Kind: ItemAddon, Label: "T-shirt", UnitPrice: 12.50, Quantity: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	// 2*20 + 15 + 3*12.50 = 92.50
	if total != 92.50 {
		t.Errorf("total = %.2f, want 92.50", total)
	}
	if items[2].Amount != 37.50 {
		t.Errorf("addon amount = %.2f, want 37.50", items[2].Amount)
	}
}

func TestComputeLineItemsRounding(t *testing.T) {
	_, total, err := ComputeLineItems(0, []LineItemRequest{
		{Kind: ItemTicket, Quantity: 1},
		{Kind: ItemAddon, UnitPrice: 0.10, Quantity: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 0.30 {
		t.Errorf("total = %v, want 0.30", total)
	}
}

func TestComputeLineItemsFreeEvent(t *testing.T) {
	_, total, err := ComputeLineItems(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("total = %.2f, want 0", total)
	}
}

func TestComputeLineItemsErrors(t *testing.T) {
	tests := []struct {
		name       string
		eventPrice float64
		requested  []LineItemRequest
	}{
		{
			name:       "no ticket in request",
			eventPrice: 10,
			requested:  []LineItemRequest{{Kind: ItemAddon, UnitPrice: 5, Quantity: 1}},
		},
		{
			name:       "zero quantity",
			eventPrice: 10,
			requested:  []LineItemRequest{{Kind: ItemTicket, Quantity: 0}},
		},
		{
			name:       "negative addon price",
			eventPrice: 10,
			requested: []LineItemRequest{
				{Kind: ItemTicket, Quantity: 1},
				{Kind: ItemAddon, UnitPrice: -5, Quantity: 1},
			},
		},
		{
			name:       "unknown kind",
			eventPrice: 10,
			requested:  []LineItemRequest{{Kind: "VOUCHER", Quantity: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ComputeLineItems(tt.eventPrice, tt.requested); err == nil {
				t.Error("expected error, got none")
			}
		})
	}
}

func TestAmountInSubunits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int
	}{
		{0, 0},
		{25.00, 2500},
		{0.29, 29}, // 0.29*100 is 28.999... in float64; truncation would give 28
		{12.50, 1250},
		{92.50, 9250},
	}
	for _, tt := range tests {
		if got := AmountInSubunits(tt.amount); got != tt.want {
			t.Errorf("AmountInSubunits(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestTicketQuantity(t *testing.T) {
	items := []LineItem{
		{Kind: ItemTicket, Quantity: 2},
		{Kind: ItemAddon, Quantity: 5},
		{Kind: ItemTicket, Quantity: 1},
	}
	if got := TicketQuantity(items); got != 3 {
		t.Errorf("TicketQuantity = %d, want 3", got)
	}
}

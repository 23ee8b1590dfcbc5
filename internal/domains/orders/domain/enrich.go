package domain

import "github.com/telconova/portal/internal/shared/jsonval"

// ClientRef is the slice of a cached client the orders context needs.
type ClientRef struct {
	ID             jsonval.Value
	Name           string
	Identification string
	Phone          string
}

// ClientSummary is the denormalized client display data attached to an order.
type ClientSummary struct {
	Name           string `json:"name"`
	Identification string `json:"identification"`
	Phone          string `json:"phone"`
}

// EnrichedOrder is a work order plus, when the join hit, its client.
type EnrichedOrder struct {
	WorkOrder
	Client *ClientSummary `json:"client,omitempty"`
}

// Enrich looks the order's client up by identifier. A miss leaves Client nil.
func Enrich(order WorkOrder, clients []ClientRef) EnrichedOrder {
	enriched := EnrichedOrder{WorkOrder: order}
	for _, c := range clients {
		if c.ID.SameID(order.ClientID) {
			enriched.Client = &ClientSummary{Name: c.Name, Identification: c.Identification, Phone: c.Phone}
			break
		}
	}
	return enriched
}

func EnrichAll(orders []WorkOrder, clients []ClientRef) []EnrichedOrder {
	out := make([]EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, Enrich(o, clients))
	}
	return out
}

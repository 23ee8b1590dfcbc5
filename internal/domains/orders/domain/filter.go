package domain

import "strings"

// EmptyResultMessage is shown when a loaded listing has no matches.
const EmptyResultMessage = "No se encontraron órdenes de trabajo"

// Criteria is the filter state. Empty, "all" and "todos" selectors match
// anything.
type Criteria struct {
	Query    string `form:"q" json:"q,omitempty"`
	Status   string `form:"status" json:"status,omitempty"`
	Activity string `form:"activity" json:"activity,omitempty"`
	Priority string `form:"priority" json:"priority,omitempty"`
}

func isAny(selector string) bool {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "", "all", "todos":
		return true
	}
	return false
}

// Active reports whether at least one predicate restricts the result.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Query) != "" || !isAny(c.Status) || !isAny(c.Activity) || !isAny(c.Priority)
}

// Matches applies every active predicate to a single order.
func (c Criteria) Matches(o EnrichedOrder) bool {
	if !isAny(c.Status) && string(o.Status) != strings.TrimSpace(c.Status) {
		return false
	}
	if !isAny(c.Activity) && string(o.Activity) != strings.TrimSpace(c.Activity) {
		return false
	}
	if !isAny(c.Priority) && string(o.Priority) != strings.TrimSpace(c.Priority) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		return matchesText(o, q)
	}
	return true
}

func matchesText(o EnrichedOrder, q string) bool {
	fields := []string{o.OrderNumber.String(), o.ClientName.String(), o.Description}
	if o.Client != nil {
		fields = append(fields, o.Client.Name)
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply keeps the orders satisfying all active predicates, in input order.
// With no active predicate the input slice is returned as is.
func (c Criteria) Apply(orders []EnrichedOrder) []EnrichedOrder {
	if !c.Active() {
		return orders
	}
	out := make([]EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		if c.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// ListingState separates "nothing matched" from "nothing loaded".
type ListingState string

const (
	ListingReady    ListingState = "ready"
	ListingEmpty    ListingState = "empty"
	ListingUnloaded ListingState = "unloaded"
)

// Listing is the result of a filtered query.
type Listing struct {
	Orders  []EnrichedOrder `json:"orders"`
	State   ListingState    `json:"state"`
	Message string          `json:"message,omitempty"`
}

// NewListing filters orders and classifies the result.
func NewListing(orders []EnrichedOrder, c Criteria) Listing {
	filtered := c.Apply(orders)
	if len(filtered) == 0 {
		return Listing{Orders: []EnrichedOrder{}, State: ListingEmpty, Message: EmptyResultMessage}
	}
	return Listing{Orders: filtered, State: ListingReady}
}

// UnloadedListing is returned when there is nothing to filter yet.
func UnloadedListing() Listing {
	return Listing{Orders: []EnrichedOrder{}, State: ListingUnloaded}
}

package domain

import (
	"fmt"
	"strings"

	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/validation"
)

const (
	FoundMessage    = "Cliente encontrado"
	NotFoundMessage = "Cliente no encontrado. Puede crear uno nuevo."
)

// SearchResult is either the matching client or a draft form seeded with the
// search terms.
type SearchResult struct {
	Found   bool                  `json:"found"`
	Client  *Client               `json:"client,omitempty"`
	Draft   validation.ClientForm `json:"draft"`
	Message string                `json:"message"`
}

// Search returns the first client whose name contains name
// (case-insensitive) or whose identification contains identification. Blank
// terms are ignored; with both blank nothing matches and no message is set.
func Search(clients []Client, name, identification string) SearchResult {
	name = strings.TrimSpace(name)
	identification = strings.TrimSpace(identification)
	if name == "" && identification == "" {
		return SearchResult{}
	}
	needle := strings.ToLower(name)
	for i := range clients {
		c := clients[i]
		if (needle != "" && strings.Contains(strings.ToLower(c.Name), needle)) ||
			(identification != "" && strings.Contains(c.Identification, identification)) {
			return SearchResult{Found: true, Client: &c, Draft: c.Form(), Message: FoundMessage}
		}
	}
	return SearchResult{
		Draft:   validation.ClientForm{Name: name, Identification: identification},
		Message: NotFoundMessage,
	}
}

// Option is a selectable client on the work-order form.
type Option struct {
	Value jsonval.Value `json:"value"`
	Label string        `json:"label"`
}

// Options labels clients as "name - identification", in cache order.
func Options(clients []Client) []Option {
	out := make([]Option, 0, len(clients))
	for _, c := range clients {
		out = append(out, Option{Value: c.ID, Label: fmt.Sprintf("%s - %s", c.Name, c.Identification)})
	}
	return out
}

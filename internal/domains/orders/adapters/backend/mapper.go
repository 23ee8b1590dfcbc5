// Package backend adapts the TelcoNova REST backend to the orders context:
// it decodes backend order payloads into work orders and implements the
// gateway port on top of the HTTP client.
package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/shared/jsonval"
)

// Variant selects which of the two backend order shapes is being decoded.
type Variant int

const (
	// VariantSummary is the single-order shape. Its descripcion field is
	// never read and the activity comes from tipoServicio.
	VariantSummary Variant = iota
	// VariantListing is the shape returned inside the listing envelope.
	VariantListing
)

func (v Variant) String() string {
	if v == VariantListing {
		return "listing"
	}
	return "summary"
}

// DecodeError reports a payload that does not have the shape of an order.
type DecodeError struct {
	Index  int
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	prefix := "decode order"
	if e.Index >= 0 {
		prefix = fmt.Sprintf("decode order[%d]", e.Index)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", prefix, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", prefix, e.Field, e.Reason)
}

// backendOrder lists the fields the backend may send. Absent fields stay
// null values.
type backendOrder struct {
	IDOrden            jsonval.Value `json:"idOrden"`
	NroOrden           jsonval.Value `json:"nroOrden"`
	IDCliente          jsonval.Value `json:"idCliente"`
	Cliente            jsonval.Value `json:"cliente"`
	TipoServicio       jsonval.Value `json:"tipoServicio"`
	NombreTipoServicio jsonval.Value `json:"nombreTipoServicio"`
	Prioridad          jsonval.Value `json:"prioridad"`
	Estado             jsonval.Value `json:"estado"`
	Descripcion        jsonval.Value `json:"descripcion"`
	ResponsableID      jsonval.Value `json:"responsableId"`
	CreadaEn           jsonval.Value `json:"creadaEn"`
	// ActualizadaEn is accepted and dropped; both timestamps come from creadaEn.
	ActualizadaEn jsonval.Value `json:"actualizadaEn"`
}

// DecodeOrder maps one backend order to a work order.
func DecodeOrder(raw json.RawMessage, variant Variant) (domain.WorkOrder, error) {
	return decodeAt(raw, variant, -1)
}

func decodeAt(raw json.RawMessage, variant Variant, index int) (domain.WorkOrder, error) {
	if kind := jsonval.FromRaw(raw).Kind(); kind != jsonval.KindObject {
		return domain.WorkOrder{}, &DecodeError{Index: index, Reason: "expected object, got " + kind.String()}
	}
	var src backendOrder
	if err := json.Unmarshal(raw, &src); err != nil {
		return domain.WorkOrder{}, &DecodeError{Index: index, Reason: err.Error()}
	}
	identifiers := []struct {
		field string
		value jsonval.Value
	}{
		{"idOrden", src.IDOrden},
		{"nroOrden", src.NroOrden},
		{"idCliente", src.IDCliente},
		{"responsableId", src.ResponsableID},
	}
	for _, id := range identifiers {
		if !id.value.IsNull() && !id.value.IsScalar() {
			return domain.WorkOrder{}, &DecodeError{Index: index, Field: id.field, Reason: "expected scalar, got " + id.value.Kind().String()}
		}
	}
	if !src.CreadaEn.IsNull() && src.CreadaEn.Kind() != jsonval.KindString {
		return domain.WorkOrder{}, &DecodeError{Index: index, Field: "creadaEn", Reason: "expected string, got " + src.CreadaEn.Kind().String()}
	}

	order := domain.WorkOrder{
		ID:                src.IDOrden,
		OrderNumber:       src.NroOrden,
		ClientID:          src.IDCliente,
		ClientName:        src.Cliente,
		Priority:          domain.NormalizePriority(src.Prioridad),
		Status:            domain.NormalizeStatus(src.Estado),
		ResponsibleUserID: src.ResponsableID,
		CreatedAt:         src.CreadaEn,
		UpdatedAt:         src.CreadaEn,
	}
	switch variant {
	case VariantListing:
		activity := src.NombreTipoServicio
		if activity.IsNull() {
			activity = src.TipoServicio
		}
		order.Activity = domain.NormalizeActivity(activity)
		if text, ok := src.Descripcion.AsString(); ok {
			order.Description = text
		}
	default:
		order.Activity = domain.NormalizeActivity(src.TipoServicio)
	}
	return order, nil
}

// DecodeListing decodes the {"content":[...]} envelope, or a bare array.
// Items that fail to decode are skipped and reported; only an unreadable
// envelope is an error.
func DecodeListing(body []byte) ([]domain.WorkOrder, []error, error) {
	items, err := listingItems(body)
	if err != nil {
		return nil, nil, err
	}
	orders := make([]domain.WorkOrder, 0, len(items))
	var itemErrs []error
	for i, item := range items {
		order, err := decodeAt(item, VariantListing, i)
		if err != nil {
			itemErrs = append(itemErrs, err)
			continue
		}
		orders = append(orders, order)
	}
	return orders, itemErrs, nil
}

func listingItems(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &DecodeError{Index: -1, Reason: err.Error()}
		}
		return items, nil
	}
	var envelope struct {
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &DecodeError{Index: -1, Field: "content", Reason: err.Error()}
	}
	return envelope.Content, nil
}

// Package domain holds the work-order view model, the value normalizers, the
// client enrichment join and the filter engine. Everything here is pure.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/validation"
)

var (
	ErrUnknownActivity = errors.New("unknown activity")
	ErrUnknownPriority = errors.New("unknown priority")
	ErrUnknownStatus   = errors.New("unknown status")
)

// WorkOrder is the normalized view of a backend order. Identifier-like
// fields and timestamps keep the JSON type the backend used.
type WorkOrder struct {
	ID                jsonval.Value `json:"id"`
	OrderNumber       jsonval.Value `json:"orderNumber"`
	ClientID          jsonval.Value `json:"clientId"`
	ClientName        jsonval.Value `json:"clientName"`
	Activity          Activity      `json:"activity"`
	Priority          Priority      `json:"priority"`
	Status            Status        `json:"status"`
	Description       string        `json:"description"`
	ResponsibleUserID jsonval.Value `json:"responsibleUserId"`
	CreatedAt         jsonval.Value `json:"createdAt"`
	UpdatedAt         jsonval.Value `json:"updatedAt"`
}

// Timestamp renders t the way cached orders store their dates.
func Timestamp(t time.Time) jsonval.Value {
	return jsonval.Text(t.UTC().Format(time.RFC3339Nano))
}

// OrderForm is the input for creating a work order. Activity and priority
// must be display values.
type OrderForm struct {
	ClientID    jsonval.Value `json:"clientId" binding:"notblank"`
	Activity    Activity      `json:"activity" binding:"notblank,oneof=Instalación Reparación Mantenimiento"`
	Priority    Priority      `json:"priority" binding:"notblank,oneof=Alta Media Baja"`
	Description string        `json:"description" binding:"notblank"`
}

func (f OrderForm) Validate() validation.FieldErrors { return validation.Check(f) }

// OrderEdit carries the editable fields of an existing order.
type OrderEdit struct {
	Status      Status   `json:"status"`
	Activity    Activity `json:"activity"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
}

func (e OrderEdit) Validate() error {
	var errs []error
	if !e.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStatus, e.Status))
	}
	if !e.Activity.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownActivity, e.Activity))
	}
	if !e.Priority.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownPriority, e.Priority))
	}
	return errors.Join(errs...)
}

// Apply returns a copy of o with the edit applied and UpdatedAt set to now.
func (e OrderEdit) Apply(o WorkOrder, now time.Time) WorkOrder {
	o.Status = e.Status
	o.Activity = e.Activity
	o.Priority = e.Priority
	o.Description = e.Description
	o.UpdatedAt = Timestamp(now)
	return o
}

// NextOrderNumber numbers a new order after the existing count, zero-padded
// to three digits.
func NextOrderNumber(existing int) string {
	return fmt.Sprintf("%03d", existing+1)
}

// FindByID returns the position of the order whose identifier renders as id.
func FindByID(orders []WorkOrder, id string) (int, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, false
	}
	for i, o := range orders {
		if o.ID.IsScalar() && o.ID.String() == id {
			return i, true
		}
	}
	return -1, false
}

package backend

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/shared/jsonval"
)

func TestDecodeOrder_WorkedExample(t *testing.T) {
	raw := json.RawMessage(`{"idOrden":1,"estado":"ACTIVA","prioridad":"ALTA","tipoServicio":"INSTALACION","creadaEn":"2024-01-01T00:00:00Z"}`)

	got, err := DecodeOrder(raw, VariantSummary)
	require.NoError(t, err)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": 1,
		"orderNumber": null,
		"clientId": null,
		"clientName": null,
		"activity": "Instalación",
		"priority": "Alta",
		"status": "Abierta",
		"description": "",
		"responsibleUserId": null,
		"createdAt": "2024-01-01T00:00:00Z",
		"updatedAt": "2024-01-01T00:00:00Z"
	}`, string(out))
}

func TestDecodeOrder_FullPayloadPassesIdentifiersThrough(t *testing.T) {
	raw := json.RawMessage(`{
		"idOrden": 123,
		"nroOrden": "ORD-2024-001",
		"idCliente": "456",
		"cliente": "Juan Pérez",
		"tipoServicio": "REPARACION",
		"prioridad": "MEDIA",
		"estado": "EN_PROCESO",
		"descripcion": "Cambio de módem",
		"creadaEn": "2024-09-25T10:30:00Z",
		"actualizadaEn": "2024-09-26T14:45:00Z"
	}`)

	got, err := DecodeOrder(raw, VariantSummary)
	require.NoError(t, err)

	want := domain.WorkOrder{
		ID:          jsonval.Number(123),
		OrderNumber: jsonval.Text("ORD-2024-001"),
		ClientID:    jsonval.Text("456"),
		ClientName:  jsonval.Text("Juan Pérez"),
		Activity:    domain.ActivityRepair,
		Priority:    domain.PriorityMedium,
		Status:      domain.StatusInProgress,
		Description: "",
		CreatedAt:   jsonval.Text("2024-09-25T10:30:00Z"),
		UpdatedAt:   jsonval.Text("2024-09-25T10:30:00Z"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DecodeOrder mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, jsonval.KindString, got.ClientID.Kind(), "numeric-looking strings stay strings")
}

func TestDecodeOrder_UpdatedAtAlwaysEqualsCreatedAt(t *testing.T) {
	payloads := []string{
		`{"creadaEn":"2024-01-01T00:00:00Z","actualizadaEn":"2030-01-01T00:00:00Z"}`,
		`{"creadaEn":"2024-01-01T00:00:00Z"}`,
		`{"actualizadaEn":"2030-01-01T00:00:00Z"}`,
		`{}`,
	}
	for _, variant := range []Variant{VariantSummary, VariantListing} {
		for _, p := range payloads {
			got, err := DecodeOrder(json.RawMessage(p), variant)
			require.NoError(t, err, p)
			require.True(t, got.CreatedAt.Equal(got.UpdatedAt), "%s (%s)", p, variant)
		}
	}
}

func TestDecodeOrder_MissingFieldsAreNullNotSynthesized(t *testing.T) {
	got, err := DecodeOrder(json.RawMessage(`{}`), VariantSummary)
	require.NoError(t, err)
	require.True(t, got.ID.IsNull())
	require.True(t, got.OrderNumber.IsNull())
	require.True(t, got.ClientName.IsNull())
	require.True(t, got.CreatedAt.IsNull())
	require.Equal(t, domain.DefaultStatus, got.Status)
	require.Equal(t, domain.DefaultPriority, got.Priority)
	require.Equal(t, domain.DefaultActivity, got.Activity)
	require.Equal(t, "", got.Description)
}

func TestDecodeOrder_VariantsDifferOnDescriptionAndActivity(t *testing.T) {
	raw := json.RawMessage(`{"descripcion":"Fibra óptica","tipoServicio":"REPARACION","nombreTipoServicio":"INSTALACION"}`)

	summary, err := DecodeOrder(raw, VariantSummary)
	require.NoError(t, err)
	require.Equal(t, "", summary.Description)
	require.Equal(t, domain.ActivityRepair, summary.Activity)

	listing, err := DecodeOrder(raw, VariantListing)
	require.NoError(t, err)
	require.Equal(t, "Fibra óptica", listing.Description)
	require.Equal(t, domain.ActivityInstallation, listing.Activity)

	fallback, err := DecodeOrder(json.RawMessage(`{"tipoServicio":"REPARACION","descripcion":7}`), VariantListing)
	require.NoError(t, err)
	require.Equal(t, domain.ActivityRepair, fallback.Activity)
	require.Equal(t, "", fallback.Description)
}

func TestDecodeOrder_RejectsWrongShapes(t *testing.T) {
	cases := map[string]string{
		`[]`:                        "",
		`"order"`:                   "",
		`null`:                      "",
		`{"idOrden":{"value":1}}`:   "idOrden",
		`{"idCliente":[1]}`:         "idCliente",
		`{"creadaEn":1704067200}`:   "creadaEn",
		`{"nroOrden":{"n":"OT1"}}`:  "nroOrden",
	}
	for raw, field := range cases {
		_, err := DecodeOrder(json.RawMessage(raw), VariantListing)
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr, raw)
		require.Equal(t, field, decodeErr.Field, raw)
	}
}

func TestDecodeListing_SkipsBadItems(t *testing.T) {
	body := []byte(`{"content":[
		{"idOrden":1,"nroOrden":"OT001","estado":"ACTIVA","creadaEn":"2024-01-01T00:00:00Z"},
		"garbage",
		{"idOrden":3,"nroOrden":"OT003","estado":"CERRADA"}
	]}`)

	orders, itemErrs, err := DecodeListing(body)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Len(t, itemErrs, 1)
	require.Contains(t, itemErrs[0].Error(), "order[1]")
	require.Equal(t, "OT001", orders[0].OrderNumber.String())
	require.Equal(t, domain.StatusOpen, orders[0].Status)
	require.Equal(t, domain.StatusClosed, orders[1].Status)
}

func TestDecodeListing_AcceptsBareArrayAndEmptyEnvelope(t *testing.T) {
	orders, _, err := DecodeListing([]byte(`[{"idOrden":"a"}]`))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	orders, itemErrs, err := DecodeListing([]byte(`{"content":null}`))
	require.NoError(t, err)
	require.Empty(t, orders)
	require.Empty(t, itemErrs)

	_, _, err = DecodeListing([]byte(`{"content":"nope"}`))
	require.Error(t, err)
}

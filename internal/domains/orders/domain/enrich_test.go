package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telconova/portal/internal/shared/jsonval"
)

func TestEnrich_MatchesByIdentifier(t *testing.T) {
	clients := []ClientRef{
		{ID: jsonval.Text("1"), Name: "Ana", Identification: "123456", Phone: "3001234567"},
		{ID: jsonval.Text("2"), Name: "Luis", Identification: "654321", Phone: "3109876543"},
	}
	got := Enrich(WorkOrder{ClientID: jsonval.Number(2)}, clients)
	require.NotNil(t, got.Client)
	require.Equal(t, ClientSummary{Name: "Luis", Identification: "654321", Phone: "3109876543"}, *got.Client)
}

func TestEnrich_MissLeavesClientAbsent(t *testing.T) {
	clients := []ClientRef{{ID: jsonval.Text("1"), Name: "Ana"}}
	require.Nil(t, Enrich(WorkOrder{ClientID: jsonval.Text("99")}, clients).Client)
	require.Nil(t, Enrich(WorkOrder{}, clients).Client)
	require.Nil(t, Enrich(WorkOrder{ClientID: jsonval.Text("1")}, nil).Client)
}

func TestEnrichAll_KeepsOrderAndLength(t *testing.T) {
	orders := []WorkOrder{{ID: jsonval.Number(2), ClientID: jsonval.Text("x")}, {ID: jsonval.Number(1), ClientID: jsonval.Text("a")}}
	clients := []ClientRef{{ID: jsonval.Text("a"), Name: "Ana"}}
	got := EnrichAll(orders, clients)
	require.Len(t, got, 2)
	require.Nil(t, got[0].Client)
	require.Equal(t, "Ana", got[1].Client.Name)
	require.Equal(t, "2", got[0].ID.String())
}

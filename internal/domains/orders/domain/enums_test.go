package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telconova/portal/internal/shared/jsonval"
)

func TestNormalizers_KnownTokens(t *testing.T) {
	require.Equal(t, StatusOpen, NormalizeStatus(jsonval.Text("ACTIVA")))
	require.Equal(t, StatusInProgress, NormalizeStatus(jsonval.Text("EN_PROCESO")))
	require.Equal(t, PriorityHigh, NormalizePriority(jsonval.Text("ALTA")))
	require.Equal(t, PriorityMedium, NormalizePriority(jsonval.Text("MEDIA")))
	require.Equal(t, ActivityInstallation, NormalizeActivity(jsonval.Text("INSTALACION")))
	require.Equal(t, ActivityRepair, NormalizeActivity(jsonval.Text("REPARACION")))
}

func TestNormalizers_UnknownFallsBackToDefaults(t *testing.T) {
	unknown := []jsonval.Value{
		{},
		jsonval.Text(""),
		jsonval.Text("activa"),
		jsonval.Text("ACTIVA "),
		jsonval.Text("CERRADA"),
		jsonval.Text("BAJA"),
		jsonval.Text("INSTALACIÓN"),
		jsonval.Text("MANTENIMIENTO"),
		jsonval.Number(1),
		jsonval.FromRaw(json.RawMessage(`{"codigo":"ALTA"}`)),
		jsonval.FromRaw(json.RawMessage(`["ACTIVA"]`)),
		jsonval.FromRaw(json.RawMessage(`true`)),
	}
	for _, raw := range unknown {
		require.Equal(t, DefaultStatus, NormalizeStatus(raw), raw.String())
		require.Equal(t, DefaultPriority, NormalizePriority(raw), raw.String())
		require.Equal(t, DefaultActivity, NormalizeActivity(raw), raw.String())
	}
}

func TestDefaultsAreNamedBusinessRules(t *testing.T) {
	require.Equal(t, StatusClosed, DefaultStatus)
	require.Equal(t, PriorityLow, DefaultPriority)
	require.Equal(t, ActivityMaintenance, DefaultActivity)
}

func TestValid(t *testing.T) {
	require.True(t, Activity("Reparación").Valid())
	require.False(t, Activity("Reparacion").Valid())
	require.True(t, Priority("Media").Valid())
	require.False(t, Priority("").Valid())
	require.True(t, Status("En progreso").Valid())
	require.False(t, Status("EN_PROCESO").Valid())
}

//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "telconova-portal-api"
	ConsumerName = "telconova-web"

	StateOrdersCached  = "work orders and clients are cached for the pact session"
	StateOrderMissing  = "no cached work order with id 404"
	StateClientsCached = "clients are cached for the pact session"
)

const (
	SessionID = "pact-session"

	ExistingOrderID        = "101"
	ExistingOrderNumber    = "001"
	MissingOrderID         = "404"
	ExistingClientID       = "c-7"
	ExistingClientName     = "Ana Pérez"
	ExistingIdentification = "1234567"
	ExistingClientPhone    = "+57 300 123 4567"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCachedOrders is the work-order cache the provider seeds.
func ExampleCachedOrders() []map[string]any {
	return []map[string]any{{
		"id":                ExistingOrderID,
		"orderNumber":       ExistingOrderNumber,
		"clientId":          ExistingClientID,
		"clientName":        ExistingClientName,
		"activity":          "Instalación",
		"priority":          "Alta",
		"status":            "Abierta",
		"description":       "Instalación de fibra óptica",
		"responsibleUserId": 3,
		"createdAt":         "2024-06-12T10:00:00Z",
		"updatedAt":         "2024-06-12T10:00:00Z",
	}}
}

// ExampleCachedClients is the client cache the provider seeds.
func ExampleCachedClients() []map[string]any {
	return []map[string]any{{
		"id":             ExistingClientID,
		"name":           ExistingClientName,
		"identification": ExistingIdentification,
		"phone":          ExistingClientPhone,
		"address":        "Calle 10 # 20-30",
	}}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

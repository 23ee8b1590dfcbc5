package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	authdomain "github.com/telconova/portal/internal/domains/auth/domain"
	authports "github.com/telconova/portal/internal/domains/auth/ports"
	clientsdomain "github.com/telconova/portal/internal/domains/clients/domain"
	clientsports "github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/domains/orders/domain"
	ordersports "github.com/telconova/portal/internal/domains/orders/ports"
	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

type fakeAuth struct {
	authports.Service
	token     string
	loginForm validation.LoginForm
	loggedOut bool
}

func (f *fakeAuth) Resolve(_ context.Context, id string) (session.Session, error) {
	return session.Session{ID: id, Token: f.token}, nil
}

func (f *fakeAuth) Login(_ context.Context, id string, form validation.LoginForm) (authports.LoginResult, error) {
	f.loginForm = form
	f.token = "tok"
	return authports.LoginResult{Session: session.Session{ID: id, Token: "tok"}, User: &authdomain.User{Name: "Ana", Email: form.Email}}, nil
}

func (f *fakeAuth) Logout(context.Context, session.Session) error {
	f.loggedOut = true
	f.token = ""
	return nil
}

func (f *fakeAuth) CurrentUser(context.Context, session.Session) (authdomain.User, error) {
	return authdomain.User{Name: "Ana", Email: "ana@telconova.co", Role: "admin"}, nil
}

type fakeOrders struct {
	ordersports.Service
	listing  domain.Listing
	criteria domain.Criteria
	synced   bool
}

func (f *fakeOrders) Sync(context.Context, session.Session) ([]domain.WorkOrder, error) {
	f.synced = true
	return []domain.WorkOrder{{ID: jsonval.Number(1)}, {ID: jsonval.Number(2)}}, nil
}

func (f *fakeOrders) List(_ context.Context, _ session.Session, c domain.Criteria) (domain.Listing, error) {
	f.criteria = c
	return f.listing, nil
}

func (f *fakeOrders) Get(_ context.Context, _ session.Session, id string) (domain.EnrichedOrder, error) {
	if id != "7" {
		return domain.EnrichedOrder{}, ordersports.ErrNotFound
	}
	return domain.EnrichedOrder{WorkOrder: domain.WorkOrder{ID: jsonval.Number(7), OrderNumber: jsonval.Text("007")}}, nil
}

func (f *fakeOrders) NextOrderNumber(context.Context, session.Session) (string, error) {
	return "004", nil
}

type fakeClients struct {
	clientsports.Service
}

func (fakeClients) Search(_ context.Context, _ session.Session, name, _ string) (clientsdomain.SearchResult, error) {
	if name == "Ana" {
		return clientsdomain.SearchResult{Found: true, Message: clientsdomain.FoundMessage, Client: &clientsdomain.Client{ID: jsonval.Text("c-1"), Name: "Ana", Identification: "123456"}}, nil
	}
	return clientsdomain.SearchResult{Message: clientsdomain.NotFoundMessage}, nil
}

func run(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()
	opener := func(context.Context, Options, io.Writer) (*Env, func(), error) {
		return env, func() {}, nil
	}
	root := NewRootCommand(opener)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogin_UsesLocalNamespaceAndFlags(t *testing.T) {
	auth := &fakeAuth{}
	out, err := run(t, &Env{Auth: auth}, "login", "--email", "ana@telconova.co", "--password", "secreto123")
	require.NoError(t, err)
	require.Equal(t, "ana@telconova.co", auth.loginForm.Email)
	require.Equal(t, "secreto123", auth.loginForm.Password)
	require.Contains(t, out, "Ana <ana@telconova.co>")
}

func TestLogin_ReadsPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "desdeenv1")
	auth := &fakeAuth{}
	_, err := run(t, &Env{Auth: auth}, "login", "--email", "ana@telconova.co")
	require.NoError(t, err)
	require.Equal(t, "desdeenv1", auth.loginForm.Password)
}

func TestWhoami_RequiresLogin(t *testing.T) {
	_, err := run(t, &Env{Auth: &fakeAuth{}}, "whoami")
	require.ErrorContains(t, err, "not logged in")

	out, err := run(t, &Env{Auth: &fakeAuth{token: "tok"}}, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "rol: admin")
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{token: "tok"}
	_, err := run(t, &Env{Auth: auth}, "logout")
	require.NoError(t, err)
	require.True(t, auth.loggedOut)
}

func TestOrdersSync_RequiresLogin(t *testing.T) {
	orders := &fakeOrders{}
	_, err := run(t, &Env{Auth: &fakeAuth{}, Orders: orders}, "orders", "sync")
	require.Error(t, err)
	require.False(t, orders.synced)

	out, err := run(t, &Env{Auth: &fakeAuth{token: "tok"}, Orders: orders}, "orders", "sync")
	require.NoError(t, err)
	require.True(t, orders.synced)
	require.Contains(t, out, "2 órdenes sincronizadas")
}

func TestOrdersList_PassesFiltersAndPrintsTable(t *testing.T) {
	orders := &fakeOrders{listing: domain.Listing{
		State: domain.ListingReady,
		Orders: []domain.EnrichedOrder{{
			WorkOrder: domain.WorkOrder{OrderNumber: jsonval.Text("001"), ClientName: jsonval.Text("Backend"), Activity: domain.ActivityInstallation, Priority: domain.PriorityHigh, Status: domain.StatusOpen},
			Client:    &domain.ClientSummary{Name: "Ana"},
		}},
	}}
	out, err := run(t, &Env{Auth: &fakeAuth{}, Orders: orders}, "orders", "list", "-q", "fibra", "--status", "Abierta")
	require.NoError(t, err)
	require.Equal(t, domain.Criteria{Query: "fibra", Status: "Abierta"}, orders.criteria)
	require.Contains(t, out, "NRO")
	require.Contains(t, out, "001")
	require.Contains(t, out, "Ana")
	require.NotContains(t, out, "Backend")
}

func TestOrdersList_States(t *testing.T) {
	orders := &fakeOrders{listing: domain.Listing{State: domain.ListingUnloaded}}
	out, err := run(t, &Env{Auth: &fakeAuth{}, Orders: orders}, "orders", "list")
	require.NoError(t, err)
	require.Contains(t, out, "orders sync")

	orders.listing = domain.Listing{State: domain.ListingEmpty, Message: domain.EmptyResultMessage}
	out, err = run(t, &Env{Auth: &fakeAuth{}, Orders: orders}, "orders", "list")
	require.NoError(t, err)
	require.Contains(t, out, domain.EmptyResultMessage)
}

func TestOrdersShow(t *testing.T) {
	env := &Env{Auth: &fakeAuth{}, Orders: &fakeOrders{}}
	out, err := run(t, env, "orders", "show", "7")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, "007", decoded["orderNumber"])

	_, err = run(t, env, "orders", "show", "8")
	require.ErrorIs(t, err, ordersports.ErrNotFound)
}

func TestOrdersNextNumber(t *testing.T) {
	out, err := run(t, &Env{Auth: &fakeAuth{}, Orders: &fakeOrders{}}, "orders", "next-number")
	require.NoError(t, err)
	require.Equal(t, "004\n", out)
}

func TestClientsSearch(t *testing.T) {
	env := &Env{Auth: &fakeAuth{}, Clients: fakeClients{}}
	out, err := run(t, env, "clients", "search", "--name", "Ana")
	require.NoError(t, err)
	require.Contains(t, out, clientsdomain.FoundMessage)
	require.Contains(t, out, "123456")

	out, err = run(t, env, "clients", "search", "--identification", "999999")
	require.NoError(t, err)
	require.Contains(t, out, clientsdomain.NotFoundMessage)

	_, err = run(t, env, "clients", "search")
	require.Error(t, err)
}

func TestDefaultCachePath(t *testing.T) {
	t.Setenv("HOME", "/home/tecnico")
	require.Equal(t, filepath.Join("/home/tecnico", ".telconova", "cache.db"), DefaultCachePath())
}

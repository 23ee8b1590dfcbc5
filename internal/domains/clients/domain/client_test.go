package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telconova/portal/internal/shared/jsonval"
	"github.com/telconova/portal/internal/shared/validation"
)

func cached() []Client {
	return []Client{
		{ID: jsonval.Text("1"), Name: "Ana Gómez", Identification: "1020304050", Phone: "3001112233"},
		{ID: jsonval.Number(2), Name: "Luis Pérez", Identification: "998877", Phone: "3014445566"},
	}
}

func TestSearch_ByEitherTerm(t *testing.T) {
	res := Search(cached(), "luis", "")
	require.True(t, res.Found)
	require.Equal(t, "998877", res.Client.Identification)
	require.Equal(t, FoundMessage, res.Message)
	require.Equal(t, "Luis Pérez", res.Draft.Name)

	res = Search(cached(), "", "10203")
	require.True(t, res.Found)
	require.Equal(t, "Ana Gómez", res.Client.Name)
}

func TestSearch_BlankTermDoesNotMatchEverything(t *testing.T) {
	res := Search(cached(), "", "")
	require.False(t, res.Found)
	require.Empty(t, res.Message)

	res = Search(cached(), "Marta", "")
	require.False(t, res.Found, "an empty identification must not match every client")
	require.Equal(t, NotFoundMessage, res.Message)
	require.Equal(t, validation.ClientForm{Name: "Marta"}, res.Draft)
}

func TestOptions_LabelsInCacheOrder(t *testing.T) {
	opts := Options(cached())
	require.Equal(t, []Option{
		{Value: jsonval.Text("1"), Label: "Ana Gómez - 1020304050"},
		{Value: jsonval.Number(2), Label: "Luis Pérez - 998877"},
	}, opts)
	require.Empty(t, Options(nil))
}

func TestCheckUnique(t *testing.T) {
	require.ErrorIs(t, CheckUnique(cached(), Client{Identification: "998877"}), ErrDuplicateIdentification)
	require.ErrorIs(t, CheckUnique(cached(), Client{ID: jsonval.Text("2"), Identification: "111111"}), ErrDuplicateIdentification)
	require.NoError(t, CheckUnique(cached(), Client{ID: jsonval.Text("3"), Identification: "111111"}))
}

func TestFromForm_TrimsAndStamps(t *testing.T) {
	c := FromForm(validation.ClientForm{Name: " Eva ", Identification: "123456 ", Phone: "3000000000", Address: "Cra 7"}, jsonval.Text("x"), "2024-01-01T00:00:00Z")
	require.Equal(t, "Eva", c.Name)
	require.Equal(t, "123456", c.Identification)
	require.Equal(t, c.CreatedAt, c.UpdatedAt)
	require.Equal(t, "Eva", c.Form().Name)
}

package catalog_test

import (
	"testing"

	"github.com/rpggio/require/internal/domain/catalog"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestDefaults_FreshCopy(t *testing.T) {
	a := catalog.Defaults()
	require.Len(t, a, 6)
	a[0].Name = "changed"
	require.Equal(t, "UART", catalog.Defaults()[0].Name)
}

func TestDefaultRules(t *testing.T) {
	rules := catalog.DefaultRules()
	require.Equal(t, model.StatusCompatible, rules.Check("can", "can"))
	require.Equal(t, model.StatusUnknown, rules.Check("can", "spi"))
}

func TestAdd(t *testing.T) {
	list := catalog.Defaults()

	next, err := catalog.Add(list, model.Interface{ID: "lin", Name: "LIN Bus", Icon: "lin"})
	require.NoError(t, err)
	require.Len(t, next, 7)
	require.Len(t, list, 6)

	_, err = catalog.Add(next, model.Interface{ID: "lin", Name: "Again"})
	require.ErrorIs(t, err, catalog.ErrDuplicateInterface)

	_, err = catalog.Add(list, model.Interface{ID: "nameless"})
	require.ErrorIs(t, err, catalog.ErrInvalidInterface)
}

func TestUpdateAndRemove(t *testing.T) {
	list := catalog.Defaults()

	next, err := catalog.Update(list, model.Interface{ID: "can", Name: "CAN FD", Icon: "can"})
	require.NoError(t, err)
	iface, ok := catalog.Find(next, "can")
	require.True(t, ok)
	require.Equal(t, "CAN FD", iface.Name)

	same, err := catalog.Update(list, model.Interface{ID: "missing", Name: "x"})
	require.NoError(t, err)
	require.Equal(t, list, same)

	removed := catalog.Remove(next, "can")
	require.Len(t, removed, 5)
	_, ok = catalog.Find(removed, "can")
	require.False(t, ok)
}

func TestIconFor(t *testing.T) {
	list := catalog.Defaults()
	require.Equal(t, "usbc", catalog.IconFor(list, "usbc"))
	require.Equal(t, catalog.DefaultIcon, catalog.IconFor(list, "gone"))

	list = append(list, model.Interface{ID: "bare", Name: "Bare"})
	require.Equal(t, catalog.DefaultIcon, catalog.IconFor(list, "bare"))
}

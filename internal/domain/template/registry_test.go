package template_test

import (
	"testing"

	"github.com/rpggio/require/internal/domain/template"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := template.DefaultRegistry()

	all := reg.All()
	require.Len(t, all, 2)
	require.Equal(t, "car", all[0].ID)
	require.Equal(t, "satellite", all[1].ID)

	car, err := reg.Get("car")
	require.NoError(t, err)
	require.Equal(t, "Automotive", car.Category)

	_, err = reg.Get("boat")
	require.ErrorIs(t, err, template.ErrTemplateNotFound)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := template.NewRegistry(template.Car())
	reg.Register(template.Template{ID: "car", Name: "Other"})

	all := reg.All()
	require.Len(t, all, 1)
	require.Equal(t, "Other", all[0].Name)
}

func TestBlueprints_KeysResolve(t *testing.T) {
	for _, tmpl := range template.DefaultRegistry().All() {
		t.Run(tmpl.ID, func(t *testing.T) {
			bp := tmpl.Build("Test", "")

			components := map[string]map[string]bool{}
			for _, c := range bp.Components {
				ifaces := map[string]bool{}
				for _, i := range c.Interfaces {
					ifaces[i.Key] = true
				}
				components[c.Key] = ifaces
			}
			for _, c := range bp.Components {
				if c.ParentKey != "" {
					require.Contains(t, components, c.ParentKey)
				}
			}
			for _, conn := range bp.Connections {
				require.True(t, components[conn.Source.ComponentKey][conn.Source.InterfaceKey])
				require.True(t, components[conn.Target.ComponentKey][conn.Target.InterfaceKey])
			}
			for _, v := range bp.Views {
				for _, key := range v.ComponentKeys {
					require.Contains(t, components, key)
				}
			}
		})
	}
}

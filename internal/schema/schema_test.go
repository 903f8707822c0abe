package schema_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/project"
	"github.com/rpggio/require/internal/domain/view"
	"github.com/rpggio/require/internal/schema"
	"github.com/stretchr/testify/require"
)

func newViews() *view.Manager {
	n := 0
	return view.NewManager(func() string {
		n++
		return fmt.Sprintf("v-%d", n)
	}, clock.NewFake(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecode_Irreparable(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"id":`,
		"not object":    `[1,2]`,
		"missing id":    `{"name":"x","components":[]}`,
		"missing name":  `{"id":"p","components":[]}`,
		"no components": `{"id":"p","name":"x","components":{}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := schema.Decode([]byte(raw))
			require.ErrorIs(t, err, schema.ErrIrreparable)
			require.Nil(t, p)
		})
	}
}

func TestDecode_Defaults(t *testing.T) {
	raw := `{
		"id": "p1",
		"name": "Legacy",
		"components": [
			{"id": "c1", "position": {"x": 10, "y": 20}},
			{"name": "Bus", "type": "subsystem", "interfaces": [{"id": "i1", "interfaceDefinitionId": "can"}]},
			"garbage"
		],
		"connections": [{"id": "k1", "compatibilityStatus": "bogus"}]
	}`

	p, err := schema.Decode([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, 0, p.SchemaVersion)
	require.Len(t, p.Components, 2)

	first := p.Components[0]
	require.Equal(t, "Unnamed Component", first.Name)
	require.Equal(t, model.TypeComponent, first.Type)
	require.Equal(t, &model.Point{X: 10, Y: 20}, first.Position)
	require.NotNil(t, first.Interfaces)

	second := p.Components[1]
	require.NotEmpty(t, second.ID)
	require.Equal(t, model.LegacySubsystem, second.Type)
	require.Equal(t, model.PositionRight, second.Interfaces[0].Position)

	require.Equal(t, model.StatusUnknown, p.Connections[0].CompatibilityStatus)
	require.Empty(t, p.SystemViews)
}

func TestDecodeProjects_SkipsIrreparable(t *testing.T) {
	raw := `[{"id":"a","name":"A","components":[]},{"name":"broken"},{"id":"b","name":"B","components":[]}]`

	projects, err := schema.DecodeProjects([]byte(raw), nil)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "b", projects[1].ID)

	_, err = schema.DecodeProjects([]byte(`{"id":"a"}`), nil)
	require.ErrorIs(t, err, schema.ErrMalformed)
	_, err = schema.DecodeProjects([]byte(`not json`), nil)
	require.ErrorIs(t, err, schema.ErrMalformed)
}

func TestNormalize_VersionZero(t *testing.T) {
	raw := `{
		"id": "p1",
		"name": "Legacy",
		"components": [
			{"id": "root", "name": "Root", "type": "system", "position": {"x": 300, "y": 40}, "interfaces": []},
			{"id": "bus", "name": "Bus", "type": "subsystem", "parentId": "root", "interfaces": [
				{"id": "i1", "componentId": "stale", "interfaceDefinitionId": "can"},
				{"id": "i2", "interfaceDefinitionId": "can", "isConnected": true, "connectionId": "gone"}
			]},
			{"id": "ecu", "name": "ECU", "interfaces": [{"id": "i3", "interfaceDefinitionId": "can"}]}
		],
		"connections": [
			{"id": "k1", "sourceComponentId": "bus", "sourceInterfaceId": "i1", "targetComponentId": "ecu", "targetInterfaceId": "i3", "compatibilityStatus": "compatible"},
			{"id": "k2", "sourceComponentId": "bus", "sourceInterfaceId": "i2", "targetComponentId": "missing", "targetInterfaceId": "x", "compatibilityStatus": "compatible"}
		]
	}`
	decoded, err := schema.Decode([]byte(raw))
	require.NoError(t, err)

	p := schema.Normalize(decoded, newViews())
	require.Equal(t, model.SchemaVersion, p.SchemaVersion)

	bus := p.Components[p.FindComponent("bus")]
	require.Equal(t, model.TypeComponent, bus.Type)
	require.Equal(t, "bus", bus.Interfaces[0].ComponentID)

	require.Len(t, p.Connections, 1)
	require.True(t, p.Connections[0].IsFullyDefined)

	i1, _ := p.FindInterface("bus", "i1")
	require.True(t, i1.IsConnected)
	require.Equal(t, "k1", i1.ConnectionID)
	i2, _ := p.FindInterface("bus", "i2")
	require.False(t, i2.IsConnected)
	require.Empty(t, i2.ConnectionID)

	require.Len(t, p.SystemViews, 1)
	v, ok := view.CurrentView(p)
	require.True(t, ok)
	require.Equal(t, p.CurrentSystemViewID, v.ID)
	require.Equal(t, model.Point{X: 300, Y: 40}, v.ComponentPositions["root"])
	require.Len(t, v.VisibleComponents, 3)
	for _, c := range p.Components {
		require.Nil(t, c.Position)
	}

	require.Equal(t, model.LegacySubsystem, decoded.Components[1].Type, "input must not change")
	require.Same(t, p, schema.Normalize(p, newViews()))
}

func TestNormalize_VersionOneRepairsCurrentView(t *testing.T) {
	raw := `{
		"id": "p1", "name": "V1",
		"components": [{"id": "a", "name": "A", "position": {"x": 5, "y": 6}}],
		"systemViews": [{"id": "view-a", "name": "Main", "visibleComponents": ["a"], "componentPositions": {}}],
		"currentSystemViewId": "dangling"
	}`
	decoded, err := schema.Decode([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, 1, decoded.SchemaVersion)

	p := schema.Normalize(decoded, newViews())
	require.Len(t, p.SystemViews, 1)
	require.Equal(t, "view-a", p.CurrentSystemViewID)
	require.Equal(t, model.Point{X: 5, Y: 6}, p.SystemViews[0].ComponentPositions["a"])
	require.Nil(t, p.Components[0].Position)
}

func TestNormalize_CurrentVersionIsStillRepaired(t *testing.T) {
	raw := `{
		"id": "p1", "name": "Stamped", "schemaVersion": 2,
		"components": [
			{"id": "c1", "name": "One", "type": "subsystem", "interfaces": [
				{"id": "i1", "componentId": "WRONG", "interfaceDefinitionId": "can", "isConnected": true, "connectionId": "k1"}
			]}
		],
		"connections": [
			{"id": "k1", "sourceComponentId": "c1", "sourceInterfaceId": "i1", "targetComponentId": "gone", "targetInterfaceId": "x", "compatibilityStatus": "compatible"}
		]
	}`
	decoded, err := schema.Decode([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, model.SchemaVersion, decoded.SchemaVersion)

	p := schema.Normalize(decoded, newViews())
	require.NotSame(t, decoded, p)
	require.Empty(t, p.Connections)
	require.Equal(t, model.TypeComponent, p.Components[0].Type)

	iface := p.Components[0].Interfaces[0]
	require.Equal(t, "c1", iface.ComponentID)
	require.False(t, iface.IsConnected)
	require.Empty(t, iface.ConnectionID)

	require.Len(t, p.SystemViews, 1)
	require.Equal(t, p.SystemViews[0].ID, p.CurrentSystemViewID)
	require.Contains(t, p.SystemViews[0].VisibleComponents, "c1")

	require.Same(t, p, schema.Normalize(p, newViews()))
}

func TestNormalize_CurrentVersionDanglingViewSelection(t *testing.T) {
	raw := `{
		"id": "p1", "name": "Stamped", "schemaVersion": 2,
		"components": [{"id": "a", "name": "A", "type": "system"}],
		"systemViews": [{"id": "view-a", "name": "Main", "visibleComponents": ["a"], "isDefault": true}],
		"currentSystemViewId": "missing"
	}`
	decoded, err := schema.Decode([]byte(raw))
	require.NoError(t, err)

	p := schema.Normalize(decoded, newViews())
	require.Equal(t, "view-a", p.CurrentSystemViewID)
	require.Equal(t, "missing", decoded.CurrentSystemViewID, "input must not change")
}

func TestRoundTrip_PreservesCounts(t *testing.T) {
	store := project.NewStore()
	p, err := store.CreateFromTemplate("car", "Sedan", "")
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	decoded, err := schema.Decode(raw)
	require.NoError(t, err)
	normalized := schema.Normalize(decoded, store.Views())

	require.Same(t, decoded, normalized)
	require.Len(t, normalized.Components, len(p.Components))
	require.Len(t, normalized.Connections, len(p.Connections))
	require.Len(t, normalized.SystemViews, len(p.SystemViews))
	require.Equal(t, p.CurrentSystemViewID, normalized.CurrentSystemViewID)
	require.Equal(t, p.SystemViews[0].ComponentPositions, normalized.SystemViews[0].ComponentPositions)
}

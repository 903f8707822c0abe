package model_test

import (
	"testing"

	"github.com/rpggio/require/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestCheckCompatibility_Identity(t *testing.T) {
	require.Equal(t, model.StatusCompatible, model.CheckCompatibility("can", "can"))
	require.Equal(t, model.StatusIncompatible, model.CheckCompatibility("can", "usbc"))
	require.Equal(t, model.StatusIncompatible, model.CheckCompatibility("usbc", "can"))
}

func TestRuleSet_SymmetricAndUnknown(t *testing.T) {
	rules := model.RuleSet{
		{SourceInterfaceID: "uart", TargetInterfaceID: "usbc", IsCompatible: true},
		{SourceInterfaceID: "can", TargetInterfaceID: "spi", IsCompatible: false},
	}

	require.Equal(t, model.StatusCompatible, rules.Check("uart", "usbc"))
	require.Equal(t, model.StatusCompatible, rules.Check("usbc", "uart"))
	require.Equal(t, model.StatusIncompatible, rules.Check("spi", "can"))
	require.Equal(t, model.StatusUnknown, rules.Check("i2c", "i2c"))
}

func TestProject_Lookups(t *testing.T) {
	p := &model.Project{
		Components: []model.Component{
			{ID: "c1", Interfaces: []model.ComponentInterface{{ID: "i1", ComponentID: "c1"}}},
		},
		Connections: []model.Connection{{ID: "conn1"}},
		SystemViews: []model.SystemView{{ID: "v1"}},
	}

	require.Equal(t, 0, p.FindComponent("c1"))
	require.Equal(t, -1, p.FindComponent("missing"))
	_, ok := p.FindInterface("c1", "i1")
	require.True(t, ok)
	_, ok = p.FindInterface("c1", "i2")
	require.False(t, ok)
	require.Equal(t, 0, p.FindConnection("conn1"))
	require.Equal(t, 0, p.FindView("v1"))
	require.Equal(t, -1, p.FindView("v2"))
}

func TestProject_CloneIsShallow(t *testing.T) {
	p := &model.Project{ID: "p1", Name: "one"}
	cp := p.Clone()
	cp.Name = "two"
	require.Equal(t, "one", p.Name)
	require.NotSame(t, p, cp)
}

package view

import (
	"math"

	"github.com/rpggio/require/internal/domain/model"
)

const (
	gridOriginX    = 100
	gridOriginY    = 100
	gridCellWidth  = 250
	gridCellHeight = 150
)

// DefaultPoint is where a component lands when neither the view nor the
// component itself knows a position.
var DefaultPoint = model.Point{X: 100, Y: 100}

// GridPosition places the index-th of count components on a grid with
// ceil(sqrt(count)) columns.
func GridPosition(index, count int) model.Point {
	if count < 1 {
		count = 1
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	row := index / cols
	col := index % cols
	return model.Point{
		X: float64(gridOriginX + col*gridCellWidth),
		Y: float64(gridOriginY + row*gridCellHeight),
	}
}

// ResolvePosition returns the position of a component in a view: the view's
// override first, then the component's legacy position, then DefaultPoint.
func ResolvePosition(component model.Component, v *model.SystemView) model.Point {
	if v != nil {
		if pos, ok := v.ComponentPositions[component.ID]; ok {
			return pos
		}
	}
	if component.Position != nil {
		return *component.Position
	}
	return DefaultPoint
}

// IsVisible reports whether the component is part of the view.
func IsVisible(componentID string, v *model.SystemView) bool {
	if v == nil {
		return false
	}
	for _, id := range v.VisibleComponents {
		if id == componentID {
			return true
		}
	}
	return false
}

// IsInterfaceVisible applies the optional interface filter; an empty filter shows everything.
func IsInterfaceVisible(interfaceID string, v *model.SystemView) bool {
	if v == nil || len(v.VisibleInterfaces) == 0 {
		return true
	}
	for _, id := range v.VisibleInterfaces {
		if id == interfaceID {
			return true
		}
	}
	return false
}

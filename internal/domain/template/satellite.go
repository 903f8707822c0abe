package template

import "github.com/rpggio/require/internal/domain/model"

// Satellite is a small spacecraft bus with one payload.
func Satellite() Template {
	return Template{
		ID:          "satellite",
		Name:        "Satellite Template",
		Description: "Creates a small satellite with power, on-board computer, radio and payload modules.",
		Category:    "Aerospace",
		Build:       buildSatellite,
	}
}

func buildSatellite(name, description string) Blueprint {
	return Blueprint{
		Components: []ComponentSpec{
			{Key: "root", Name: name + " System", Description: description, Type: model.TypeSystem, Position: model.Point{X: 100, Y: 100}},
			{
				Key: "eps", Name: "Electrical Power System", Type: model.TypeComponent, ParentKey: "root",
				Description: "Solar arrays, battery and power distribution",
				Position:    model.Point{X: 100, Y: 250},
				Interfaces: []InterfaceSpec{
					{Key: "i2c", DefinitionID: "i2c", Name: "Housekeeping I2C", Position: model.PositionRight},
				},
			},
			{
				Key: "obc", Name: "On-Board Computer", Type: model.TypeComponent, ParentKey: "root",
				Description: "Flight software and data handling",
				Position:    model.Point{X: 350, Y: 250},
				Interfaces: []InterfaceSpec{
					{Key: "i2c", DefinitionID: "i2c", Name: "Power I2C", Position: model.PositionLeft},
					{Key: "can", DefinitionID: "can", Name: "Platform CAN", Position: model.PositionRight},
					{Key: "spi", DefinitionID: "spi", Name: "Payload SPI", Position: model.PositionBottom},
				},
			},
			{
				Key: "radio", Name: "UHF Radio", Type: model.TypeComponent, ParentKey: "root",
				Description: "Telemetry and telecommand link",
				Position:    model.Point{X: 600, Y: 250},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Radio CAN", Position: model.PositionLeft},
				},
			},
			{
				Key: "payload", Name: "Imaging Payload", Type: model.TypeComponent, ParentKey: "root",
				Description: "Camera and storage",
				Position:    model.Point{X: 350, Y: 400},
				Interfaces: []InterfaceSpec{
					{Key: "spi", DefinitionID: "spi", Name: "Camera SPI", Position: model.PositionTop},
				},
			},
		},
		Connections: []ConnectionSpec{
			{Source: Endpoint{"eps", "i2c"}, Target: Endpoint{"obc", "i2c"}},
			{Source: Endpoint{"obc", "can"}, Target: Endpoint{"radio", "can"}},
			{Source: Endpoint{"obc", "spi"}, Target: Endpoint{"payload", "spi"}},
		},
	}
}

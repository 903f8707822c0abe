package template

import "github.com/rpggio/require/internal/domain/model"

// Car is an automotive system breakdown used to explore the modeling features.
func Car() Template {
	return Template{
		ID:   "car",
		Name: "Car Template",
		Description: "Creates a project with automotive components including Engine, Transmission, " +
			"Electrical System, Braking, Steering, Infotainment, and Body Control modules.",
		Category: "Automotive",
		Build:    buildCar,
	}
}

func buildCar(name, description string) Blueprint {
	if description == "" {
		description = "Complete automotive system breakdown"
	}
	return Blueprint{
		Components: []ComponentSpec{
			{
				Key:         "root",
				Name:        name + " System",
				Description: description,
				Type:        model.TypeSystem,
				Position:    model.Point{X: 100, Y: 100},
			},
			{
				Key:         "engine",
				Name:        "Engine Subsystem",
				Description: "Internal combustion engine with fuel injection and ignition systems",
				Type:        model.TypeComponent,
				ParentKey:   "root",
				Position:    model.Point{X: 150, Y: 200},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Engine CAN Bus", Position: model.PositionRight},
					{Key: "diag", DefinitionID: "uart", Name: "Diagnostic Port", Position: model.PositionBottom},
				},
			},
			{
				Key:         "transmission",
				Name:        "Transmission",
				Description: "Automatic transmission system with electronic control",
				Type:        model.TypeComponent,
				ParentKey:   "root",
				Position:    model.Point{X: 400, Y: 200},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Transmission CAN", Position: model.PositionLeft},
				},
			},
			{
				Key:         "electrical",
				Name:        "Electrical System",
				Description: "Main electrical distribution, battery management, and charging system",
				Type:        model.TypeComponent,
				ParentKey:   "root",
				Position:    model.Point{X: 150, Y: 350},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Power Management CAN", Position: model.PositionTop},
					{Key: "charge", DefinitionID: "usbc", Name: "Charging Port", Position: model.PositionBottom},
				},
			},
			{
				Key:         "braking",
				Name:        "Braking System",
				Description: "Anti-lock braking system (ABS) with electronic brake distribution",
				Type:        model.TypeComponent,
				ParentKey:   "root",
				Position:    model.Point{X: 400, Y: 350},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Brake CAN Bus", Position: model.PositionTop},
				},
			},
			{
				Key:         "steering",
				Name:        "Steering System",
				Description: "Electronic power steering with lane keeping assistance",
				Type:        model.TypeComponent,
				ParentKey:   "root",
				Position:    model.Point{X: 650, Y: 200},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Steering CAN Bus", Position: model.PositionLeft},
				},
			},
			{
				Key:         "infotainment",
				Name:        "Infotainment System",
				Description: "Multimedia system with navigation, connectivity, and user interface",
				Type:        model.TypeComponent,
				ParentKey:   "root",
				Position:    model.Point{X: 650, Y: 350},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Infotainment CAN", Position: model.PositionLeft},
					{Key: "usb", DefinitionID: "usbc", Name: "USB Media Port", Position: model.PositionBottom},
					{Key: "net", DefinitionID: "ethernet", Name: "Internet Connection", Position: model.PositionTop},
				},
			},
			{
				Key:         "body",
				Name:        "Body Control Module",
				Description: "Controls lighting, windows, locks, and other body electronics",
				Type:        model.TypeComponent,
				ParentKey:   "root",
				Position:    model.Point{X: 900, Y: 275},
				Interfaces: []InterfaceSpec{
					{Key: "can", DefinitionID: "can", Name: "Body CAN Bus", Position: model.PositionLeft},
				},
			},
		},
		Connections: []ConnectionSpec{
			{
				Source: Endpoint{ComponentKey: "engine", InterfaceKey: "can"},
				Target: Endpoint{ComponentKey: "transmission", InterfaceKey: "can"},
			},
			{
				Source: Endpoint{ComponentKey: "braking", InterfaceKey: "can"},
				Target: Endpoint{ComponentKey: "steering", InterfaceKey: "can"},
			},
		},
		Views: []ViewSpec{
			{
				Name:          "Vehicle Network",
				Description:   "Modules on the vehicle CAN bus",
				ComponentKeys: []string{"engine", "transmission", "braking", "steering", "infotainment", "body"},
				Positions: map[string]model.Point{
					"engine":       {X: 100, Y: 100},
					"transmission": {X: 350, Y: 100},
					"braking":      {X: 100, Y: 250},
					"steering":     {X: 350, Y: 250},
					"infotainment": {X: 600, Y: 100},
					"body":         {X: 600, Y: 250},
				},
			},
		},
	}
}

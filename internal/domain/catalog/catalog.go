package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/require/internal/domain/model"
)

// DefaultIcon is shown for interfaces whose definition is missing from the catalog.
const DefaultIcon = "default"

var validate = validator.New()

// Defaults returns a fresh copy of the built-in interface definitions.
func Defaults() []model.Interface {
	return []model.Interface{
		{ID: "uart", Name: "UART", Description: "Universal Asynchronous Receiver-Transmitter", Icon: "uart"},
		{ID: "can", Name: "CAN Bus", Description: "Controller Area Network protocol", Icon: "can"},
		{ID: "usbc", Name: "USB-C", Description: "Universal Serial Bus Type-C", Icon: "usbc"},
		{ID: "i2c", Name: "I2C", Description: "Inter-Integrated Circuit protocol", Icon: "i2c"},
		{ID: "spi", Name: "SPI", Description: "Serial Peripheral Interface", Icon: "spi"},
		{ID: "ethernet", Name: "Ethernet", Description: "Wired network interface", Icon: "ethernet"},
	}
}

// DefaultRules pairs every built-in definition with itself. Any other pair is unknown.
func DefaultRules() model.RuleSet {
	defaults := Defaults()
	rules := make(model.RuleSet, 0, len(defaults))
	for _, iface := range defaults {
		rules = append(rules, model.CompatibilityRule{
			SourceInterfaceID: iface.ID,
			TargetInterfaceID: iface.ID,
			IsCompatible:      true,
		})
	}
	return rules
}

// Validate checks the struct constraints of a catalog entry.
func Validate(iface model.Interface) error {
	if err := validate.Struct(iface); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInterface, err)
	}
	return nil
}

// ValidateRules checks that every rule names both definitions.
func ValidateRules(rules model.RuleSet) error {
	for i, r := range rules {
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("%w: rule %d: %v", ErrInvalidRule, i, err)
		}
	}
	return nil
}

// Find returns the definition with the given id.
func Find(list []model.Interface, id string) (model.Interface, bool) {
	for _, iface := range list {
		if iface.ID == id {
			return iface, true
		}
	}
	return model.Interface{}, false
}

// IconFor resolves the icon of a definition, falling back to DefaultIcon for
// dangling references and entries without an icon.
func IconFor(list []model.Interface, id string) string {
	if iface, ok := Find(list, id); ok && iface.Icon != "" {
		return iface.Icon
	}
	return DefaultIcon
}

// Add appends a validated definition. The id must be unique.
func Add(list []model.Interface, iface model.Interface) ([]model.Interface, error) {
	if err := Validate(iface); err != nil {
		return list, err
	}
	if _, ok := Find(list, iface.ID); ok {
		return list, fmt.Errorf("%s: %w", iface.ID, ErrDuplicateInterface)
	}
	return append(append(make([]model.Interface, 0, len(list)+1), list...), iface), nil
}

// Update replaces the definition with the same id. Unknown ids are a no-op.
func Update(list []model.Interface, iface model.Interface) ([]model.Interface, error) {
	if err := Validate(iface); err != nil {
		return list, err
	}
	out := make([]model.Interface, len(list))
	found := false
	for i, existing := range list {
		if existing.ID == iface.ID {
			existing = iface
			found = true
		}
		out[i] = existing
	}
	if !found {
		return list, nil
	}
	return out, nil
}

// Remove drops a definition. Component interfaces that reference it keep the
// dangling id and render with DefaultIcon.
func Remove(list []model.Interface, id string) []model.Interface {
	if _, ok := Find(list, id); !ok {
		return list
	}
	out := make([]model.Interface, 0, len(list)-1)
	for _, iface := range list {
		if iface.ID != id {
			out = append(out, iface)
		}
	}
	return out
}

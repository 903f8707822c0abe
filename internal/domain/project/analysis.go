package project

import (
	"math"

	"github.com/rpggio/require/internal/domain/model"
)

// Severity grades a compatibility issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue reports one connection that is not compatible.
type Issue struct {
	ConnectionID string   `json:"connectionId"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity"`
}

// CalculateCompleteness returns the percentage of fully defined connections,
// rounded to the nearest integer. A project without connections scores 0.
func CalculateCompleteness(p *model.Project) int {
	if len(p.Connections) == 0 {
		return 0
	}
	defined := 0
	for _, conn := range p.Connections {
		if conn.IsFullyDefined {
			defined++
		}
	}
	return int(math.Round(100 * float64(defined) / float64(len(p.Connections))))
}

// FindOrphanedComponents lists components that are not an endpoint of any connection.
func FindOrphanedComponents(p *model.Project) []model.Component {
	connected := make(map[string]bool, 2*len(p.Connections))
	for _, conn := range p.Connections {
		connected[conn.SourceComponentID] = true
		connected[conn.TargetComponentID] = true
	}
	orphans := []model.Component{}
	for _, c := range p.Components {
		if !connected[c.ID] {
			orphans = append(orphans, c)
		}
	}
	return orphans
}

// GetCompatibilityIssues returns one issue per connection that is not compatible.
func GetCompatibilityIssues(p *model.Project) []Issue {
	issues := []Issue{}
	for _, conn := range p.Connections {
		switch conn.CompatibilityStatus {
		case model.StatusCompatible:
			continue
		case model.StatusIncompatible:
			issues = append(issues, Issue{
				ConnectionID: conn.ID,
				Message:      "Incompatible interface types",
				Severity:     SeverityError,
			})
		default:
			issues = append(issues, Issue{
				ConnectionID: conn.ID,
				Message:      "Unknown compatibility - needs verification",
				Severity:     SeverityWarning,
			})
		}
	}
	return issues
}

// Summary bundles the analysis results for a project.
type Summary struct {
	Completeness int               `json:"completeness"`
	Orphans      []model.Component `json:"orphans"`
	Issues       []Issue           `json:"issues"`
}

// Analyze runs every analysis over p.
func Analyze(p *model.Project) Summary {
	return Summary{
		Completeness: CalculateCompleteness(p),
		Orphans:      FindOrphanedComponents(p),
		Issues:       GetCompatibilityIssues(p),
	}
}

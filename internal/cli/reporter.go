package cli

import (
	"github.com/toyz/synapse/internal/utils"
)

// Reporter renders lint reports through the diagnostic system
type Reporter struct {
	diagnostics *utils.DiagnosticSystem
}

// NewReporter creates a reporter writing to the given diagnostic system
func NewReporter(diagnostics *utils.DiagnosticSystem) *Reporter {
	return &Reporter{diagnostics: diagnostics}
}

// Render prints the report: manifests, bindings, and findings grouped by
// severity, followed by a summary
func (r *Reporter) Render(report *Report) {
	d := r.diagnostics

	for _, m := range report.Manifests {
		d.Verbose("parsed %s: module %s, %d bindings", m.Path, m.Module, len(m.Bindings))
	}

	if report.Clean() {
		d.Success("%d manifests, %d bindings, no problems found",
			len(report.Manifests), report.BindingCount())
		return
	}

	findings := append([]Finding(nil), report.Findings...)
	SortFindings(findings)

	d.Category("Problems")
	for _, f := range findings {
		switch f.Kind {
		case FindingCycle, FindingDuplicate, FindingSyntax:
			d.Error("%s", f.String())
		default:
			d.Warn("%s", f.String())
		}
		if f.Hint != "" {
			d.Verbose("  hint: %s", f.Hint)
		}
	}

	d.Summary("Lint summary", map[string]interface{}{
		"manifests": len(report.Manifests),
		"bindings":  report.BindingCount(),
		"problems":  len(findings),
	})
}

package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     string
	}{
		{name: "error", severity: SeverityError, want: "error"},
		{name: "warning", severity: SeverityWarning, want: "warning"},
		{name: "info", severity: SeverityInfo, want: "info"},
		{name: "critical", severity: SeverityCritical, want: "critical"},
		{name: "unknown value", severity: Severity(42), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.severity.String())
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	// Error is the zero value so results default to the most actionable level.
	assert.Equal(t, Severity(0), SeverityError)
	assert.Less(t, int(SeverityError), int(SeverityWarning))
	assert.Less(t, int(SeverityWarning), int(SeverityInfo))
	assert.Less(t, int(SeverityInfo), int(SeverityCritical))
}

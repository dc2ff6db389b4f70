package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devstrap/internal/config"
	"devstrap/internal/report"
)

// With no databases configured and no container engine named, runExtras has
// nothing to ask about and must not record synthetic "declined" results.
func TestRunExtrasWithoutComponentsRecordsNothing(t *testing.T) {
	rep := &report.Report{}
	runExtras(nil, config.Extras{}, rep)
	assert.Empty(t, rep.Results)
}

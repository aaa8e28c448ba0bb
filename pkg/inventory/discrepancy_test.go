package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reien/entities"
)

func TestDiscrepancies_Static(t *testing.T) {
	got := Static().Discrepancies()
	require.Len(t, got, 3)

	assert.Equal(t, Discrepancy{
		Kind: KindCountBalance, Period: entities.Period2, Section: "8区",
		Expected: "40", Actual: "41",
	}, got[0])

	assert.Equal(t, KindCountBalance, got[1].Kind)
	assert.Equal(t, 2.16, got[1].AreaSqm)
	assert.Equal(t, "5", got[1].Expected)
	assert.Equal(t, "15", got[1].Actual)

	assert.Equal(t, KindRemainingArea, got[2].Kind)
	assert.Equal(t, entities.Period2, got[2].Period)
	assert.Equal(t, 4.5, got[2].AreaSqm)
	assert.Equal(t, "13.5", got[2].Expected)
	assert.Equal(t, "9", got[2].Actual)
}

func TestDiscrepancies_DoNotChangeSummaries(t *testing.T) {
	before := CalculateAllPeriodSummaries()
	_ = Static().Discrepancies()
	assert.Equal(t, before, CalculateAllPeriodSummaries())
}

func TestDiscrepancy_String(t *testing.T) {
	d := Discrepancy{Kind: KindRemainingArea, Period: entities.Period2, AreaSqm: 4.5, PlotType: "吉相墓所", Expected: "13.5", Actual: "9"}
	assert.Equal(t, "remaining_area 2期 4.5㎡ 吉相墓所: expected 13.5, got 9", d.String())

	d = Discrepancy{Kind: KindCountBalance, Period: entities.Period2, Section: "8区", Expected: "40", Actual: "41"}
	assert.Equal(t, "count_balance 2期 8区: expected 40, got 41", d.String())
}

package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/geosim/internal/domain"
)

func TestBuilderLastWriterWins(t *testing.T) {
	b := NewBuilder()

	b.ForFaction("f1").SetLegitimacy(10)
	b.ForFaction("f1").SetLegitimacy(70)

	d := b.Build()
	require.NotNil(t, d.FactionDeltas["f1"].Legitimacy)
	assert.Equal(t, 70.0, *d.FactionDeltas["f1"].Legitimacy)
}

func TestBuilderSetsUnion(t *testing.T) {
	b := NewBuilder()
	b.ForFaction("f1").AddRegion("r1")
	b.ForFaction("f1").AddRegion("r2").RemoveAlliance("f2")

	fd := b.Build().FactionDeltas["f1"]
	assert.ElementsMatch(t, []string{"r1", "r2"}, fd.AddRegions.Members())
	assert.True(t, fd.RemoveAlliances.Has("f2"))
}

func TestBuilderEventsKeepOrder(t *testing.T) {
	b := NewBuilder()
	b.AddEvent("first")
	b.AddEvent("second")

	assert.Equal(t, []string{"first", "second"}, b.Build().Events)
}

func TestHasPendingOwnerChange(t *testing.T) {
	b := NewBuilder()
	assert.False(t, b.HasPendingOwnerChange("r1"))

	// Via region owner write.
	b.ForRegion("r1").SetOwner("f1")
	assert.True(t, b.HasPendingOwnerChange("r1"))

	// A region delta without an owner write does not count.
	b.ForRegion("r2").SetStability(50)
	assert.False(t, b.HasPendingOwnerChange("r2"))

	// Via faction add_regions.
	b.ForFaction("f2").AddRegion("r3")
	assert.True(t, b.HasPendingOwnerChange("r3"))

	// Via a creation claiming the region.
	b.CreateFaction(FactionCreation{ID: "f9", Regions: domain.NewIDSet("r4")})
	assert.True(t, b.HasPendingOwnerChange("r4"))
}

func TestSetOwnerEmptyStringIsAChange(t *testing.T) {
	b := NewBuilder()
	b.ForRegion("r1").SetOwner("")

	d := b.Build()
	require.NotNil(t, d.RegionDeltas["r1"].Owner)
	assert.Equal(t, "", *d.RegionDeltas["r1"].Owner)
	assert.True(t, b.HasPendingOwnerChange("r1"))
}

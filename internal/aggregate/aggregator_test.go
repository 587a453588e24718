package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

func TestAggregateByProvince(t *testing.T) {
	ds, err := dataset.New(
		dataset.StringColumn("province", "Ankara", "Ankara", "Izmir"),
		dataset.FloatColumn("value", 10, 20, 5),
	)
	require.NoError(t, err)

	out, err := New(nil).AggregateByProvince(ds, "value")
	require.NoError(t, err)

	assert.Equal(t, []string{"province", "sum", "mean", "std"}, out.Names())
	require.Equal(t, 2, out.NumRows())

	// First-appearance order: Ankara before Izmir.
	region, _ := out.Column("province")
	name0, _ := region.Values[0].Text()
	name1, _ := region.Values[1].Text()
	assert.Equal(t, "Ankara", name0)
	assert.Equal(t, "Izmir", name1)

	sum, _ := out.Column("sum")
	mean, _ := out.Column("mean")
	std, _ := out.Column("std")

	ankaraSum, _ := sum.Values[0].Float64()
	ankaraMean, _ := mean.Values[0].Float64()
	ankaraStd, _ := std.Values[0].Float64()
	assert.Equal(t, 30.0, ankaraSum)
	assert.Equal(t, 15.0, ankaraMean)
	assert.InDelta(t, 7.07, ankaraStd, 0.01)

	izmirSum, _ := sum.Values[1].Float64()
	assert.Equal(t, 5.0, izmirSum)
	// Single-row group: sample standard deviation is undefined.
	assert.True(t, std.Values[1].IsMissing())
}

func TestAggregateByRegion_FirstAppearanceOrder(t *testing.T) {
	ds, err := dataset.New(
		dataset.StringColumn("region", "Zonguldak", "Adana", "Zonguldak", "Bursa", "Adana"),
		dataset.FloatColumn("value", 1, 2, 3, 4, 5),
	)
	require.NoError(t, err)

	out, err := New(nil).AggregateByRegion(ds, "value", "region")
	require.NoError(t, err)

	region, _ := out.Column("region")
	var got []string
	for _, v := range region.Values {
		s, _ := v.Text()
		got = append(got, s)
	}
	// Never alphabetic; strictly first appearance.
	assert.Equal(t, []string{"Zonguldak", "Adana", "Bursa"}, got)
}

func TestAggregateByRegion_GroupCountMatchesDistinctRegions(t *testing.T) {
	ds, err := dataset.New(
		dataset.StringColumn("province", "a", "b", "a", "c", "b", "a"),
		dataset.FloatColumn("value", 1, 2, 3, 4, 5, 6),
	)
	require.NoError(t, err)

	out, err := New(nil).AggregateByRegion(ds, "value", "province")
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())
}

func TestAggregateByRegion_MissingValuesSkipped(t *testing.T) {
	ds, err := dataset.New(
		dataset.StringColumn("province", "Ankara", "Ankara", "Izmir"),
		dataset.NewColumn("value", dataset.Float(10), dataset.Missing(), dataset.Missing()),
	)
	require.NoError(t, err)

	out, err := New(nil).AggregateByRegion(ds, "value", "province")
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	sum, _ := out.Column("sum")
	ankara, _ := sum.Values[0].Float64()
	assert.Equal(t, 10.0, ankara)

	// Izmir has no valid values: all statistics are the sentinel.
	assert.True(t, sum.Values[1].IsMissing())
	mean, _ := out.Column("mean")
	assert.True(t, mean.Values[1].IsMissing())
}

func TestAggregateByRegion_MissingRegionKeySkipped(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewColumn("province", dataset.Str("Ankara"), dataset.Missing(), dataset.Str("Izmir")),
		dataset.FloatColumn("value", 1, 2, 3),
	)
	require.NoError(t, err)

	out, err := New(nil).AggregateByRegion(ds, "value", "province")
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}

func TestAggregateByRegion_Errors(t *testing.T) {
	ds, err := dataset.New(
		dataset.StringColumn("province", "Ankara"),
		dataset.StringColumn("name", "wheat"),
		dataset.NewColumn("empty", dataset.Missing()),
	)
	require.NoError(t, err)

	tests := []struct {
		name     string
		value    string
		region   string
		wantType errors.ErrorType
	}{
		{name: "non-numeric value column", value: "name", region: "province", wantType: errors.ErrTypeInvalidColumnType},
		{name: "entirely missing value column", value: "empty", region: "province", wantType: errors.ErrTypeInvalidColumnType},
		{name: "absent value column", value: "nope", region: "province", wantType: errors.ErrTypeNotFound},
		{name: "absent region column", value: "name", region: "nope", wantType: errors.ErrTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).AggregateByRegion(ds, tt.value, tt.region)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.wantType))
		})
	}
}

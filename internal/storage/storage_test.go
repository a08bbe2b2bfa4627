package storage

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() SchedulePlan {
	return SchedulePlan{
		"2026-06-01": {{Product: "Apples", Allocated: 10, Capacity: 100}},
		"2026-05-31": {{Product: "Apples", Allocated: 100, Capacity: 100}},
		"2026-06-02": {{Product: "Apples", Allocated: 1, Capacity: 100}},
	}
}

func TestSchedulePlan_DatesSorted(t *testing.T) {
	assert.Equal(t, []string{"2026-05-31", "2026-06-01", "2026-06-02"}, testPlan().Dates())
	assert.Empty(t, SchedulePlan{}.Dates())
}

func TestSchedulePlan_Window(t *testing.T) {
	plan := testPlan()

	days := plan.Window(2)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-05-31", days[0].Date)
	assert.True(t, days[0].Entries[0].Full())
	assert.Equal(t, "2026-06-01", days[1].Date)

	assert.Len(t, plan.Window(0), 3)
	assert.Len(t, plan.Window(10), 3)
	assert.NotNil(t, SchedulePlan(nil).Window(7))
}

func TestSchedulePlan_CloneIsDeep(t *testing.T) {
	plan := testPlan()
	cp := plan.Clone()

	cp["2026-06-01"][0].Allocated = 99
	cp["2026-07-01"] = nil

	assert.Equal(t, 10, plan.Day("2026-06-01")[0].Allocated)
	assert.NotContains(t, plan, "2026-07-01")
}

func TestProductCapacity_Validate(t *testing.T) {
	ok := ProductCapacity{
		Name:       "Widget",
		DailyLimit: 5,
		Materials:  []MaterialRequirement{{Material: "Bolt", UnitsPerProduct: decimal.NewFromInt(4)}},
	}
	assert.NoError(t, ok.Validate())

	cases := map[string]ProductCapacity{
		"empty name":     {Name: " ", DailyLimit: 1},
		"zero limit":     {Name: "Widget", DailyLimit: 0},
		"negative limit": {Name: "Widget", DailyLimit: -3},
		"empty material": {Name: "Widget", DailyLimit: 1, Materials: []MaterialRequirement{{}}},
		"negative rate": {Name: "Widget", DailyLimit: 1, Materials: []MaterialRequirement{
			{Material: "Bolt", UnitsPerProduct: decimal.NewFromInt(-1)},
		}},
	}
	for name, c := range cases {
		assert.ErrorIs(t, c.Validate(), ErrInvalidCapacity, name)
	}
}

func TestOrder_Validate(t *testing.T) {
	assert.NoError(t, Order{Product: "Apples", Quantity: 1}.Validate())
	assert.ErrorIs(t, Order{Product: "", Quantity: 1}.Validate(), ErrInvalidOrder)
	assert.ErrorIs(t, Order{Product: "Apples", Quantity: 0}.Validate(), ErrInvalidOrder)
}

func TestFindHelpers(t *testing.T) {
	caps := []ProductCapacity{{Name: "Apples"}, {Name: "apples"}}
	c, ok := FindCapacity(caps, "apples")
	require.True(t, ok)
	assert.Equal(t, "apples", c.Name)
	_, ok = FindCapacity(caps, "APPLES")
	assert.False(t, ok)

	orders := []Order{{ID: 1}, {ID: 2}}
	o, idx, ok := FindOrder(orders, 2)
	require.True(t, ok)
	assert.Equal(t, int64(2), o.ID)
	assert.Equal(t, 1, idx)
	_, idx, ok = FindOrder(orders, 3)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestMaterialRequirement_DecimalJSON(t *testing.T) {
	var req MaterialRequirement
	require.NoError(t, json.Unmarshal([]byte(`{"material":"Boxes","units_per_product":0.1}`), &req))
	assert.True(t, req.UnitsPerProduct.Equal(decimal.RequireFromString("0.1")))

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"material":"Boxes","units_per_product":"0.1"}`, string(raw))
}

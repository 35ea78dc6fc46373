package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/refurbtrack/price-tracker/internal/types"
)

func TestIntelGeneration(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"Intel Core i5-8350U", 8},
		{"Intel Core i7-10610U", 10},
		{"11th Gen Intel Core i5", 11},
		{"Intel Core i5 8th gen", 8},
		{"i5-7300U Intel", 7},
		{"AMD Ryzen 5 4650U", 0},
		{"fast processor", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IntelGeneration(tt.input))
		})
	}
}

func TestIsRelevant(t *testing.T) {
	rec := func(brand, cpu string) types.ProductRecord {
		return types.ProductRecord{
			Brand:       brand,
			Model:       "Latitude 5400",
			ProductType: types.ProductTypeLaptop,
			Config:      types.ProductConfig{Processor: cpu},
		}
	}

	assert.True(t, IsRelevant(rec("Dell", "Intel Core i5-8350U")))
	assert.True(t, IsRelevant(rec("HP", "Intel Core i7-1185G7")))
	assert.False(t, IsRelevant(rec("Dell", "Intel Core i5-7300U")), "7th gen is too old")
	assert.False(t, IsRelevant(rec("Dell", "AMD Ryzen 5 4650U")), "non-Intel is out of scope")
	assert.False(t, IsRelevant(rec("Apple", "Intel Core i5-8350U")), "brand not on allow-list")
	assert.False(t, IsRelevant(rec("Dell", "")), "unverifiable generation is dropped")
}

func TestIsRelevantFallsBackToTitle(t *testing.T) {
	r := types.ProductRecord{
		Brand:       "Lenovo",
		Model:       "ThinkPad T490",
		ProductType: types.ProductTypeLaptop,
		Title:       "Lenovo ThinkPad T490 Intel Core i5-8365U 14in",
	}
	assert.True(t, IsRelevant(r))
}

func TestFilterRelevant(t *testing.T) {
	records := []types.ProductRecord{
		{Brand: "Dell", Config: types.ProductConfig{Processor: "i5-8350U Intel"}},
		{Brand: "Dell", Config: types.ProductConfig{Processor: "i5-6300U Intel"}},
		{Brand: "Acer", Config: types.ProductConfig{Processor: "i7-9750H Intel"}},
	}

	kept := FilterRelevant(records)
	assert.Len(t, kept, 1)
	assert.Equal(t, "i5-8350U Intel", kept[0].Config.Processor)
}

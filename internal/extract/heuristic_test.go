package extract

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refurbtrack/price-tracker/internal/types"
)

func TestParseBrand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Dell Latitude 5400", "Dell"},
		{"HP EliteBook 840", "HP"},
		{"Hewlett-Packard ProDesk", "HP"},
		{"Lenovo ThinkPad T480", "Lenovo"},
		{"Apple MacBook Pro", ""},
		{"sharp display", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseBrand(tt.input))
		})
	}
}

func TestParsePrice(t *testing.T) {
	assert.InDelta(t, 299.99, *ParsePrice("Now $299.99!"), 1e-9)
	assert.InDelta(t, 1299, *ParsePrice("$1,299.00"), 1)
	assert.Nil(t, ParsePrice("Call for price"))
	assert.Nil(t, ParsePrice(""))
}

func TestClassifyProductType(t *testing.T) {
	assert.Equal(t, types.ProductTypeLaptop, ClassifyProductType("Dell Latitude 5400"))
	assert.Equal(t, types.ProductTypeLaptop, ClassifyProductType("14in notebook"))
	assert.Equal(t, types.ProductTypeDesktop, ClassifyProductType("OptiPlex 7060 SFF"))
	assert.Equal(t, types.ProductTypeDesktop, ClassifyProductType("ThinkCentre Tiny"))
	assert.Equal(t, types.ProductType(""), ClassifyProductType("USB-C dock"))
}

func TestExtractProcessor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Intel Core i5-8350U", "i5-8350U"},
		{"i7 8th Gen", "i7-8th gen"},
		{"AMD Ryzen 5 PRO 4650U", "Ryzen 5 4650u"},
		{"Intel Celeron N4020", "Celeron"},
		{"no cpu here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractProcessor(tt.input))
		})
	}
}

func TestExtractRAM(t *testing.T) {
	assert.Equal(t, "16GB", ExtractRAM("16GB DDR4"))
	assert.Equal(t, "8GB", ExtractRAM("8GB RAM"))
	assert.Equal(t, "32GB", ExtractRAM("Memory: 32GB"))
	// Storage sizes must not leak into RAM.
	assert.Equal(t, "", ExtractRAM("256GB SSD"))
	assert.Equal(t, "", ExtractRAM("512GB memory card"))
}

func TestExtractStorage(t *testing.T) {
	assert.Equal(t, "256GB", ExtractStorage("256GB SSD"))
	assert.Equal(t, "1TB", ExtractStorage("1TB Hard Drive"))
	assert.Equal(t, "512GB", ExtractStorage("NVMe: 512GB"))
	assert.Equal(t, "", ExtractStorage("16GB DDR4"))
}

func TestExtractCosmeticGrade(t *testing.T) {
	assert.Equal(t, "Grade A", ExtractCosmeticGrade("Grade A refurbished"))
	assert.Equal(t, "Grade B", ExtractCosmeticGrade("B Grade unit"))
	assert.Equal(t, "Grade C", ExtractCosmeticGrade("Condition: C"))
	assert.Equal(t, "", ExtractCosmeticGrade("like new"))
}

func TestExtractScreenFields(t *testing.T) {
	assert.Equal(t, "FHD (1920x1080)", ExtractScreenResolution("1920x1080 display"))
	assert.Equal(t, "4K UHD (3840x2160)", ExtractScreenResolution("4K panel"))
	assert.Equal(t, "", ExtractScreenResolution("bright screen"))

	assert.Equal(t, "15.6 inch", ExtractScreenSize(`15.6" FHD`))
	assert.Equal(t, "14 inch", ExtractScreenSize("14 inch display"))
	assert.Equal(t, "", ExtractScreenSize("widescreen"))
}

func TestExtractFormFactor(t *testing.T) {
	assert.Equal(t, "SFF", ExtractFormFactor("OptiPlex 7060 SFF"))
	assert.Equal(t, "MFF/Tiny", ExtractFormFactor("ThinkCentre M720q Tiny"))
	assert.Equal(t, "Tower", ExtractFormFactor("Precision 3650 Tower"))
	assert.Equal(t, "", ExtractFormFactor("Latitude 5400"))
}

func TestExtractModel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Dell Latitude 5400 Laptop", "Latitude 5400"},
		{"HP EliteBook 840 G5", "EliteBook 840 G5"},
		{"Lenovo ThinkPad T480", "ThinkPad T480"},
		{"Dell OptiPlex 7060 SFF Desktop", "OptiPlex 7060"},
		{"Generic PC", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractModel(tt.input))
		})
	}
}

func TestHeuristicExtract(t *testing.T) {
	text := `Sign in (/account)
Dell Latitude 5400 Laptop (/p12345-dell-latitude-5400) Intel Core i5-8350U 16GB DDR4 256GB SSD Grade A $299.99
Huge savings on all Dell products this week
HP EliteBook 840 G5 (/p67890-hp-elitebook-840) i5 8th Gen 8GB RAM 256GB SSD $249.00
Apple MacBook Air $899.00`

	ex := NewHeuristicExtractor()
	records, err := ex.Extract(context.Background(), Page{
		Competitor:  "PCLiquidations",
		ProductType: types.ProductTypeLaptop,
		Text:        text,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	dell := records[0]
	assert.Equal(t, "Dell", dell.Brand)
	assert.Equal(t, "Latitude 5400", dell.Model)
	assert.Equal(t, types.ProductTypeLaptop, dell.ProductType)
	assert.Equal(t, "/p12345-dell-latitude-5400", dell.URL)
	require.NotNil(t, dell.Price)
	assert.InDelta(t, 299.99, *dell.Price, 1e-9)
	assert.Equal(t, "i5-8350U", dell.Config.Processor)
	assert.Equal(t, "16GB", dell.Config.RAM)
	assert.Equal(t, "256GB", dell.Config.Storage)
	assert.Equal(t, "Grade A", dell.Config.CosmeticGrade)

	hp := records[1]
	assert.Equal(t, "HP", hp.Brand)
	assert.Equal(t, "EliteBook 840 G5", hp.Model)
	assert.Equal(t, "PCLiquidations", hp.Competitor)
}

func TestHeuristicExtractUnknownPriceStaysNil(t *testing.T) {
	ex := NewHeuristicExtractor()
	records, err := ex.Extract(context.Background(), Page{
		Competitor:  "DiscountPC",
		ProductType: types.ProductTypeLaptop,
		Text:        "Lenovo ThinkPad T480 14 inch - call for price",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Price)
}

func TestLongTitleTruncatesOnRuneBoundary(t *testing.T) {
	// Each "é" is two bytes; the 200-byte cut lands inside one of them.
	line := "Dell Latitude 5400 $299.99 " + strings.Repeat("é", 100)

	ex := NewHeuristicExtractor()
	records, err := ex.Extract(context.Background(), Page{
		Competitor:  "DiscountPC",
		ProductType: types.ProductTypeLaptop,
		Text:        line,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	title := records[0].Title
	assert.LessOrEqual(t, len(title), 200)
	assert.True(t, utf8.ValidString(title))
}

func TestCutAtRune(t *testing.T) {
	assert.Equal(t, "héllo", cutAtRune("héllo", 10))
	assert.Equal(t, "h", cutAtRune("héllo", 2)) // cutting mid-é backs off
	assert.Equal(t, "hé", cutAtRune("héllo", 3))
	assert.Equal(t, "", cutAtRune("é", 1))
}

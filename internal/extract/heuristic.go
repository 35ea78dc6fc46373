package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/refurbtrack/price-tracker/internal/types"
)

var (
	priceRe      = regexp.MustCompile(`\$\s*(\d+(?:\.\d{1,2})?)`)
	intelGenRe   = regexp.MustCompile(`i([3579])[\s-]?(\d{1,2})(?:st|nd|rd|th)?\s*gen(?:eration)?`)
	intelFullRe  = regexp.MustCompile(`(?:intel\s*)?(?:core\s*)?i([3579])[\s-]?(\d{4,5}[a-z]{0,2})`)
	ryzenFullRe  = regexp.MustCompile(`ryzen\s*(\d)(?:\s*pro)?\s*(\d{4}[a-z]{0,2})?`)
	ramInfoRe    = regexp.MustCompile(`(\d+)\s*gb\s*(?:ddr[3-5]?|ram|memory|sdram|lpddr)`)
	ramCtxRe     = regexp.MustCompile(`(?:ram|memory)[\s:]+(\d+)\s*gb`)
	storageRe1   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(gb|tb)\s*(?:ssd|hdd|nvme|m\.2|hard\s*drive|solid\s*state)`)
	storageRe2   = regexp.MustCompile(`(?:ssd|hdd|nvme|m\.2|storage|hard\s*drive)[\s:]+(\d+(?:\.\d+)?)\s*(gb|tb)`)
	gradeRe      = regexp.MustCompile(`(?:grade|condition|cosmetic)[\s:-]*([abc])\b`)
	gradePrefRe  = regexp.MustCompile(`\b([abc])[\s-]*grade\b`)
	screenSizeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:inch|")`)
	modelRe      = regexp.MustCompile(`(?i)(?:Latitude|Precision|OptiPlex|Inspiron|XPS|EliteBook|ProBook|ZBook|EliteDesk|ProDesk|ThinkPad|ThinkCentre|ThinkStation|IdeaPad)\s+([A-Za-z]*\s?\d+[A-Za-z0-9]*(?:\s*G\d)?)`)
	productURLRe = regexp.MustCompile(`(?i)\(((?:https?://[^\s)]+)?/(?:p\d{4,}-[a-z0-9\-]+|products?/[a-z0-9\-/]+|collections/[a-z0-9\-]+/products/[a-z0-9\-]+))\)`)
	hpWordRe     = regexp.MustCompile(`\bhp\b`)
	mtWordRe     = regexp.MustCompile(`\bmt\b`)
)

// ParseBrand picks the first allow-listed brand mentioned in text.
func ParseBrand(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "dell"):
		return "Dell"
	case strings.Contains(t, "hewlett"), hpWordRe.MatchString(t):
		return "HP"
	case strings.Contains(t, "lenovo"):
		return "Lenovo"
	}
	return ""
}

// ParsePrice extracts the first dollar amount in text. No amount means an
// unknown price, never zero.
func ParsePrice(text string) *float64 {
	cleaned := strings.ReplaceAll(text, ",", "")
	m := priceRe.FindStringSubmatch(cleaned)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// ClassifyProductType infers laptop vs desktop from listing text. Returns
// the empty string when neither family of keywords appears.
func ClassifyProductType(text string) types.ProductType {
	t := strings.ToLower(text)
	for _, kw := range []string{"laptop", "notebook", "latitude", "elitebook", "probook", "thinkpad", "zbook", "ideapad"} {
		if strings.Contains(t, kw) {
			return types.ProductTypeLaptop
		}
	}
	for _, kw := range []string{"desktop", "optiplex", "elitedesk", "prodesk", "thinkcentre", "thinkstation", "tower", "sff", "mff", "tiny", "workstation"} {
		if strings.Contains(t, kw) {
			return types.ProductTypeDesktop
		}
	}
	return ""
}

// ExtractProcessor pulls a processor description out of listing text.
func ExtractProcessor(text string) string {
	t := strings.ToLower(text)

	if m := intelGenRe.FindStringSubmatch(t); m != nil {
		return fmt.Sprintf("i%s-%sth gen", m[1], m[2])
	}
	if m := intelFullRe.FindStringSubmatch(t); m != nil {
		return fmt.Sprintf("i%s-%s", m[1], strings.ToUpper(m[2]))
	}
	if m := ryzenFullRe.FindStringSubmatch(t); m != nil {
		out := "Ryzen " + m[1]
		if m[2] != "" {
			out += " " + m[2]
		}
		return out
	}
	for _, kw := range []string{"Celeron", "Pentium", "Xeon", "Athlon"} {
		if strings.Contains(t, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}

// ExtractRAM pulls a memory size out of listing text. Sizes outside
// 1-128GB are noise from storage or SKU numbers and are ignored.
func ExtractRAM(text string) string {
	t := strings.ToLower(text)
	for _, re := range []*regexp.Regexp{ramInfoRe, ramCtxRe} {
		if m := re.FindStringSubmatch(t); m != nil {
			if size, err := strconv.Atoi(m[1]); err == nil && size >= 1 && size <= 128 {
				return m[1] + "GB"
			}
		}
	}
	return ""
}

// ExtractStorage pulls a drive capacity out of listing text.
func ExtractStorage(text string) string {
	t := strings.ToLower(text)
	for _, re := range []*regexp.Regexp{storageRe1, storageRe2} {
		if m := re.FindStringSubmatch(t); m != nil {
			return m[1] + strings.ToUpper(m[2])
		}
	}
	return ""
}

// ExtractScreenResolution maps resolution hints to a canonical label.
func ExtractScreenResolution(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "3840"), strings.Contains(t, "2160"), strings.Contains(t, "4k"), strings.Contains(t, "uhd"):
		return "4K UHD (3840x2160)"
	case strings.Contains(t, "2560"), strings.Contains(t, "1440"), strings.Contains(t, "qhd"), strings.Contains(t, "2k"):
		return "QHD (2560x1440)"
	case strings.Contains(t, "1920"), strings.Contains(t, "1080"), strings.Contains(t, "fhd"), strings.Contains(t, "full hd"):
		return "FHD (1920x1080)"
	case strings.Contains(t, "1366"), strings.Contains(t, "768"), strings.Contains(t, "hd"):
		return "HD (1366x768)"
	}
	return ""
}

// ExtractScreenSize pulls a screen diagonal like `15.6 inch` or `14"`.
func ExtractScreenSize(text string) string {
	if m := screenSizeRe.FindStringSubmatch(text); m != nil {
		return m[1] + " inch"
	}
	return ""
}

// ExtractFormFactor maps desktop chassis hints to a canonical label.
func ExtractFormFactor(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "tiny"), strings.Contains(t, "mff"), strings.Contains(t, "micro"):
		return "MFF/Tiny"
	case strings.Contains(t, "sff"), strings.Contains(t, "small form"):
		return "SFF"
	case strings.Contains(t, "tower"), mtWordRe.MatchString(t):
		return "Tower"
	}
	return ""
}

// ExtractCosmeticGrade pulls an A/B/C refurbishment grade.
func ExtractCosmeticGrade(text string) string {
	t := strings.ToLower(text)
	if m := gradeRe.FindStringSubmatch(t); m != nil {
		return "Grade " + strings.ToUpper(m[1])
	}
	if m := gradePrefRe.FindStringSubmatch(t); m != nil {
		return "Grade " + strings.ToUpper(m[1])
	}
	return ""
}

// ExtractModel pulls the model designation out of a product title,
// e.g. "Dell Latitude 5400 14in Laptop" -> "Latitude 5400".
func ExtractModel(title string) string {
	if full := modelRe.FindString(title); full != "" {
		return strings.Join(strings.Fields(full), " ")
	}
	return ""
}

// extractProductURL finds a product detail link in a text block. Links
// were inlined as "(href)" by ReduceHTML.
func extractProductURL(block string) string {
	if m := productURLRe.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}

// HeuristicExtractor builds records from reduced page text using the
// pattern helpers above. It needs no network and no credentials, and
// serves as the fallback when no extraction endpoint is configured.
type HeuristicExtractor struct{}

// NewHeuristicExtractor returns a pattern-based extractor.
func NewHeuristicExtractor() *HeuristicExtractor { return &HeuristicExtractor{} }

// Extract scans the page block by block. A block produces a record when
// it names an allow-listed brand and carries either a price or a model;
// anything weaker is navigation noise.
func (e *HeuristicExtractor) Extract(ctx context.Context, page Page) ([]types.ProductRecord, error) {
	var records []types.ProductRecord

	for _, block := range splitBlocks(page.Text) {
		brand := ParseBrand(block)
		if brand == "" {
			continue
		}
		model := ExtractModel(block)
		price := ParsePrice(block)
		if model == "" && price == nil {
			continue
		}

		productType := page.ProductType
		if productType == "" {
			productType = ClassifyProductType(block)
		}
		if productType == "" {
			continue
		}

		title := cutAtRune(firstLine(block), 200)

		records = append(records, types.ProductRecord{
			Competitor:  page.Competitor,
			Brand:       brand,
			Model:       model,
			ProductType: productType,
			Title:       title,
			Price:       price,
			URL:         extractProductURL(block),
			Config: types.ProductConfig{
				Processor:        ExtractProcessor(block),
				RAM:              ExtractRAM(block),
				Storage:          ExtractStorage(block),
				CosmeticGrade:    ExtractCosmeticGrade(block),
				FormFactor:       formFactorFor(productType, block),
				ScreenResolution: ExtractScreenResolution(block),
				ScreenSize:       screenSizeFor(productType, block),
			},
		})
	}

	return records, nil
}

// cutAtRune truncates s to at most n bytes without splitting a rune.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func formFactorFor(pt types.ProductType, block string) string {
	if pt != types.ProductTypeDesktop {
		return ""
	}
	return ExtractFormFactor(block)
}

func screenSizeFor(pt types.ProductType, block string) string {
	if pt != types.ProductTypeLaptop {
		return ""
	}
	return ExtractScreenSize(block)
}

// splitBlocks cuts reduced page text into per-listing chunks. Listing
// pages reduce to one or a few lines per product, so short line runs
// separated by blank lines are the unit of extraction.
func splitBlocks(text string) []string {
	var blocks []string
	for _, chunk := range strings.Split(text, "\n\n") {
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				blocks = append(blocks, line)
			}
		}
	}
	return blocks
}

func firstLine(block string) string {
	if i := strings.IndexByte(block, '\n'); i >= 0 {
		block = block[:i]
	}
	return strings.TrimSpace(block)
}

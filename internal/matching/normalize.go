package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	intelModelRe   = regexp.MustCompile(`i([3579])[\s-]?(\d{3,5}[a-z]{0,2}\d{0,2})`)
	ryzenRe        = regexp.MustCompile(`ryzen\s*(\d)(?:\s*pro)?[\s-]*(\d{4}[a-z]{0,2})?`)
	ramRe          = regexp.MustCompile(`(\d+)\s*(gb|mb)`)
	storageRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(tb|gb|mb)`)
	bareNumberRe   = regexp.MustCompile(`(\d+)`)
	modelSeriesRe  = regexp.MustCompile(`(?:thinkpad|thinkcentre|thinkstation|latitude|precision|optiplex|inspiron|xps|elitebook|probook|zbook|elitedesk|prodesk|pavilion|ideapad)\s+([a-z0-9][a-z0-9\- ]*)`)
	modelNumericRe = regexp.MustCompile(`([a-z]+\s*\d+[a-z0-9]*)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// NormalizeBrand maps brand spellings to a canonical lowercase form.
// "Hewlett-Packard" and friends collapse to "hp".
func NormalizeBrand(brand string) string {
	b := strings.ToLower(strings.TrimSpace(brand))
	switch {
	case strings.Contains(b, "dell"):
		return "dell"
	case b == "hp" || strings.Contains(b, "hewlett"):
		return "hp"
	case strings.Contains(b, "lenovo"):
		return "lenovo"
	}
	return b
}

// NormalizeModel reduces a free-text model designation to its core form,
// lowercased with internal whitespace removed. The rule is uniform across
// every model family; no family gets bespoke handling, so distinct
// configurations of the same line never collapse by fiat.
func NormalizeModel(model string) string {
	m := stripMarks(strings.ToLower(strings.TrimSpace(model)))
	if m == "" {
		return ""
	}

	if match := modelSeriesRe.FindStringSubmatch(m); match != nil {
		return strings.ReplaceAll(strings.TrimSpace(match[1]), " ", "")
	}
	if match := modelNumericRe.FindStringSubmatch(m); match != nil {
		return strings.ReplaceAll(match[1], " ", "")
	}
	return strings.ReplaceAll(m, " ", "")
}

// NormalizeProcessor canonicalizes a processor description while keeping
// the specific model digits, e.g. "Intel Core i5-8350U" -> "i5-8350u",
// "AMD Ryzen 5 PRO 4650U" -> "ryzen5-4650u".
func NormalizeProcessor(processor string) string {
	p := strings.ToLower(strings.TrimSpace(processor))
	if p == "" {
		return ""
	}

	if match := intelModelRe.FindStringSubmatch(p); match != nil {
		return "i" + match[1] + "-" + match[2]
	}
	if match := ryzenRe.FindStringSubmatch(p); match != nil {
		out := "ryzen" + match[1]
		if match[2] != "" {
			out += "-" + match[2]
		}
		return out
	}

	for _, family := range []string{"celeron", "pentium", "xeon", "athlon"} {
		if strings.Contains(p, family) {
			return family
		}
	}

	p = whitespaceRe.ReplaceAllString(p, " ")
	if len(p) > 30 {
		p = p[:30]
	}
	return p
}

// NormalizeRAM reduces a RAM description to "<size>gb" / "<size>mb".
func NormalizeRAM(ram string) string {
	r := strings.ToLower(strings.TrimSpace(ram))
	if r == "" {
		return ""
	}
	if match := ramRe.FindStringSubmatch(r); match != nil {
		return match[1] + match[2]
	}
	if match := bareNumberRe.FindStringSubmatch(r); match != nil {
		return match[1] + "gb"
	}
	if len(r) > 20 {
		r = r[:20]
	}
	return r
}

// NormalizeStorage reduces a storage description to "<size><unit>",
// e.g. "256GB SSD" -> "256gb", "1TB NVMe" -> "1tb". The drive technology
// is dropped; capacity is what distinguishes configurations.
func NormalizeStorage(storage string) string {
	s := strings.ToLower(strings.TrimSpace(storage))
	if s == "" {
		return ""
	}
	if match := storageRe.FindStringSubmatch(s); match != nil {
		return match[1] + match[2]
	}
	if strings.Contains(s, "ssd") || strings.Contains(s, "hdd") || strings.Contains(s, "nvme") || strings.Contains(s, "sata") {
		if match := bareNumberRe.FindStringSubmatch(s); match != nil {
			return match[1] + "gb"
		}
	}
	if len(s) > 30 {
		s = s[:30]
	}
	return s
}

// stripMarks removes combining marks after NFD decomposition so listings
// with decorated characters reduce to plain key material.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

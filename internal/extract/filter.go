package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/refurbtrack/price-tracker/internal/types"
)

// MinIntelGeneration is the oldest Intel CPU generation worth tracking.
const MinIntelGeneration = 8

var (
	genWordRe   = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)\s*gen`)
	genModelRe  = regexp.MustCompile(`\bi[3579]-?(\d{4,5})`)
	genLooseRe  = regexp.MustCompile(`\bi[3579]\s*(\d{1,2})\w*\s*gen`)
	intelHintRe = regexp.MustCompile(`intel|core\s*i|\bi[3579][\s-]?\d`)
)

// IntelGeneration parses the Intel CPU generation out of free text.
// Returns 0 when the text does not confidently describe an Intel CPU;
// unknown is distinct from old, and the caller decides what to do with it.
func IntelGeneration(text string) int {
	t := strings.ToLower(text)
	if !intelHintRe.MatchString(t) {
		return 0
	}

	if m := genWordRe.FindStringSubmatch(t); m != nil {
		if gen, err := strconv.Atoi(m[1]); err == nil && gen >= 1 && gen <= 20 {
			return gen
		}
	}

	// Model digits encode the generation: 8350U is 8th, 10310U is 10th.
	if m := genModelRe.FindStringSubmatch(t); m != nil {
		digits := m[1]
		var gen int
		if len(digits) >= 5 {
			gen, _ = strconv.Atoi(digits[:2])
		} else {
			gen, _ = strconv.Atoi(digits[:1])
		}
		if gen >= 1 && gen <= 20 {
			return gen
		}
	}

	if m := genLooseRe.FindStringSubmatch(t); m != nil {
		if gen, err := strconv.Atoi(m[1]); err == nil && gen >= 1 && gen <= 20 {
			return gen
		}
	}

	return 0
}

// IsRelevant applies the tracking rule: allow-listed brands with Intel
// CPUs of the minimum generation or newer. Records whose generation
// cannot be verified are dropped rather than guessed at.
func IsRelevant(r types.ProductRecord) bool {
	if !types.IsAllowedBrand(r.Brand) {
		return false
	}

	cpuText := r.Config.Processor
	if cpuText == "" {
		cpuText = r.Title + " " + r.Model
	}

	return IntelGeneration(cpuText) >= MinIntelGeneration
}

// FilterRelevant keeps only records passing IsRelevant, preserving order.
func FilterRelevant(records []types.ProductRecord) []types.ProductRecord {
	out := records[:0:0]
	for _, r := range records {
		if IsRelevant(r) {
			out = append(out, r)
		}
	}
	return out
}

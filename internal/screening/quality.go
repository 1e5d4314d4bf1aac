package screening

import (
	"time"

	"github.com/joelkehle/litreview/internal/paper"
)

type QualityConfig struct {
	DateRangeYears   int
	MinAbstractWords int
}

type QualityChecker struct {
	// now is swappable so tests can pin the year boundary.
	now func() time.Time
}

func NewQualityChecker() *QualityChecker {
	return &QualityChecker{now: time.Now}
}

// Filter drops records with no abstract, too short an abstract, no year, or a
// year at or before the cutoff (current year minus DateRangeYears). The
// cutoff year itself is rejected. Order-preserving.
func (q *QualityChecker) Filter(papers []paper.Paper, cfg QualityConfig) []paper.Paper {
	minYear := q.now().Year() - cfg.DateRangeYears
	var filtered []paper.Paper
	for _, p := range papers {
		if !p.HasAbstract() {
			continue
		}
		if p.AbstractWordCount() < cfg.MinAbstractWords {
			continue
		}
		if p.Year == nil {
			continue
		}
		if *p.Year <= minYear {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

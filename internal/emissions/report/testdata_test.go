package report

import (
	"time"

	"github.com/yungbote/emission-report/internal/emissions/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(model, material string, category int, total float64, created time.Time) domain.EmissionRecord {
	return domain.EmissionRecord{
		ModelNodeName:         model,
		ParentHierarchyID:     "H-" + model,
		MaterialNumber:        material,
		CountryCode:           "DE",
		CategoryID:            category,
		CategoryName:          "Printers",
		SourceCreateTimestamp: domain.NewTimestamp(created),
		Total:                 total,
		TotalLowerBound:       total * 0.9,
		TotalUpperBound:       total * 1.1,
	}
}

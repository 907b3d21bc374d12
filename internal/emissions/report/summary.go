package report

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/yungbote/emission-report/internal/emissions/domain"
)

// sumContext carries enough precision that per-group totals stay exact for
// any realistic record count.
var sumContext = apd.BaseContext.WithPrecision(34)

// Summarize groups records by model and by model+material, summing Total.
// Keys are used verbatim; no trimming or case folding.
func Summarize(records []domain.EmissionRecord) (*domain.ReportSummary, error) {
	byModel, err := sumBy(records, func(r domain.EmissionRecord) string {
		return r.ModelNodeName
	})
	if err != nil {
		return nil, err
	}
	byModelMaterial, err := sumBy(records, ModelMaterialKey)
	if err != nil {
		return nil, err
	}

	return &domain.ReportSummary{
		TotalRecords: len(records),
		EmissionsByModel: domain.SummarySection{
			Title: domain.TitleByModel,
			Unit:  domain.EmissionUnit,
			Data:  byModel,
		},
		EmissionsByModelAndMaterial: domain.SummarySection{
			Title: domain.TitleByModelAndMaterial,
			Unit:  domain.EmissionUnit,
			Data:  byModelMaterial,
		},
	}, nil
}

func ModelMaterialKey(r domain.EmissionRecord) string {
	return r.ModelNodeName + " - " + r.MaterialNumber
}

func sumBy(records []domain.EmissionRecord, key func(domain.EmissionRecord) string) (map[string]float64, error) {
	sums := make(map[string]*apd.Decimal)
	for i, r := range records {
		if math.IsNaN(r.Total) || math.IsInf(r.Total, 0) {
			return nil, fmt.Errorf("record %d (material %q): non-finite total %v", i, r.MaterialNumber, r.Total)
		}
		var v apd.Decimal
		if _, err := v.SetFloat64(r.Total); err != nil {
			return nil, fmt.Errorf("record %d (material %q): invalid total %v: %w", i, r.MaterialNumber, r.Total, err)
		}
		k := key(r)
		acc, ok := sums[k]
		if !ok {
			acc = new(apd.Decimal)
			sums[k] = acc
		}
		if _, err := sumContext.Add(acc, acc, &v); err != nil {
			return nil, fmt.Errorf("sum %q: %w", k, err)
		}
	}

	out := make(map[string]float64, len(sums))
	for k, d := range sums {
		f, err := d.Float64()
		if err != nil {
			return nil, fmt.Errorf("sum %q overflows float64: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}

package domain

const EmissionUnit = "kgCO2"

const (
	TitleByModel            = "Total Emissions by Model"
	TitleByModelAndMaterial = "Total Emissions by Model and Material Number"
)

// SummarySection is one titled grouping of summed totals.
type SummarySection struct {
	Title string             `json:"title"`
	Unit  string             `json:"unit"`
	Data  map[string]float64 `json:"data"`
}

type ReportSummary struct {
	TotalRecords                int            `json:"totalRecords"`
	EmissionsByModel            SummarySection `json:"emissionsByModel"`
	EmissionsByModelAndMaterial SummarySection `json:"emissionsByModelAndMaterialNumber"`
}

package domain

// EmissionRecord is one carbon-footprint entry for a material as served by
// the upstream store. Field order is the export column order.
type EmissionRecord struct {
	ModelNodeName     string `json:"material_Hierarchy_Model_Node_Name" csv:"Material_Hierarchy_Model_Node_Name"`
	ParentHierarchyID string `json:"material_Hierarchy_Parent_Hierarchy_Identifier" csv:"Material_Hierarchy_Parent_Hierarchy_Identifier"`

	MaterialNumber string `json:"material_Number" csv:"Material_Number"`
	CountryCode    string `json:"iso_Country_Code" csv:"Iso_Country_Code"`

	CategoryID   int    `json:"category_ID" csv:"Category_ID"`
	CategoryName string `json:"category_Name" csv:"Category_Name"`

	SourceCreateTimestamp    Timestamp `json:"source_Create_Timestamp" csv:"Source_Create_Timestamp"`
	LogicalDeletionIndicator bool      `json:"logical_Deletion_Indicator" csv:"Logical_Deletion_Indicator"`

	// Components, kgCO2.
	Production  float64 `json:"production_Rounded_KgCO2" csv:"Production_Rounded_KgCO2"`
	Transport   float64 `json:"transport_Rounded_KgCO2" csv:"Transport_Rounded_KgCO2"`
	EnergyUse   float64 `json:"energy_Use_Rounded_KgCO2" csv:"Energy_Use_Rounded_KgCO2"`
	EOL         float64 `json:"eol_Rounded_KgCO2" csv:"Eol_Rounded_KgCO2"`
	Cartridges  float64 `json:"cartridges_Rounded_KgCO2" csv:"Cartridges_Rounded_KgCO2"`
	Consumables float64 `json:"consumables_Rounded_KgCO2" csv:"Consumables_Rounded_KgCO2"`
	Paper       float64 `json:"paper_Rounded_KgCO2" csv:"Paper_Rounded_KgCO2"`

	// Expected TotalLowerBound <= Total <= TotalUpperBound; not enforced here.
	Total           float64 `json:"total_Rounded_KgCO2" csv:"Total_Rounded_KgCO2"`
	TotalLowerBound float64 `json:"total_Lower_Bounds_KgCO2" csv:"Total_Lower_Bounds_KgCO2"`
	TotalUpperBound float64 `json:"total_Upper_Bounds_KgCO2" csv:"Total_Upper_Bounds_KgCO2"`

	SourceSystemUpdateTimestamp Timestamp `json:"source_System_Update_Timestamp" csv:"Source_System_Update_Timestamp"`
	InsertTimestamp             Timestamp `json:"insert_Gmt_Timestamp" csv:"Insert_Gmt_Timestamp"`
}

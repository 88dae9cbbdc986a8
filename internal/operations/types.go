package operations

// Pipeline step identifiers, in execution order
const (
	StepIDDiscover    = "discover"
	StepIDReference   = "reference"
	StepIDRead        = "read"
	StepIDExtract     = "extract"
	StepIDNormalize   = "normalize"
	StepIDCompare     = "compare"
	StepIDSensitivity = "sensitivity"
	StepIDExport      = "export"
	StepIDRender      = "render"
)

// Pipeline step names
const (
	StepNameDiscover    = "File Discovery"
	StepNameReference   = "Reference Index"
	StepNameRead        = "Monthly Extracts"
	StepNameExtract     = "Series Extraction"
	StepNameNormalize   = "Normalisation"
	StepNameCompare     = "Before/After Comparison"
	StepNameSensitivity = "Sensitivity Sweep"
	StepNameExport      = "Report Export"
	StepNameRender      = "Chart Rendering"
)

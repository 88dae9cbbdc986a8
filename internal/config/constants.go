package config

// Application constants - the fixed parameters of the tampon VAT analysis
const (
	// Application Info
	AppName    = "priceshift"
	AppVersion = "1.0.0"

	// MonthLayout is the ISO year-month form used in configuration
	MonthLayout = "2006-01"

	// File Paths (relative to the run directory)
	DefaultDataDir    = "ONS_data"
	DefaultReportsDir = "reports"
	DefaultChartsDir  = "reports/charts"
	DefaultLogsDir    = "logs"

	// Well-known files
	DefaultLogFile     = "priceshift.log"
	DefaultTraceFile   = "trace.json"
	DefaultMetricsFile = "priceshift.prom"

	// ONS item index extracts: upload-itemindicesYYYYMM.csv
	DefaultFilePrefix           = "upload-itemindices"
	DefaultReferenceFile        = "CPI.csv"
	DefaultDescriptionColumn    = "ITEM_DESC"
	DefaultIndexColumn          = "ALL_GM_INDEX"
	DefaultReferenceLabelColumn = "Month"
	DefaultReferenceIndexColumn = "Index"
	DefaultReferenceName        = "CPI"

	// Analysis parameters. VAT on tampons was abolished on 1 January 2021,
	// so December 2020 is the last month before the change.
	DefaultBaselineMonth    = "2020-12"
	DefaultPolicyDate       = "2021-01-01"
	DefaultPolicyLabel      = "5% VAT on tampons abolished"
	DefaultTTestWindow      = 6
	DefaultChangeWindow     = 15
	DefaultSensitivityShift = 0.01

	// Chart titles start with this prefix
	DefaultChartTitle = "The 5% tampon VAT cut"

	// Basket
	DefaultTarget       = "TAMPONS-PACK OF 10-20"
	DefaultTShirtSeries = "TSHIRT-AVERAGE"
)

// defaultGoods are the comparison goods, cotton products and toiletries,
// in alphabetical order
var defaultGoods = []string{
	"BABY WIPES 50-85",
	"BOYS T-SHIRT 3-13 YEARS",
	"DISP NAPPIES, SPEC TYPE, 20-60",
	"KITCHEN ROLL PK OF 2-4 SPECIFY",
	"MEN'S T-SHIRT SHORT SLEEVED",
	"PLASTERS-20-40 PACK",
	"RAZOR CARTRIDGE BLADES",
	"SHEET OF WRAPPING PAPER",
	"TISSUES-LARGE SIZE BOX",
	"TOILET ROLLS",
	"TOOTHBRUSH",
	"TOOTHPASTE (SPECIFY SIZE)",
	"WOMENS BASIC PLAIN T-SHIRT",
}

// DefaultBasket returns a fresh copy of the default basket
func DefaultBasket() BasketConfig {
	goods := make([]string, len(defaultGoods))
	copy(goods, defaultGoods)

	return BasketConfig{
		Target: DefaultTarget,
		Goods:  goods,
		Derived: []DerivedSeries{
			{
				Name: DefaultTShirtSeries,
				Components: []string{
					"WOMENS BASIC PLAIN T-SHIRT",
					"MEN'S T-SHIRT SHORT SLEEVED",
					"BOYS T-SHIRT 3-13 YEARS",
				},
			},
		},
	}
}

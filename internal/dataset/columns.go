package dataset

// Column names in the unified energy dataset.
//
// The dataset carries one day-ahead power price column per market code,
// one gas price column per hub index, and a single carbon price column.
const (
	TimestampColumn = "Datetime"
	CarbonColumn    = "EUA Prices"
)

// Markets are the supported power-market codes.
var Markets = []string{"FR", "BE"}

// GasIndexes are the supported gas hub index codes.
var GasIndexes = []string{"PEG", "TTF", "THE", "CEGH VTP", "CZ VTP", "ETF", "NBP", "PVB", "ZTP"}

// IsMarket reports whether code is a supported power-market column.
func IsMarket(code string) bool {
	return contains(Markets, code)
}

// IsGasIndex reports whether code is a supported gas-index column.
func IsGasIndex(code string) bool {
	return contains(GasIndexes, code)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

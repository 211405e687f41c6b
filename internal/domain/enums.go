package domain

// FileFormat represents the supported upload formats.
type FileFormat string

const (
	FileFormatCSV  FileFormat = "csv"
	FileFormatTSV  FileFormat = "tsv"
	FileFormatXLSX FileFormat = "xlsx"
)

// AllowedExtensions maps file extensions (without dot) to FileFormat.
var AllowedExtensions = map[string]FileFormat{
	"csv":  FileFormatCSV,
	"tsv":  FileFormatTSV,
	"tab":  FileFormatTSV,
	"xlsx": FileFormatXLSX,
	"xlsm": FileFormatXLSX,
}

// CategoryUnknown is the category reported for unclassified files.
const CategoryUnknown = "UNKNOWN"

// Model categories used by the builtin registry.
const (
	CategoryHR      = "HR"
	CategoryPayroll = "PAYROLL"
	CategoryTime    = "TIME"
)

package output

// Output format names accepted by --output.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatXLSX  = "xlsx"
)

// Formats lists every supported format in help order.
var Formats = []string{FormatText, FormatJSON, FormatJSONL, FormatXLSX}

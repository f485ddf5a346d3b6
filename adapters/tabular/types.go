package tabular

// RawRowData represents one file row as header→cell string pairs
type RawRowData map[string]string

// TableData represents a complete results file after reading
type TableData struct {
	Headers []string     // Column headers, renames already applied
	Rows    []RawRowData // Data rows keyed by the renamed headers
}

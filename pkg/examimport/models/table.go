package models

// Table is a header row plus the data rows that follow it.
type Table struct {
	// Name identifies the source (file name or sheet name).
	Name string `json:"name"`
	// Headers are the raw header cells in column order.
	Headers []string `json:"headers"`
	// Rows are the data rows in file order.
	Rows []Row `json:"rows"`
}

// Row is one data row with positional values.
type Row struct {
	// Line is the 1-based line (or sheet row) the data came from.
	Line int `json:"line"`
	// Values are the raw cell texts aligned with Table.Headers.
	Values []string `json:"values"`
}

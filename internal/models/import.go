package models

// RowError records why one spreadsheet row was rejected during bulk import.
// Row is the 1-based row number in the workbook, header included.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport is the per-batch outcome of a bulk student import. Counts are
// authoritative; consumers must not recompute them from ErrorDetails.
type ImportReport struct {
	Imported       int        `json:"imported"`
	Failed         int        `json:"failed"`
	PhotosUploaded int        `json:"photosUploaded,omitempty"`
	ErrorDetails   []RowError `json:"errorDetails,omitempty"`
}

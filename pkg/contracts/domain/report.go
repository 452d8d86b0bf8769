package domain

// Column positions in the attendance register. The register has a fixed
// layout shared by both cell renderings; the first row is a header.
const (
	ColDay = iota
	ColDate
	ColLocation
	ColAttendance
	ColMode
	ColName
	ColArrival
	ColTopic
	ColSpeaker
	ColReading
	ColStart
	ColEnd

	ColumnCount
)

// Table holds the two parallel renderings of the source register:
// Values carries underlying cell values (numeric serials, typed dates,
// raw strings) and Display carries the human-formatted text for the
// same cells. Both are row-major and include the header row.
type Table struct {
	Values  [][]any
	Display [][]string
}

// Row is one register line with both renderings already split into
// named fields. Date and attendance are kept in underlying form because
// parsing must not depend on display formatting; everything else is
// display text passed through verbatim.
type Row struct {
	Day        string
	DateValue  any
	DateText   string
	Location   string
	Attendance any
	Detail     EventDetail
}

// EventDetail is the bundle of display fields stored as one pivot cell.
type EventDetail struct {
	Mode       string `json:"mode"`
	Name       string `json:"name"`
	Arrival    string `json:"arrival"`
	Topic      string `json:"topic"`
	Speaker    string `json:"speaker"`
	Reading    string `json:"reading"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Attendance string `json:"attendance"`
}

// NormalizedRow is a register row whose date cell survived
// normalization. Date is always canonical yyyy-MM-dd in the configured
// time zone.
type NormalizedRow struct {
	Row  Row
	Date string
}

// Month returns the yyyy-MM prefix of the canonical date.
func (n NormalizedRow) Month() string {
	if len(n.Date) < 7 {
		return ""
	}
	return n.Date[:7]
}

// AverageNotApplicable is emitted when a location has no numeric
// attendance values to average.
const AverageNotApplicable = "N/A"

// PivotRow is one output line of a weekday pivot: a location with its
// per-date cells and running attendance average.
type PivotRow struct {
	Location      string                 `json:"location"`
	IsHighlighted bool                   `json:"is_highlighted"`
	DateData      map[string]EventDetail `json:"date_data"`
	Average       string                 `json:"average"`
	IsMissingData bool                   `json:"is_missing_data"`
}

// PivotResult is the matrix-shaped view for one weekday bucket.
// SortedDates holds the display-formatted date keys in chronological
// order of their underlying ISO dates; every DateData key of every row
// appears in SortedDates.
type PivotResult struct {
	Rows        []PivotRow `json:"rows"`
	SortedDates []string   `json:"sorted_dates"`
}

// SpecialEvent is one flattened entry of the catch-all bucket.
type SpecialEvent struct {
	Date     string `json:"date"`
	Day      string `json:"day"`
	Location string `json:"location"`
	EventDetail
}

// ReportData is the full pipeline output handed to rendering and export
// collaborators.
type ReportData struct {
	SelectedMonth   string         `json:"selected_month"`
	AvailableMonths []string       `json:"available_months"`
	Sunday          PivotResult    `json:"sunday"`
	Wednesday       PivotResult    `json:"wednesday"`
	SpecialEvents   []SpecialEvent `json:"special_events"`
}

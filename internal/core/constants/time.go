package constants

const (
	// Tick label layout on the time axis
	TickTimeFormat = "2006-01-02 15:04"

	// Tick label rotation in degrees
	TickLabelRotation = 45.0

	// Layout used when the pivoted table is dumped
	TableTimeFormat = "2006-01-02T15:04:05"
)

// TimestampLayouts lists the timestamp layouts accepted in breakdown files,
// tried in order. Layouts without a zone are read in the configured timezone.
var TimestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02_15:04:05",
	"2006-01-02_15:04",
	"2006-01-02",
}

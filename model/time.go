package model

import (
	"fmt"
	"time"
)

// STAC catalogs are not uniform about datetime formatting: some emit
// fractional seconds, some a bare offset-less stamp. We need lenient
// "multi-format" parsing functionality, implemented here.

// StandardTimeLayout is the preferred format when formatting datetimes
// for catalog queries and artifact metadata
const StandardTimeLayout = "2006-01-02T15:04:05.999999999Z" // time.RFC3339Nano, without actual Z offset

var stacTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseStacTime is a drop-in replacement for time.Parse, but matching against
// multiple possible STAC datetime formats
func ParseStacTime(stacTime string) (time.Time, error) {
	for _, layout := range stacTimeLayouts {
		if output, err := time.Parse(layout, stacTime); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("Date could not be parsed by any expected time format: `%s`", stacTime)
}

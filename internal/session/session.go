package session

import (
	"time"

	"github.com/zombor/codebook/internal/scanning"
)

// Record is one detected symbol: its decoded text plus geometry and
// provenance metadata.
type Record struct {
	Data      string           `json:"data"`
	Symbology string           `json:"type"`
	Rect      scanning.Rect    `json:"rect"`
	Polygon   []scanning.Point `json:"polygon"`
	Source    string           `json:"source"`
	Timestamp time.Time        `json:"timestamp"`
}

// Session accumulates records from one or more scan operations before
// export. Timestamps are kept monotonically non-decreasing in append
// order.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Records   []Record  `json:"records"`
}

// Add appends records, clamping any timestamp that runs behind the
// previous record's.
func (s *Session) Add(records ...Record) {
	for _, r := range records {
		if n := len(s.Records); n > 0 && r.Timestamp.Before(s.Records[n-1].Timestamp) {
			r.Timestamp = s.Records[n-1].Timestamp
		}
		s.Records = append(s.Records, r)
	}
}

// Total returns the number of accumulated records
func (s *Session) Total() int {
	return len(s.Records)
}

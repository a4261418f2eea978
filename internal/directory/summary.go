package directory

import "faculty-locator-backend/internal/model"

// Counts tallies records by status. Total always equals the sum of the others.
type Counts struct {
	Available int `json:"available"`
	Teaching  int `json:"teaching"`
	Meeting   int `json:"meeting"`
	Offline   int `json:"offline"`
	Total     int `json:"total"`
}

// SummaryCounts tallies the status of every record. Records with an
// unrecognized status count as offline.
func SummaryCounts(records []model.PresenceRecord) Counts {
	var c Counts
	for _, rec := range records {
		switch rec.Status {
		case model.StatusAvailable:
			c.Available++
		case model.StatusTeaching:
			c.Teaching++
		case model.StatusMeeting:
			c.Meeting++
		default:
			c.Offline++
		}
	}
	c.Total = c.Available + c.Teaching + c.Meeting + c.Offline
	return c
}

// Summary tallies the directory's members over one snapshot.
func (d *Directory) Summary() Counts {
	snap := d.records.Snapshot()
	records := make([]model.PresenceRecord, 0, len(d.members))
	for _, m := range d.members {
		records = append(records, recordFor(snap, m.ID))
	}
	return SummaryCounts(records)
}

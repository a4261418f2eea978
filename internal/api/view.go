package api

import (
	"time"

	"github.com/dustin/go-humanize"

	"faculty-locator-backend/internal/directory"
	"faculty-locator-backend/internal/model"
	"faculty-locator-backend/internal/presence"
)

type presenceView struct {
	model.PresenceRecord
	StatusText string `json:"statusText"`
	Elapsed    string `json:"elapsed,omitempty"`
	LastSeen   string `json:"lastSeen,omitempty"`
}

type facultyView struct {
	model.FacultyMember
	Presence presenceView `json:"presence"`
}

type buildingView struct {
	model.Building
	Members []facultyView `json:"members"`
}

func newPresenceView(rec model.PresenceRecord, now time.Time) presenceView {
	v := presenceView{
		PresenceRecord: rec,
		StatusText:     presence.DisplayStatusText(rec.Status),
	}
	if d, ok := presence.ElapsedSince(rec, now); ok {
		v.Elapsed = presence.FormatElapsed(d)
	}
	if !rec.LastSeenAt.IsZero() {
		v.LastSeen = humanize.RelTime(rec.LastSeenAt, now, "ago", "from now")
	}
	return v
}

func newFacultyView(e directory.Entry, now time.Time) facultyView {
	return facultyView{
		FacultyMember: e.Member,
		Presence:      newPresenceView(e.Record, now),
	}
}

func newFacultyViews(entries []directory.Entry, now time.Time) []facultyView {
	out := make([]facultyView, len(entries))
	for i, e := range entries {
		out[i] = newFacultyView(e, now)
	}
	return out
}

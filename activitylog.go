package main

import (
	"bytes"
	"encoding/csv"
	"time"
)

type EntryStatus string

const (
	StatusSuccess EntryStatus = "Success"
	StatusSkipped EntryStatus = "Skipped"
	StatusFailed  EntryStatus = "Failed"
)

// ActivityEntry is one per-recipient outcome. The ordered sequence for a
// job is the operator-facing audit trail.
type ActivityEntry struct {
	Time    time.Time
	Code    string
	Name    string
	EmailTo string
	EmailCC string
	Status  EntryStatus
	Error   string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// renderActivityCSV serializes the log as BOM-prefixed UTF-8 CSV so
// spreadsheet viewers render non-ASCII names correctly.
func renderActivityCSV(entries []ActivityEntry) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	w.Write([]string{"Time", "Code", "Name", "Email To", "Email CC", "Status", "Error"})
	for _, e := range entries {
		w.Write([]string{
			e.Time.Format("2006-01-02 15:04:05"),
			e.Code,
			e.Name,
			e.EmailTo,
			e.EmailCC,
			string(e.Status),
			e.Error,
		})
	}
	w.Flush()
	return buf.Bytes()
}

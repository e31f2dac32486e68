package domain

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	// MinAttendance is the noise threshold: sessions this short or shorter are dropped.
	MinAttendance = 10 * time.Second
	// TimestampLayout renders DD/MM/YYYY, HH:MM:SS.
	TimestampLayout = "02/01/2006, 15:04:05"
)

// CSVHeader is the fixed column order of exported files.
var CSVHeader = []string{"nickname", "connected", "disconnected", "was_in_call"}

// SessionRecord is one participant connection as served by the room service.
type SessionRecord struct {
	SocketID         string `json:"-"`
	ConnectedTime    int64  `json:"connectedTime"`    // epoch millis
	DisconnectedTime *int64 `json:"disconnectedTime"` // epoch millis, nil while still connected
	Nickname         string `json:"nickname"`
}

// Sessions is the export feed: socket id -> record, in feed order.
type Sessions []SessionRecord

// UnmarshalJSON decodes the socket id keyed object keeping its order.
func (s *Sessions) UnmarshalJSON(data []byte) error {
	*s = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sessions: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		socketID, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sessions: expected string key, got %v", tok)
		}
		var rec SessionRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("sessions: record %q: %w", socketID, err)
		}
		rec.SocketID = socketID
		*s = append(*s, rec)
	}
	_, err = dec.Token()
	return err
}

// ReportRow is the human-readable summary of one session.
type ReportRow struct {
	Nickname     string        `json:"nickname"`
	Connected    string        `json:"connected"`
	Disconnected *string       `json:"disconnected"`
	WasInCall    string        `json:"was_in_call"`
	Duration     time.Duration `json:"-"`
}

// Report is the attendance report of a room.
// Available is false when the room service returned no data.
type Report struct {
	RoomID    string      `json:"room_id"`
	Available bool        `json:"available"`
	Rows      []ReportRow `json:"rows"`
}

// ReportBuilder turns session records into report rows.
type ReportBuilder struct {
	Now      func() time.Time
	Location *time.Location
}

// NewReportBuilder creates a builder using the wall clock and local time.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{Now: time.Now, Location: time.Local}
}

// Build converts sessions in order, dropping those of MinAttendance or less.
// Open sessions last until now.
func (b *ReportBuilder) Build(sessions Sessions) []ReportRow {
	rows := make([]ReportRow, 0, len(sessions))
	for _, rec := range sessions {
		connected := time.UnixMilli(rec.ConnectedTime).In(b.Location)

		var (
			duration     time.Duration
			disconnected *string
		)
		if rec.DisconnectedTime != nil {
			dt := time.UnixMilli(*rec.DisconnectedTime).In(b.Location)
			duration = dt.Sub(connected)
			formatted := dt.Format(TimestampLayout)
			disconnected = &formatted
		} else {
			duration = b.Now().Sub(connected)
		}

		if duration <= MinAttendance {
			continue
		}

		rows = append(rows, ReportRow{
			Nickname:     rec.Nickname,
			Connected:    connected.Format(TimestampLayout),
			Disconnected: disconnected,
			WasInCall:    FormatDuration(duration),
			Duration:     duration,
		})
	}
	return rows
}

// FormatDuration renders d as "H hours, M minutes, S seconds".
// Seconds are truncated; every unit is always present.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d hours, %d minutes, %d seconds", h, m, s)
}

// WriteCSV writes the header and one record per row.
// A session still open has an empty disconnected field.
func WriteCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		disconnected := ""
		if row.Disconnected != nil {
			disconnected = *row.Disconnected
		}
		if err := cw.Write([]string{row.Nickname, row.Connected, disconnected, row.WasInCall}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes rows to path, replacing any existing file.
func WriteCSVFile(path string, rows []ReportRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()

	if err := WriteCSV(f, rows); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ExportFetcher fetches the raw export feed of a room.
// ok is false when the service gave no usable answer.
type ExportFetcher interface {
	FetchExport(ctx context.Context, roomID string) (sessions Sessions, ok bool)
}

// ExportService resolves a token, fetches its export and builds the report.
type ExportService struct {
	resolver *RoomResolver
	fetcher  ExportFetcher
	builder  *ReportBuilder
}

// NewExportService wires the export pipeline.
func NewExportService(resolver *RoomResolver, fetcher ExportFetcher, builder *ReportBuilder) *ExportService {
	return &ExportService{resolver: resolver, fetcher: fetcher, builder: builder}
}

// Export builds the report for token. When csvPath is set and data is
// available the rows are also written there. A failed fetch is not an error:
// the report comes back with Available=false.
func (s *ExportService) Export(ctx context.Context, token, csvPath string) (Report, error) {
	report := Report{RoomID: s.resolver.RoomID(token)}

	sessions, ok := s.fetcher.FetchExport(ctx, report.RoomID)
	if !ok {
		return report, nil
	}
	report.Available = true
	report.Rows = s.builder.Build(sessions)

	if csvPath != "" {
		if err := WriteCSVFile(csvPath, report.Rows); err != nil {
			return report, err
		}
	}
	return report, nil
}

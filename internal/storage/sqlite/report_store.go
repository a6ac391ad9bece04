// Package sqlite persists analysis reports. Summary scalars are stored as
// columns for cheap listing; the full report rides along as JSON.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/shuttle.report/internal/badminton"
)

// StoredReport is a persisted analysis run: identity and summary columns
// plus the full report payload.
type StoredReport struct {
	ReportID             string            `json:"report_id"`
	Source               string            `json:"source"`
	FPS                  float64           `json:"fps"`
	FramesProcessed      int               `json:"frames_processed"`
	TotalShots           int               `json:"total_shots"`
	TotalRallies         int               `json:"total_rallies"`
	ShuttleHits          int               `json:"shuttle_hits"`
	PlayerDetectionRate  float64           `json:"player_detection_rate"`
	ShuttleDetectionRate *float64          `json:"shuttle_detection_rate,omitempty"`
	AvgConfidence        float64           `json:"avg_confidence"`
	Report               *badminton.Report `json:"report,omitempty"`
	CreatedAt            int64             `json:"created_at"`
}

// ReportStore provides persistence for analysis reports.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a ReportStore backed by the given database.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Insert persists a report produced for the given source at the given frame
// rate. If ReportID is empty a UUID is generated; the populated StoredReport
// is returned.
func (s *ReportStore) Insert(source string, fps float64, report *badminton.Report) (*StoredReport, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	stored := &StoredReport{
		ReportID:             uuid.New().String(),
		Source:               source,
		FPS:                  fps,
		FramesProcessed:      report.Summary.FramesProcessed,
		TotalShots:           report.Summary.TotalShots,
		TotalRallies:         report.Summary.TotalRallies,
		ShuttleHits:          report.Summary.ShuttleHitsDetected,
		PlayerDetectionRate:  report.Summary.PlayerDetectionRate,
		ShuttleDetectionRate: report.Summary.ShuttleDetectionRate,
		AvgConfidence:        report.Summary.AvgConfidence,
		Report:               report,
		CreatedAt:            time.Now().UnixNano(),
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	err = retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO analysis_reports (
				report_id, source, fps, frames_processed, total_shots,
				total_rallies, shuttle_hits, player_detection_rate,
				shuttle_detection_rate, avg_confidence, report_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			stored.ReportID, stored.Source, stored.FPS, stored.FramesProcessed,
			stored.TotalShots, stored.TotalRallies, stored.ShuttleHits,
			stored.PlayerDetectionRate, nullFloat(stored.ShuttleDetectionRate),
			stored.AvgConfidence, string(payload), stored.CreatedAt,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert report %s: %w", stored.ReportID, err)
	}
	return stored, nil
}

// Get returns a single report by ID, including the full payload.
func (s *ReportStore) Get(reportID string) (*StoredReport, error) {
	row := s.db.QueryRow(`
		SELECT report_id, source, fps, frames_processed, total_shots,
		       total_rallies, shuttle_hits, player_detection_rate,
		       shuttle_detection_rate, avg_confidence, report_json, created_at
		FROM analysis_reports
		WHERE report_id = ?`, reportID)

	stored, err := scanStoredReport(row, true)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report %s not found", reportID)
		}
		return nil, err
	}
	return stored, nil
}

// List returns report summaries ordered by creation time descending. The
// full payload is omitted; limit <= 0 means no limit.
func (s *ReportStore) List(limit int) ([]*StoredReport, error) {
	query := `
		SELECT report_id, source, fps, frames_processed, total_shots,
		       total_rallies, shuttle_hits, player_detection_rate,
		       shuttle_detection_rate, avg_confidence, created_at
		FROM analysis_reports
		ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []*StoredReport
	for rows.Next() {
		stored, err := scanStoredReport(rows, false)
		if err != nil {
			return nil, err
		}
		reports = append(reports, stored)
	}
	return reports, rows.Err()
}

// Delete removes a report by ID.
func (s *ReportStore) Delete(reportID string) error {
	return retryOnBusy(func() error {
		result, err := s.db.Exec(`DELETE FROM analysis_reports WHERE report_id = ?`, reportID)
		if err != nil {
			return fmt.Errorf("delete report: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("report %s not found", reportID)
		}
		return nil
	})
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStoredReport(row scanner, withPayload bool) (*StoredReport, error) {
	var stored StoredReport
	var shuttleRate sql.NullFloat64
	var payload string

	dest := []interface{}{
		&stored.ReportID, &stored.Source, &stored.FPS, &stored.FramesProcessed,
		&stored.TotalShots, &stored.TotalRallies, &stored.ShuttleHits,
		&stored.PlayerDetectionRate, &shuttleRate, &stored.AvgConfidence,
	}
	if withPayload {
		dest = append(dest, &payload)
	}
	dest = append(dest, &stored.CreatedAt)

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan report row: %w", err)
	}

	if shuttleRate.Valid {
		rate := shuttleRate.Float64
		stored.ShuttleDetectionRate = &rate
	}
	if withPayload {
		var report badminton.Report
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, fmt.Errorf("unmarshal report payload: %w", err)
		}
		stored.Report = &report
	}
	return &stored, nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// retryOnBusy retries a write a few times when SQLite reports the database
// as busy or locked. WAL mode plus the busy_timeout pragma make this rare.
func retryOnBusy(op func() error) error {
	const attempts = 5
	var err error
	for i := 0; i < attempts; i++ {
		err = op()
		if err == nil {
			return nil
		}
		msg := strings.ToLower(err.Error())
		if !strings.Contains(msg, "busy") && !strings.Contains(msg, "locked") {
			return err
		}
		time.Sleep(time.Duration(i+1) * 10 * time.Millisecond)
	}
	return err
}

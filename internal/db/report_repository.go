package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/luisdiher22/DetectorEstafaCR/internal/models"
)

// ErrReportNotFound is returned when a report id does not exist.
var ErrReportNotFound = errors.New("report not found")

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	Create(report *models.Report) error
	GetByID(id int64) (*models.Report, error)
	FindExactMatch(phoneNumber *int64, textMessage string) (*models.Report, error)
	CountByPhoneNumber(phoneNumber int64) (int, error)
	CountByText(textMessage string) (int, error)
	IncrementConfirmedCount(id int64) error
	List(limit, offset int) ([]*models.Report, error)
}

// reportRepository implements ReportRepository interface
type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts a new report and assigns its id
func (r *reportRepository) Create(report *models.Report) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	report.CreatedAt = time.Now().Unix()

	query := `
		INSERT INTO reports (phone_number, text_message, urgency_score, is_flagged_scam, user_confirmed_scam_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		report.PhoneNumber,
		report.TextMessage,
		report.UrgencyScore,
		report.IsFlaggedScam,
		report.UserConfirmedScamCount,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get report id: %w", err)
	}
	report.ID = id

	return nil
}

// GetByID retrieves a report by id, nil when it does not exist
func (r *reportRepository) GetByID(id int64) (*models.Report, error) {
	query := `
		SELECT id, phone_number, text_message, urgency_score, is_flagged_scam, user_confirmed_scam_count, created_at
		FROM reports
		WHERE id = ?
	`

	report := &models.Report{}
	err := r.db.QueryRow(query, id).Scan(
		&report.ID,
		&report.PhoneNumber,
		&report.TextMessage,
		&report.UrgencyScore,
		&report.IsFlaggedScam,
		&report.UserConfirmedScamCount,
		&report.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// FindExactMatch returns the oldest report matching the given text and,
// when a phone number is supplied, the same phone number. Nil when no
// report matches.
func (r *reportRepository) FindExactMatch(phoneNumber *int64, textMessage string) (*models.Report, error) {
	query := `
		SELECT id, phone_number, text_message, urgency_score, is_flagged_scam, user_confirmed_scam_count, created_at
		FROM reports
		WHERE text_message = ?
	`
	args := []interface{}{textMessage}

	if phoneNumber != nil {
		query += " AND phone_number = ?"
		args = append(args, *phoneNumber)
	}

	query += " ORDER BY id LIMIT 1"

	report := &models.Report{}
	err := r.db.QueryRow(query, args...).Scan(
		&report.ID,
		&report.PhoneNumber,
		&report.TextMessage,
		&report.UrgencyScore,
		&report.IsFlaggedScam,
		&report.UserConfirmedScamCount,
		&report.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find matching report: %w", err)
	}

	return report, nil
}

// CountByPhoneNumber counts reports sharing the same phone number
func (r *reportRepository) CountByPhoneNumber(phoneNumber int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM reports WHERE phone_number = ?", phoneNumber).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by phone number: %w", err)
	}
	return count, nil
}

// CountByText counts reports sharing the same exact text
func (r *reportRepository) CountByText(textMessage string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM reports WHERE text_message = ?", textMessage).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by text: %w", err)
	}
	return count, nil
}

// IncrementConfirmedCount adds one user confirmation to a report
func (r *reportRepository) IncrementConfirmedCount(id int64) error {
	result, err := r.db.Exec(
		"UPDATE reports SET user_confirmed_scam_count = user_confirmed_scam_count + 1 WHERE id = ?",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment confirmed count: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}

	return nil
}

// List retrieves reports newest first with pagination
func (r *reportRepository) List(limit, offset int) ([]*models.Report, error) {
	if limit <= 0 {
		limit = 100 // default limit
	}

	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(`
		SELECT id, phone_number, text_message, urgency_score, is_flagged_scam, user_confirmed_scam_count, created_at
		FROM reports
		ORDER BY id DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report := &models.Report{}
		err := rows.Scan(
			&report.ID,
			&report.PhoneNumber,
			&report.TextMessage,
			&report.UrgencyScore,
			&report.IsFlaggedScam,
			&report.UserConfirmedScamCount,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

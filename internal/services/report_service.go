package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/apperrors"
	"github.com/linkup-social/linkup-be/internal/models"
	"github.com/rs/zerolog/log"
)

// ReportServiceProvider defines the interface for report services.
type ReportServiceProvider interface {
	CreateReport(reporterID, targetType, targetID, reason string) (models.Report, error)
	ListReports() ([]models.Report, error)
	ResolveReport(reportID string) error
}

// ReportService handles user reports and their fan-out to admins.
type ReportService struct {
	db       *sql.DB
	userSvc  UserServiceProvider
	notifSvc NotificationServiceProvider
}

// NewReportService creates a new ReportService.
func NewReportService(db *sql.DB, userSvc UserServiceProvider, notifSvc NotificationServiceProvider) *ReportService {
	return &ReportService{db: db, userSvc: userSvc, notifSvc: notifSvc}
}

// CreateReport records a report and notifies every admin.
func (s *ReportService) CreateReport(reporterID, targetType, targetID, reason string) (models.Report, error) {
	switch targetType {
	case "post", "comment", "user":
	default:
		return models.Report{}, apperrors.Wrap(apperrors.ErrValidation, "target type must be post, comment or user")
	}
	if targetID == "" || reason == "" {
		return models.Report{}, apperrors.Wrap(apperrors.ErrValidation, "target id and reason are required")
	}

	report := models.Report{
		ID:         uuid.New().String(),
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     models.ReportOpen,
	}
	_, err := s.db.Exec(
		"INSERT INTO reports (id, reporter_id, target_type, target_id, reason, status) VALUES (?, ?, ?, ?, ?, ?)",
		report.ID, report.ReporterID, report.TargetType, report.TargetID, report.Reason, report.Status,
	)
	if err != nil {
		return models.Report{}, err
	}

	adminIDs, err := s.userSvc.GetAdminIDs()
	if err != nil {
		// Fan-out is best-effort; the report itself is already persisted.
		log.Warn().Err(err).Str("report_id", report.ID).Msg("Failed to load admins for report fan-out")
	} else {
		s.notifSvc.NotifyMany(adminIDs, models.NotifReport,
			fmt.Sprintf("A %s was reported: %s", targetType, reason),
			map[string]string{"reportId": report.ID, "targetType": targetType, "targetId": targetID})
	}

	row := s.db.QueryRow("SELECT created_at FROM reports WHERE id = ?", report.ID)
	if err := row.Scan(&report.CreatedAt); err != nil {
		return models.Report{}, err
	}
	return report, nil
}

// ListReports returns all reports, newest first. Admin only at the route level.
func (s *ReportService) ListReports() ([]models.Report, error) {
	rows, err := s.db.Query(
		"SELECT id, reporter_id, target_type, target_id, reason, status, created_at FROM reports ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.ReporterID, &r.TargetType, &r.TargetID, &r.Reason, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// ResolveReport moves an open report to RESOLVED.
func (s *ReportService) ResolveReport(reportID string) error {
	res, err := s.db.Exec(
		"UPDATE reports SET status = ? WHERE id = ? AND status = ?",
		models.ReportResolved, reportID, models.ReportOpen,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "report not found or already resolved")
	}
	return nil
}

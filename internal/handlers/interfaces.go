package handlers

import (
	"github.com/luisdiher22/DetectorEstafaCR/internal/models"
	"github.com/luisdiher22/DetectorEstafaCR/internal/services"
)

// ReportServiceInterface defines the contract for report service operations
// This interface is used for dependency injection and testing
type ReportServiceInterface interface {
	SubmitReport(phoneNumberStr, textMessage string) (*services.CheckResult, error)
	ConfirmReport(id int64) error
	ListReports(limit, offset int) ([]*models.Report, error)
}

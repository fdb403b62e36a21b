package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/luisdiher22/DetectorEstafaCR/internal/db"
	"github.com/luisdiher22/DetectorEstafaCR/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// noticeMessages maps the notice query parameter set by redirects to the
// text shown on the index page.
var noticeMessages = map[string]string{
	"confirmed": "¡Gracias! Su confirmación fue registrada.",
	"not_found": "No se encontró el reporte indicado.",
}

// ReportHandler handles scam-check page and API requests
type ReportHandler struct {
	reportService ReportServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService ReportServiceInterface) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Index renders the submission form (GET /)
func (h *ReportHandler) Index(c *gin.Context) {
	data := gin.H{
		"PreviousPhoneNumber": "",
		"PreviousTextMessage": "",
	}
	if notice, ok := noticeMessages[c.Query("notice")]; ok {
		data["Notice"] = notice
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// CheckScam handles a form submission (POST /check_scam)
// Records the submission, scores it, and renders the verdict
func (h *ReportHandler) CheckScam(c *gin.Context) {
	phoneNumberStr := c.PostForm("phone_number")
	textMessage := c.PostForm("text_message")

	result, err := h.reportService.SubmitReport(phoneNumberStr, textMessage)
	if err != nil {
		logger.Error("Failed to process submission", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "index.html", gin.H{
			"Notice":              "Ocurrió un error al procesar su consulta. Intente de nuevo.",
			"PreviousPhoneNumber": phoneNumberStr,
			"PreviousTextMessage": textMessage,
		})
		return
	}

	logger.Info("Submission checked",
		zap.Int64("report_id", result.Report.ID),
		zap.Int("urgency_score", result.Report.UrgencyScore),
		zap.Bool("is_flagged_scam", result.Report.IsFlaggedScam),
	)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"ResultMessage":       result.Verdict,
		"AdviceLines":         result.Advice,
		"PreviousPhoneNumber": phoneNumberStr,
		"PreviousTextMessage": result.Report.TextMessage,
		"ReportID":            result.Report.ID,
	})
}

// ConfirmScam handles a confirmation (POST /confirm_scam/:id)
// Redirects back to the index with a notice either way
func (h *ReportHandler) ConfirmScam(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/?notice=not_found")
		return
	}

	if err := h.reportService.ConfirmReport(id); err != nil {
		if errors.Is(err, db.ErrReportNotFound) {
			logger.Warn("Confirmation for missing report", zap.Int64("report_id", id))
			c.Redirect(http.StatusSeeOther, "/?notice=not_found")
			return
		}
		logger.Error("Failed to confirm report", zap.Int64("report_id", id), zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/?notice=not_found")
		return
	}

	logger.Info("Report confirmed", zap.Int64("report_id", id))
	c.Redirect(http.StatusSeeOther, "/?notice=confirmed")
}

// ListReports returns recent reports as JSON (GET /api/reports)
func (h *ReportHandler) ListReports(c *gin.Context) {
	limit := 100
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err != nil || l <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit value"})
			return
		} else {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err != nil || o < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset value"})
			return
		} else {
			offset = o
		}
	}

	reports, err := h.reportService.ListReports(limit, offset)
	if err != nil {
		logger.Error("Failed to list reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luisdiher22/DetectorEstafaCR/internal/db"
	"github.com/luisdiher22/DetectorEstafaCR/internal/models"
	"github.com/luisdiher22/DetectorEstafaCR/internal/scoring"
)

// CheckResult is the outcome of a scam-check submission.
type CheckResult struct {
	Report  *models.Report
	Verdict string
	Advice  []string
}

// adviceBySignal holds the advisory line shown for each detected signal.
// Signals without an entry produce no line.
var adviceBySignal = map[scoring.Signal]string{
	scoring.SignalKeywordBanco:          "Los bancos nunca piden datos personales por mensaje. Contacte a su banco directamente.",
	scoring.SignalKeywordPremio:         "Desconfíe de premios de concursos en los que no participó.",
	scoring.SignalKeywordUrgente:        "Los estafadores usan la urgencia para presionarlo a actuar sin pensar.",
	scoring.SignalKeywordContrasena:     "Nunca comparta sus contraseñas por mensaje.",
	scoring.SignalKeywordOfertaLimitada: "Las ofertas por tiempo limitado son una táctica común de presión.",
	scoring.SignalKeywordGratis:         "Si suena demasiado bueno para ser cierto, probablemente no lo sea.",
	scoring.SignalSuspiciousContent:     "El mensaje contiene palabras usadas con frecuencia en estafas.",
	scoring.SignalURLDetected:           "No haga clic en enlaces de mensajes no solicitados.",
	scoring.SignalUppercaseDetected:     "El uso excesivo de mayúsculas es típico de mensajes fraudulentos.",
	scoring.SignalSpecialChars:          "El exceso de símbolos y signos de puntuación es común en estafas.",
}

// ReportService handles scam-check submissions and confirmations
type ReportService struct {
	repo db.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(repo db.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// SubmitReport records a submission and produces its verdict.
//
// The phone number string is parsed leniently: empty or non-numeric input
// degrades to "no phone number" and is never surfaced as an error. A new
// report row is created unconditionally, even for a fully empty submission.
func (s *ReportService) SubmitReport(phoneNumberStr, textMessage string) (*CheckResult, error) {
	text := strings.TrimSpace(textMessage)

	var phoneNumber *int64
	if trimmed := strings.TrimSpace(phoneNumberStr); trimmed != "" {
		if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			phoneNumber = &parsed
		}
	}

	// Look for a prior exact match before inserting the new row; its
	// confirmation count feeds the "confirmed by other users" branch.
	var prior *models.Report
	if text != "" {
		match, err := s.repo.FindExactMatch(phoneNumber, text)
		if err != nil {
			return nil, fmt.Errorf("failed to look up prior reports: %w", err)
		}
		prior = match
	}

	score, signals := scoring.Score(text)

	report := &models.Report{
		PhoneNumber:   phoneNumber,
		TextMessage:   text,
		UrgencyScore:  score,
		IsFlaggedScam: scoring.IsFlagged(score),
	}
	if err := s.repo.Create(report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	reportCount, err := s.reportCount(phoneNumber, text)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		Report:  report,
		Verdict: verdictMessage(report.IsFlaggedScam, reportCount, prior),
	}
	for _, signal := range signals {
		if advice, ok := adviceBySignal[signal]; ok {
			result.Advice = append(result.Advice, advice)
		}
	}

	return result, nil
}

// reportCount combines the per-phone and per-text counts (including the row
// just inserted) by taking the larger of the two. A submission with neither
// a phone number nor a text counts itself.
func (s *ReportService) reportCount(phoneNumber *int64, text string) (int, error) {
	count := 0

	if phoneNumber != nil {
		byPhone, err := s.repo.CountByPhoneNumber(*phoneNumber)
		if err != nil {
			return 0, fmt.Errorf("failed to count reports by phone number: %w", err)
		}
		if byPhone > count {
			count = byPhone
		}
	}

	if text != "" {
		byText, err := s.repo.CountByText(text)
		if err != nil {
			return 0, fmt.Errorf("failed to count reports by text: %w", err)
		}
		if byText > count {
			count = byText
		}
	}

	if count == 0 {
		count = 1
	}

	return count, nil
}

func verdictMessage(flagged bool, reportCount int, prior *models.Report) string {
	if flagged {
		if reportCount == 1 {
			return "¡Posible estafa detectada! El mensaje contiene elementos sospechosos y es la primera vez que lo vemos. Tenga mucho cuidado."
		}
		return fmt.Sprintf("¡Posible estafa detectada! Ha sido reportado %d veces y contiene elementos sospechosos.", reportCount)
	}

	switch {
	case reportCount == 1 && prior != nil && prior.UserConfirmedScamCount > 0:
		return "No ha sido reportado con frecuencia, pero otros usuarios lo han confirmado como estafa. Tenga cuidado."
	case reportCount == 1:
		return "Aún no ha sido reportado. Tenga cuidado de todas formas."
	case reportCount < 5:
		return fmt.Sprintf("Ha sido reportado %d veces. Es muy probable que sea una estafa.", reportCount)
	default:
		return fmt.Sprintf("Ha sido reportado %d veces. Es casi seguro que se trata de una estafa.", reportCount)
	}
}

// ConfirmReport adds one user confirmation to an existing report
func (s *ReportService) ConfirmReport(id int64) error {
	return s.repo.IncrementConfirmedCount(id)
}

// ListReports retrieves recent reports with pagination
func (s *ReportService) ListReports(limit, offset int) ([]*models.Report, error) {
	if limit <= 0 {
		limit = 100 // default limit
	}

	if offset < 0 {
		offset = 0
	}

	return s.repo.List(limit, offset)
}

package models

// Report represents a single scam-check submission.
// Every form submission creates a new report; duplicates are kept as history.

type Report struct {
	ID                     int64  `json:"id"`
	PhoneNumber            *int64 `json:"phone_number"`
	TextMessage            string `json:"text_message"`
	UrgencyScore           int    `json:"urgency_score"`
	IsFlaggedScam          bool   `json:"is_flagged_scam"`
	UserConfirmedScamCount int    `json:"user_confirmed_scam_count"`
	CreatedAt              int64  `json:"created_at"`
}

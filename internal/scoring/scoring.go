package scoring

import (
	"strings"
	"unicode"
)

// Signal identifies a suspicious pattern detected in a message.
type Signal string

const (
	SignalKeywordBanco          Signal = "keyword_banco"
	SignalKeywordPremio         Signal = "keyword_premio"
	SignalKeywordUrgente        Signal = "keyword_urgente"
	SignalKeywordContrasena     Signal = "keyword_contrasena"
	SignalKeywordOfertaLimitada Signal = "keyword_oferta_limitada"
	SignalKeywordGratis         Signal = "keyword_gratis"
	SignalSuspiciousContent     Signal = "suspicious_content"
	SignalURLDetected           Signal = "url_detected"
	SignalUppercaseDetected     Signal = "uppercase_detected"
	SignalSpecialChars          Signal = "special_chars_detected"
)

// FlagThreshold is the score at which a message is flagged as a likely scam.
// Policy constant, not derived.
const FlagThreshold = 5

const (
	keywordPoints     = 2
	urlPoints         = 3
	uppercasePoints   = 2
	specialCharPoints = 1

	uppercaseRatioLimit   = 0.5
	specialCharRatioLimit = 0.2
)

// keywordRule maps a keyword to the signal it emits. Generic rules emit the
// fallback suspicious-content tag, which is dropped when any specific tag
// was also emitted.
type keywordRule struct {
	keyword string
	signal  Signal
	generic bool
}

// keywordRules is evaluated in full, in order, for every message. Keep
// substring overlaps in mind when extending it ("urgent" would double-count
// "urgente").
var keywordRules = []keywordRule{
	{keyword: "banco", signal: SignalKeywordBanco},
	{keyword: "premio", signal: SignalKeywordPremio},
	{keyword: "ganaste", signal: SignalKeywordPremio},
	{keyword: "urgente", signal: SignalKeywordUrgente},
	{keyword: "contraseña", signal: SignalKeywordContrasena},
	{keyword: "password", signal: SignalKeywordContrasena},
	{keyword: "oferta limitada", signal: SignalKeywordOfertaLimitada},
	{keyword: "limited offer", signal: SignalKeywordOfertaLimitada},
	{keyword: "gratis", signal: SignalKeywordGratis},
	{keyword: "confidencial", signal: SignalSuspiciousContent, generic: true},
	{keyword: "verificar", signal: SignalSuspiciousContent, generic: true},
	{keyword: "actualizar", signal: SignalSuspiciousContent, generic: true},
	{keyword: "inmediato", signal: SignalSuspiciousContent, generic: true},
	{keyword: "account", signal: SignalSuspiciousContent, generic: true},
	{keyword: "tax", signal: SignalSuspiciousContent, generic: true},
	{keyword: "irs", signal: SignalSuspiciousContent, generic: true},
}

// Score computes the urgency score for a message and the set of signals that
// contributed to it. It is a pure function: identical input always yields
// identical output. The input is expected to be already trimmed.
func Score(text string) (int, []Signal) {
	score := 0
	var signals []Signal
	seen := make(map[Signal]bool)

	add := func(s Signal) {
		if !seen[s] {
			seen[s] = true
			signals = append(signals, s)
		}
	}

	lower := strings.ToLower(text)

	specificHit := false
	genericHit := false
	for _, rule := range keywordRules {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		score += keywordPoints
		if rule.generic {
			genericHit = true
		} else {
			specificHit = true
			add(rule.signal)
		}
	}
	// The generic tag is a fallback, never additive to a specific one.
	if genericHit && !specificHit {
		add(SignalSuspiciousContent)
	}

	if strings.Contains(lower, "http://") || strings.Contains(lower, "https://") {
		score += urlPoints
		add(SignalURLDetected)
	}

	letters := 0
	upper := 0
	nonSpace := 0
	special := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
		if !unicode.IsSpace(r) {
			nonSpace++
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				special++
			}
		}
	}

	if letters > 0 && float64(upper)/float64(letters) > uppercaseRatioLimit {
		score += uppercasePoints
		add(SignalUppercaseDetected)
	}

	if nonSpace > 0 && float64(special)/float64(nonSpace) > specialCharRatioLimit {
		score += specialCharPoints
		add(SignalSpecialChars)
	}

	return score, signals
}

// IsFlagged reports whether a score crosses the scam threshold.
func IsFlagged(score int) bool {
	return score >= FlagThreshold
}

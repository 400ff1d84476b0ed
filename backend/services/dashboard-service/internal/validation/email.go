package validation

import (
	"net/mail"
	"strings"

	"citydash/backend/services/dashboard-service/internal/apperr"
)

// MaxEmailLength bounds subscriber addresses.
const MaxEmailLength = 254

// NormalizeEmail trims and lower-cases raw after checking it is a plain address.
func NormalizeEmail(raw any) (string, error) {
	errs := apperr.FieldErrors{}
	email := normalizeEmail(raw, errs)
	if len(errs) > 0 {
		return "", apperr.Validation("Invalid email address", errs)
	}
	return email, nil
}

func normalizeEmail(raw any, errs apperr.FieldErrors) string {
	if raw == nil {
		errs.Add("email", msgRequired)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		errs.Add("email", msgString)
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add("email", msgBlank)
		return ""
	}
	if len(s) > MaxEmailLength {
		errs.Add("email", "Ensure this field has no more than 254 characters.")
		return ""
	}
	if !validAddress(s) {
		errs.Add("email", "Enter a valid email address.")
		return ""
	}
	return strings.ToLower(s)
}

func validAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	if strings.EqualFold(domain, "localhost") {
		return true
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}

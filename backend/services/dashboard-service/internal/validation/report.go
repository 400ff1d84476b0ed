package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/models"
)

const (
	maxNameLength     = 255
	maxLocationLength = 255
	maxImageRefLength = 100
)

// ReportFromObject validates a citizen submission. Server-assigned fields (id, status,
// timestamps) are dropped; a new report always starts pending.
func ReportFromObject(obj map[string]any) (*models.CitizenReport, error) {
	errs := apperr.FieldErrors{}

	report := &models.CitizenReport{
		ReporterName: requiredString(obj, "reporter_name", maxNameLength, errs),
		Description:  requiredString(obj, "description", 0, errs),
		Location:     requiredString(obj, "location", maxLocationLength, errs),
		Status:       models.ReportPending,
	}

	if raw, ok := obj["issue_type"]; !ok || raw == nil {
		errs.Add("issue_type", msgRequired)
	} else if t, ok := issueType(raw); ok {
		report.IssueType = t
	} else {
		errs.Add("issue_type", fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(raw)))
	}

	if raw, ok := obj["image"]; ok && raw != nil {
		s, isString := raw.(string)
		switch {
		case !isString:
			errs.Add("image", "The submitted data was not a file.")
		case strings.TrimSpace(s) == "":
		case utf8.RuneCountInString(s) > maxImageRefLength:
			errs.Add("image", fmt.Sprintf("Ensure this filename has at most %d characters.", maxImageRefLength))
		default:
			ref := strings.TrimSpace(s)
			report.Image = &ref
		}
	}

	if len(errs) > 0 {
		return nil, apperr.Validation("Invalid report", errs)
	}
	return report, nil
}

// ReportPatchFromObject validates a partial update. Unknown and read-only keys are ignored.
func ReportPatchFromObject(obj map[string]any) (models.ReportPatch, error) {
	var (
		patch models.ReportPatch
		errs  = apperr.FieldErrors{}
	)

	if _, ok := obj["reporter_name"]; ok {
		v := requiredString(obj, "reporter_name", maxNameLength, errs)
		patch.ReporterName = &v
	}
	if _, ok := obj["description"]; ok {
		v := requiredString(obj, "description", 0, errs)
		patch.Description = &v
	}
	if _, ok := obj["location"]; ok {
		v := requiredString(obj, "location", maxLocationLength, errs)
		patch.Location = &v
	}
	if raw, ok := obj["issue_type"]; ok {
		if t, valid := issueType(raw); valid {
			patch.IssueType = &t
		} else {
			errs.Add("issue_type", fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(raw)))
		}
	}
	if raw, ok := obj["status"]; ok {
		if s, valid := reportStatus(raw); valid {
			patch.Status = &s
		} else {
			errs.Add("status", fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(raw)))
		}
	}

	if len(errs) > 0 {
		return models.ReportPatch{}, apperr.Validation("Invalid report update", errs)
	}
	if patch.Empty() {
		return models.ReportPatch{}, apperr.Validation("Invalid report update", apperr.FieldErrors{
			msgNonFieldKey: {"No updatable fields supplied."},
		})
	}
	return patch, nil
}

// Location validates the traffic query input.
func Location(obj map[string]any) (string, error) {
	errs := apperr.FieldErrors{}
	location := requiredString(obj, "location", maxLocationLength, errs)
	if len(errs) > 0 {
		return "", apperr.Validation("Invalid request", errs)
	}
	return location, nil
}

// Email validates the subscription body.
func Email(obj map[string]any) (string, error) {
	raw, ok := obj["email"]
	if !ok {
		return "", apperr.Validation("Invalid email address", apperr.FieldErrors{"email": {msgRequired}})
	}
	return NormalizeEmail(raw)
}

func requiredString(obj map[string]any, key string, maxLen int, errs apperr.FieldErrors) string {
	raw, ok := obj[key]
	if !ok {
		errs.Add(key, msgRequired)
		return ""
	}
	if raw == nil {
		errs.Add(key, msgNull)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		errs.Add(key, msgString)
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add(key, msgBlank)
		return ""
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		errs.Add(key, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen))
		return ""
	}
	return s
}

func issueType(raw any) (models.IssueType, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	t := models.IssueType(strings.TrimSpace(s))
	return t, t.Valid()
}

func reportStatus(raw any) (models.ReportStatus, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	st := models.ReportStatus(strings.TrimSpace(s))
	return st, st.Valid()
}

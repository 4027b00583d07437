package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFileSize is the per-attachment ceiling (50 MB).
	MaxFileSize = 50 * 1024 * 1024

	// MinDescriptionLength is the minimum project description length.
	MinDescriptionLength = 50
)

// AllowedFileTypes lists the accepted attachment content types:
// common image formats, PDF and Word documents.
var AllowedFileTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// CheckoutInput carries the customer-supplied checkout fields before an
// order row exists.
type CheckoutInput struct {
	UserName           string
	UserEmail          string
	CompanyName        string
	PlanName           string
	ProjectDescription string
	AdditionalNotes    string
}

// Validate returns per-field error messages, empty when the input is
// acceptable. Field keys match the form field names.
func (in CheckoutInput) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.UserName) == "" {
		errs["user_name"] = "full name is required"
	}

	email := strings.TrimSpace(in.UserEmail)
	if email == "" {
		errs["user_email"] = "email is required"
	} else if !ValidEmail(email) {
		errs["user_email"] = "please enter a valid email address"
	}

	desc := strings.TrimSpace(in.ProjectDescription)
	if desc == "" {
		errs["project_description"] = "project description is required"
	} else if utf8.RuneCountInString(desc) < MinDescriptionLength {
		errs["project_description"] = fmt.Sprintf("please provide a more detailed description (at least %d characters)", MinDescriptionLength)
	}

	if _, ok := PlanByName(in.PlanName); !ok {
		errs["plan_name"] = "unknown plan"
	}

	return errs
}

// ValidateFile checks a single attachment against the size ceiling and the
// content-type allow-list. Returns a descriptive error, or nil.
func ValidateFile(name, contentType string, size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("file %s is too large, maximum size is 50MB", name)
	}

	for _, t := range AllowedFileTypes {
		if t == contentType {
			return nil
		}
	}
	return fmt.Errorf("file %s has unsupported format, allowed formats are: JPEG, PNG, GIF, PDF, DOC, DOCX", name)
}

package quotes

import (
	"regexp"
	"strings"
)

const (
	MsgNameRequired     = "Full name is required"
	MsgPhoneRequired    = "Phone number is required"
	MsgPhoneInvalid     = "Please enter a valid phone number"
	MsgLocationRequired = "Location is required"
	MsgDateRequired     = "Measurement date is required"
)

// phonePattern accepts digits, ASCII whitespace and + - ( ). \s is ASCII-only
// in RE2, so a pasted no-break space is rejected.
var phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

// Validate checks every field independently and returns all failures.
// Only one phone message is ever reported; the empty check wins.
func Validate(f Fields) ErrorMap {
	errs := ErrorMap{}

	if strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}

	if strings.TrimSpace(f.Phone) == "" {
		errs[FieldPhone] = MsgPhoneRequired
	} else if !phonePattern.MatchString(f.Phone) {
		errs[FieldPhone] = MsgPhoneInvalid
	}

	if strings.TrimSpace(f.Location) == "" {
		errs[FieldLocation] = MsgLocationRequired
	}

	if f.MeasurementDate == "" {
		errs[FieldMeasurementDate] = MsgDateRequired
	}

	return errs
}

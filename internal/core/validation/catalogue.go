package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits shared by hives, sections and products.
const (
	MaxNameLength    = 60
	MaxCodeLength    = 5
	MaxAddressLength = 300
)

// =============================================================================
// Request Validation Functions
// =============================================================================

// ValidateHiveFields validates the fields of a hive create or update request.
// Returns the field name and error message if validation fails.
// Returns empty strings if all fields are valid.
//
// Example:
//
//	field, msg := ValidateHiveFields("Main", "HIVE1", "1 Dock Road")
//	if field != "" {
//	    // Handle validation error
//	}
func ValidateHiveFields(name, code, address string) (field, message string) {
	if field, message = validateName(name); field != "" {
		return field, message
	}
	if field, message = validateCode(code); field != "" {
		return field, message
	}
	if utf8.RuneCountInString(address) > MaxAddressLength {
		return "address", fmt.Sprintf("address must be at most %d characters", MaxAddressLength)
	}
	return "", ""
}

// ValidateHiveSectionFields validates the fields of a section create or update request.
// Existence of the hive is checked by the service, not here.
func ValidateHiveSectionFields(name, code string, hiveID int) (field, message string) {
	if field, message = validateName(name); field != "" {
		return field, message
	}
	if field, message = validateCode(code); field != "" {
		return field, message
	}
	if hiveID <= 0 {
		return "hive_id", "hive_id is required"
	}
	return "", ""
}

// ValidateProductFields validates the fields of a product create or update request.
func ValidateProductFields(name, code string) (field, message string) {
	if field, message = validateName(name); field != "" {
		return field, message
	}
	return validateCode(code)
}

func validateName(name string) (string, string) {
	if strings.TrimSpace(name) == "" {
		return "name", "name is required"
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "name", fmt.Sprintf("name must be at most %d characters", MaxNameLength)
	}
	return "", ""
}

func validateCode(code string) (string, string) {
	if strings.TrimSpace(code) == "" {
		return "code", "code is required"
	}
	if utf8.RuneCountInString(code) > MaxCodeLength {
		return "code", fmt.Sprintf("code must be at most %d characters", MaxCodeLength)
	}
	return "", ""
}

// =============================================================================
// Lifecycle Checks
// =============================================================================

// CanPurge checks if a record can be physically removed based on its deleted flag.
// Records must be soft-deleted before they are purged.
// Returns whether the purge is allowed and an optional reason if not.
//
// Example:
//
//	allowed, reason := CanPurge(hive.IsDeleted)
//	if !allowed {
//	    // Return 409 Conflict with reason
//	}
func CanPurge(deleted bool) (allowed bool, reason string) {
	if !deleted {
		return false, "record must be soft-deleted before it is purged"
	}
	return true, ""
}

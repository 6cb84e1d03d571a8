// Package validation provides pure validation functions for API handlers.
//
// This package contains the functional core logic for validating catalogue
// requests and checking lifecycle rules. All functions are pure (no I/O, no
// side effects).
//
// # Functions
//
//   - ValidateHiveFields: Validate fields for hive create/update requests
//   - ValidateHiveSectionFields: Validate fields for section create/update requests
//   - ValidateProductFields: Validate fields for product create/update requests
//   - CanPurge: Check if a record can be physically removed
//
// # Usage
//
// The API handlers use these functions to validate requests before calling a service:
//
//	if field, msg := validation.ValidateHiveFields(name, code, address); field != "" {
//	    // Return 400 Bad Request with msg
//	}
package validation

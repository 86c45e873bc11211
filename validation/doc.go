// Package validation checks request payloads before they leave the process,
// so a malformed login or asset never costs a round trip.
//
// Struct tags use go-playground/validator with a few domain rules added
// (ticker, isodate, currency):
//
//	type CreateManualAsset struct {
//	    Name     string  `json:"name" validate:"required"`
//	    Value    float64 `json:"value" validate:"gt=0"`
//	    Currency string  `json:"currency" validate:"omitempty,currency"`
//	}
//	err := validation.Struct(req)
//
// Ad-hoc checks use the fluent Validator:
//
//	err := validation.New().Required("address", addr).Err()
//
// Both return *errors.AppError with code INVALID_INPUT and the offending
// fields under Details["fields"].
package validation

package model

import "errors"

var (
	ErrInvalidPostalCode    = errors.New("postal code must be 5 digits")
	ErrMissingAPIKey        = errors.New("geoapify API key is not configured")
	ErrPostalCodeNotFound   = errors.New("no coordinates found for postal code")
	ErrGeocodingUnavailable = errors.New("geocoding service unavailable")

	ErrNotFound      = errors.New("resource not found")
	ErrListNotFound  = errors.New("shopping list not found")
	ErrNotListMember = errors.New("user is not a member of this list")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
)

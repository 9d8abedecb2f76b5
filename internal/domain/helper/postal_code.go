package helper

import "regexp"

var postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// IsValidPostalCode スペインの郵便番号（5桁）か判定
func IsValidPostalCode(code string) bool {
	return postalCodePattern.MatchString(code)
}

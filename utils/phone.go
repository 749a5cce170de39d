package utils

import "regexp"

// Tanzanian mobile numbers: optional +255/255/0 prefix followed by a valid
// operator prefix and seven digits.
var tzPhonePattern = regexp.MustCompile(`^(?:\+255|255|0)?(6[1256789]|7[12345678])[0-9]{7}$`)

// ValidTZPhone reports whether s is a valid Tanzanian mobile number.
func ValidTZPhone(s string) bool {
	return tzPhonePattern.MatchString(s)
}

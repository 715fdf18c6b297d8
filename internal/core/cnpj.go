package core

import "strings"

var cnpjPunctuation = strings.NewReplacer(".", "", "/", "", "-", "")

// NormalizeCNPJ strips the literal characters '.', '/' and '-'.
// Nothing else is removed: spaces or letters are kept and will simply
// fail to match a stored CNPJ.
func NormalizeCNPJ(s string) string {
	return cnpjPunctuation.Replace(s)
}

// ValidCNPJ reports whether s holds 14 digits (punctuation ignored) with
// correct check digits. Repeated-digit sequences are rejected.
func ValidCNPJ(s string) bool {
	digits := make([]int, 0, 14)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 14 {
		return false
	}

	repeated := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	return checkDigit(digits[:12], 5) == digits[12] && checkDigit(digits[:13], 6) == digits[13]
}

// checkDigit applies the mod-11 weights starting at first and cycling 9..2.
func checkDigit(digits []int, first int) int {
	sum := 0
	weight := first
	for _, d := range digits {
		sum += d * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

package mrz

var weights = [3]int{7, 3, 1}

// CheckDigit computes the ICAO 9303 check digit of data. Fill characters
// count as zero, letters map to 10..35. Anything else is treated as fill.
func CheckDigit(data string) int {
	sum := 0
	for i := 0; i < len(data); i++ {
		sum += charValue(data[i]) * weights[i%3]
	}
	return sum % 10
}

// ValidateCheckDigit reports whether digit is the check digit of data.
// A non-numeric digit (including fill) never validates.
func ValidateCheckDigit(data, digit string) bool {
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return false
	}
	return int(digit[0]-'0') == CheckDigit(data)
}

func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c) - 55
	default:
		return 0
	}
}

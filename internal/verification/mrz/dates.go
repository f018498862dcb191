package mrz

// centuryPivot is the last two-digit year mapped into the 2000s.
const centuryPivot = 40

// NormalizeDate turns an MRZ YYMMDD string into YYYY-MM-DD.
// Anything that is not exactly six digits yields an empty string.
func NormalizeDate(yymmdd string) string {
	if len(yymmdd) != 6 || !allDigits(yymmdd) {
		return ""
	}
	yy := int(yymmdd[0]-'0')*10 + int(yymmdd[1]-'0')
	century := "19"
	if yy <= centuryPivot {
		century = "20"
	}
	return century + yymmdd[0:2] + "-" + yymmdd[2:4] + "-" + yymmdd[4:6]
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

package mrz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify-workers/internal/models"
)

// ICAO 9303 specimen documents.
const (
	td3Line1 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
	td3Line2 = "L898902C36UTO7408122F1204159ZE184226B<<<<<10"

	td1Line1 = "I<UTOD231458907<<<<<<<<<<<<<<<"
	td1Line2 = "7408122F1204159UTO<<<<<<<<<<<6"
	td1Line3 = "ERIKSSON<<ANNA<MARIA<<<<<<<<<<"
)

// ==========================
// Check digits
// ==========================

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		data string
		want int
	}{
		{data: "123456789", want: 7},
		{data: "L898902C3", want: 6},
		{data: "740812", want: 2},
		{data: "120415", want: 9},
		{data: "D23145890", want: 7},
		{data: "<<<<<<", want: 0},
		{data: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckDigit(tt.data))
		})
	}
}

func TestValidateCheckDigit(t *testing.T) {
	assert.True(t, ValidateCheckDigit("123456789", "7"))
	for d := 0; d <= 9; d++ {
		if d == 7 {
			continue
		}
		assert.False(t, ValidateCheckDigit("123456789", fmt.Sprint(d)), "digit %d", d)
	}
	assert.False(t, ValidateCheckDigit("<<<<<<", "<"))
	assert.False(t, ValidateCheckDigit("123456789", ""))
	assert.False(t, ValidateCheckDigit("123456789", "77"))
}

// ==========================
// Dates
// ==========================

func TestNormalizeDate_CenturyRule(t *testing.T) {
	for yy := 0; yy <= 99; yy++ {
		input := fmt.Sprintf("%02d0101", yy)
		got := NormalizeDate(input)

		var year int
		_, err := fmt.Sscanf(got, "%4d", &year)
		require.NoError(t, err, input)

		if yy <= 40 {
			assert.Equal(t, 2000+yy, year, input)
		} else {
			assert.Equal(t, 1900+yy, year, input)
		}
		assert.Equal(t, got, NormalizeDate(input), "normalization is deterministic")
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "74081", "7408122", "7408<2", "ABCDEF"} {
		assert.Empty(t, NormalizeDate(input), input)
	}
	assert.Equal(t, "1974-08-12", NormalizeDate("740812"))
	assert.Equal(t, "2040-12-31", NormalizeDate("401231"))
	assert.Equal(t, "1941-01-01", NormalizeDate("410101"))
}

// ==========================
// Layout selection
// ==========================

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Layout
	}{
		{name: "td3", lines: []string{td3Line1, td3Line2}, want: LayoutTD3},
		{name: "td1", lines: []string{td1Line1, td1Line2, td1Line3}, want: LayoutTD1},
		{name: "td1 with short continuation lines", lines: []string{td1Line1, "74", ""}, want: LayoutTD1},
		{name: "empty", lines: nil, want: ""},
		{name: "single line", lines: []string{td3Line1}, want: ""},
		{name: "two lines wrong length", lines: []string{td3Line1, td3Line2[:43]}, want: ""},
		{name: "three td3 lines", lines: []string{td3Line1, td3Line2, td3Line2}, want: ""},
		{name: "four lines", lines: []string{td1Line1, td1Line2, td1Line3, td1Line3}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLayout(tt.lines))
			if tt.want == "" {
				assert.Nil(t, Decode(tt.lines))
			} else {
				assert.NotNil(t, Decode(tt.lines))
			}
		})
	}
}

// ==========================
// Decoding
// ==========================

func TestDecode_TD3(t *testing.T) {
	data := Decode([]string{td3Line1, td3Line2})
	require.NotNil(t, data)

	assert.True(t, data.ChecksumValid)
	assert.Equal(t, "P", data.DocumentType.Value)
	assert.Equal(t, "UTO", data.IssuingCountry.Value)
	assert.Equal(t, "ERIKSSON", data.LastName.Value)
	assert.Equal(t, "ANNA MARIA", data.FirstName.Value)
	assert.Equal(t, "L898902C3", data.DocumentNumber.Value)
	assert.Equal(t, "UTO", data.Nationality.Value)
	assert.Equal(t, "1974-08-12", data.DateOfBirth.Value)
	assert.Equal(t, "F", data.Sex.Value)
	assert.Equal(t, "2012-04-15", data.ExpiryDate.Value)
	assert.Equal(t, "ZE184226B", data.PersonalNumber.Value)

	for _, f := range allFields(data) {
		assert.Equal(t, 95, f.Confidence)
	}
}

func TestDecode_TD1(t *testing.T) {
	data := Decode([]string{td1Line1, td1Line2, td1Line3})
	require.NotNil(t, data)

	assert.True(t, data.ChecksumValid)
	assert.Equal(t, "I", data.DocumentType.Value)
	assert.Equal(t, "UTO", data.IssuingCountry.Value)
	assert.Equal(t, "D23145890", data.DocumentNumber.Value)
	assert.Equal(t, "1974-08-12", data.DateOfBirth.Value)
	assert.Equal(t, "F", data.Sex.Value)
	assert.Equal(t, "2012-04-15", data.ExpiryDate.Value)
	assert.Equal(t, "UTO", data.Nationality.Value)
	assert.Equal(t, "ERIKSSON", data.LastName.Value)
	assert.Equal(t, "ANNA MARIA", data.FirstName.Value)

	assert.Empty(t, data.PersonalNumber.Value)
	assert.Zero(t, data.PersonalNumber.Confidence)
	assert.Equal(t, 95, data.DocumentNumber.Confidence)
}

func TestDecode_ChecksumFailureLowersConfidence(t *testing.T) {
	// expiry check digit 9 -> 8
	broken := td3Line2[:27] + "8" + td3Line2[28:]
	data := Decode([]string{td3Line1, broken})
	require.NotNil(t, data)

	assert.False(t, data.ChecksumValid)
	for _, f := range allFields(data) {
		assert.Equal(t, 70, f.Confidence)
	}
}

func TestDecode_PersonalNumberCheckDigitIgnored(t *testing.T) {
	broken := td3Line2[:42] + "5" + td3Line2[43:]
	data := Decode([]string{td3Line1, broken})
	require.NotNil(t, data)

	assert.True(t, data.ChecksumValid)
}

func TestDecode_NoGivenNames(t *testing.T) {
	line1 := "P<UTOERIKSSON" + strings.Repeat("<", 31)
	data := Decode([]string{line1, td3Line2})
	require.NotNil(t, data)

	assert.Equal(t, "ERIKSSON", data.LastName.Value)
	assert.Empty(t, data.FirstName.Value)
	assert.Zero(t, data.FirstName.Confidence)
}

func TestDecode_EmptyPersonalNumber(t *testing.T) {
	line2 := td3Line2[:28] + strings.Repeat("<", 14) + "0" + td3Line2[43:]
	data := Decode([]string{td3Line1, line2})
	require.NotNil(t, data)

	assert.Empty(t, data.PersonalNumber.Value)
	assert.Zero(t, data.PersonalNumber.Confidence)
	assert.Equal(t, 95, data.DocumentNumber.Confidence)
}

func TestDecode_NonDigitDatesBecomeEmpty(t *testing.T) {
	line2 := td3Line2[:13] + "7408AB" + td3Line2[19:]
	data := Decode([]string{td3Line1, line2})
	require.NotNil(t, data)

	assert.Empty(t, data.DateOfBirth.Value)
	assert.Zero(t, data.DateOfBirth.Confidence)
	assert.False(t, data.ChecksumValid)
}

func TestDecode_ShortTD1ContinuationLinesDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		data := Decode([]string{td1Line1, "7408", ""})
		require.NotNil(t, data)
		assert.False(t, data.ChecksumValid)
		assert.Empty(t, data.LastName.Value)
	})
}

// ==========================
// Line selection
// ==========================

func TestSelectLines(t *testing.T) {
	text := strings.Join([]string{
		"PASSPORT",
		"Surname: ERIKSSON",
		"Given names: ANNA MARIA",
		"p<utoeriksson<<anna<maria<<<<<<<<<<<<<<<<<<<",
		"L898902C36UTO7408122F1204159ZE184226B<<<<< 10",
	}, "\n")

	lines := SelectLines(text)
	require.Len(t, lines, 2)
	assert.Equal(t, td3Line1, lines[0])
	assert.Equal(t, td3Line2, lines[1])
}

func TestSelectLines_KeepsTrailingBlock(t *testing.T) {
	text := strings.Join([]string{"NOISE<<LINE<<THAT<<IS<<LONG<<ENOUGH<<", td1Line1, td1Line2, td1Line3}, "\n")

	lines := SelectLines(text)
	assert.Equal(t, []string{td1Line1, td1Line2, td1Line3}, lines)
}

func TestSelectLines_NoMRZ(t *testing.T) {
	assert.Empty(t, SelectLines("Name: John Smith\nPassport No: AB1234567"))
	assert.Empty(t, SelectLines(""))
}

func allFields(d *models.MRZData) []models.ExtractedField {
	return []models.ExtractedField{
		d.DocumentType, d.IssuingCountry, d.LastName, d.FirstName, d.DocumentNumber,
		d.Nationality, d.DateOfBirth, d.Sex, d.ExpiryDate, d.PersonalNumber,
	}
}

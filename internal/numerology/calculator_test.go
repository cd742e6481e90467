package numerology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "numina/pkg/domain-errors"
)

func date(t *testing.T, iso string) time.Time {
	t.Helper()
	d, err := time.Parse(BirthDateLayout, iso)
	require.NoError(t, err)
	return d
}

func TestReduceToSingleDigit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{1, 1},
		{9, 9},
		{10, 1},
		{11, 2},
		{15, 6},
		{30, 3},
		{90, 9},
		{99, 9},    // 18 -> 9
		{1990, 1},  // 19 -> 10 -> 1
		{99999, 9}, // 45 -> 9
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReduceToSingleDigit(tt.in), "reduce(%d)", tt.in)
	}
}

func TestReduceIsIdentityOnSingleDigits(t *testing.T) {
	for n := 1; n <= 9; n++ {
		assert.Equal(t, n, ReduceToSingleDigit(n))
	}
}

func TestReduceStaysInRange(t *testing.T) {
	for n := 0; n <= 10000; n++ {
		got := ReduceToSingleDigit(n)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 9)
	}
}

func TestPersonalityCodeDependsOnDayOnly(t *testing.T) {
	a := PersonalityCode(date(t, "1990-05-15"))
	b := PersonalityCode(date(t, "2003-11-15"))
	c := PersonalityCode(date(t, "1955-01-15"))
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, 6, a) // 15 -> 6
}

func TestConnectorCodeDigitStream(t *testing.T) {
	// "15" + "5" + "1990" = 1551990, digit sum 30, reduced 3.
	assert.Equal(t, 3, ConnectorCode(date(t, "1990-05-15")))
	// Single-digit day contributes one character: "3" + "1" + "2000" -> 3+1+2 = 6.
	assert.Equal(t, 6, ConnectorCode(date(t, "2000-01-03")))
}

func TestRealizationCodeUsesShortYear(t *testing.T) {
	assert.Equal(t, 9, RealizationCode(date(t, "1990-05-15"))) // 90 -> 9
	assert.Equal(t, 1, RealizationCode(date(t, "2010-06-01"))) // 10 -> 1
	// Year 2000: short year is 0, reduced value stays 0.
	assert.Equal(t, 0, RealizationCode(date(t, "2000-06-01")))
}

func TestGeneratorCodeMultipliesReducedDayAndMonth(t *testing.T) {
	// day 15 -> 6, month 5 -> 5, product 30 -> 3.
	assert.Equal(t, 3, GeneratorCode(date(t, "1990-05-15")))
	// day 29 -> 11 -> 2, month 12 -> 3, product 6.
	assert.Equal(t, 6, GeneratorCode(date(t, "1984-12-29")))
}

func TestMissionCodeMasterNumber(t *testing.T) {
	assert.Equal(t, 11, MissionCode(6, 5))
	assert.Equal(t, 11, MissionCode(2, 9))

	for p := 1; p <= 9; p++ {
		for c := 1; c <= 9; c++ {
			got := MissionCode(p, c)
			if p+c == 11 {
				assert.Equal(t, 11, got, "p=%d c=%d", p, c)
				continue
			}
			assert.Equal(t, ReduceToSingleDigit(p+c), got, "p=%d c=%d", p, c)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 9)
		}
	}
}

func TestCalculateAllKnownDate(t *testing.T) {
	codes, err := CalculateAll("1990-05-15")
	require.NoError(t, err)

	assert.Equal(t, CodeSet{
		Personality: 6,
		Connector:   3,
		Realization: 9,
		Generator:   3,
		Mission:     9, // 6+3, no master exception
	}, codes)
}

func TestCalculateAllIsDeterministic(t *testing.T) {
	first, err := CalculateAll("1984-12-29")
	require.NoError(t, err)
	second, err := CalculateAll("1984-12-29")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculateAllMissionMaster(t *testing.T) {
	// 1992-05-15: personality 15 -> 6; stream "1551992" sums to 32 -> 5;
	// 6+5 hits the master number.
	codes, err := CalculateAll("1992-05-15")
	require.NoError(t, err)
	require.Equal(t, 6, codes.Personality)
	require.Equal(t, 5, codes.Connector)
	assert.Equal(t, 11, codes.Mission, "6+5 must stay the master number, not reduce to 2")
}

func TestCalculateAllRejectsMalformedDate(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "15.05.1990", "1990/05/15", "1990-13-45"} {
		_, err := CalculateAll(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "input %q", in)
	}
}

func TestCodeSetPairs(t *testing.T) {
	codes := CodeSet{Personality: 6, Connector: 5, Realization: 9, Generator: 3, Mission: 11}
	pairs := codes.Pairs()
	require.Len(t, pairs, 5)
	assert.Equal(t, CodePair{Type: CodeTypePersonality, Value: 6}, pairs[0])
	assert.Equal(t, CodePair{Type: CodeTypeMission, Value: 11}, pairs[4])
}

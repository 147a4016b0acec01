package domain

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minOperatorCodeLen = 2
	maxOperatorCodeLen = 10
	groupSuffixLen     = 6
	maxLegNumber       = 9999
)

var (
	flightGroupIDPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}-[0-9]{6}-[A-Z0-9]{6}$`)
	flightNumberPattern  = regexp.MustCompile(`^([A-Z0-9]{2,10}-[0-9]{6}-[A-Z0-9]{6})-L([1-9][0-9]{0,3})$`)
)

// FlightNumberParts is the decoded form of a flight number.
type FlightNumberParts struct {
	FlightGroupID string `json:"flightGroupId"`
	LegNumber     int    `json:"legNumber"`
}

// NormalizeOperatorCode upper-cases the code and drops anything that is not A-Z or 0-9.
func NormalizeOperatorCode(operatorUserCode string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(operatorUserCode) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) > maxOperatorCodeLen {
		code = code[:maxOperatorCodeLen]
	}
	return code
}

// GenerateFlightGroupID returns an identifier of the form OPCODE-YYMMDD-XXXXXX.
// The suffix is drawn from a random UUID so repeated calls for the same
// operator on the same day do not collide.
func GenerateFlightGroupID(operatorUserCode string, at time.Time) (string, error) {
	code := NormalizeOperatorCode(operatorUserCode)
	if len(code) < minOperatorCodeLen {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperatorCode, operatorUserCode)
	}

	return fmt.Sprintf("%s-%s-%s", code, at.UTC().Format("060102"), randomSuffix()), nil
}

func randomSuffix() string {
	id := uuid.New()
	s := strings.ToUpper(strconv.FormatUint(binary.BigEndian.Uint64(id[:8]), 36))
	if len(s) < groupSuffixLen {
		return strings.Repeat("0", groupSuffixLen-len(s)) + s
	}
	return s[len(s)-groupSuffixLen:]
}

// GenerateFlightNumber is a pure function of its inputs.
func GenerateFlightNumber(flightGroupID string, legNumber int) string {
	return fmt.Sprintf("%s-L%d", flightGroupID, legNumber)
}

// ParseFlightNumber is the inverse of GenerateFlightNumber. It reports false
// for anything GenerateFlightNumber could not have produced from a valid group.
func ParseFlightNumber(flightNumber string) (FlightNumberParts, bool) {
	m := flightNumberPattern.FindStringSubmatch(flightNumber)
	if m == nil {
		return FlightNumberParts{}, false
	}

	legNumber, err := strconv.Atoi(m[2])
	if err != nil || legNumber < 1 || legNumber > maxLegNumber {
		return FlightNumberParts{}, false
	}

	return FlightNumberParts{FlightGroupID: m[1], LegNumber: legNumber}, true
}

func IsValidFlightNumber(s string) bool {
	_, ok := ParseFlightNumber(s)
	return ok
}

func IsValidFlightGroupID(s string) bool {
	return flightGroupIDPattern.MatchString(s)
}

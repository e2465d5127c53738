// Package code implements parsing and validation of Bible version
// abbreviation codes.
//
// A composite code has the grammar BASE[-YYYY][!EDITION]:
//   - BASE is 2-8 Unicode letters (combining marks permitted), e.g. "KJV".
//   - YYYY is an optional publication year of exactly four digits,
//     separated by "-", e.g. "KJV-1611".
//   - EDITION is an optional free-form token distinguishing a specific
//     printing, separated by "!", e.g. "KJV-1769!MBS_1997_Printing".
//
// Codes are compared case-insensitively: the uppercase form of BASE is
// the canonical key used for registry uniqueness.
package code

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
)

// Base code length limits, in characters.
const (
	MinBaseLength = 2
	MaxBaseLength = 8
)

// Code is an immutable parsed version code.
type Code struct {
	// Base is the abbreviation segment as supplied (case preserved).
	Base string `json:"base"`

	// Year is the four-digit publication year, or "" when absent.
	Year string `json:"year,omitempty"`

	// Edition is the printing/revision token, or "" when absent.
	Edition string `json:"edition,omitempty"`
}

// Parse parses a composite version code string.
// It is a pure function: the same input always yields the same result
// and nothing is mutated.
//
// Each failure mode keeps its own error kind: whitespace anywhere is a
// WhitespaceError, a base outside 2-8 characters is a LengthError, a
// year suffix that is not exactly four digits is a YearFormatError, an
// empty edition suffix is an EditionError, and anything else that is
// not a letter in the base is a CharsetError.
func Parse(candidate string) (*Code, error) {
	for _, r := range candidate {
		if unicode.IsSpace(r) {
			return nil, errors.NewWhitespace(candidate)
		}
	}

	body, edition, hasEdition := strings.Cut(candidate, "!")
	if hasEdition && edition == "" {
		return nil, errors.NewEdition(candidate)
	}

	// The base is letters only, so the first "-" always starts the year.
	if _, year, hasYear := strings.Cut(body, "-"); hasYear && !isFourDigits(year) {
		return nil, errors.NewYearFormat(candidate, year)
	}

	parsed, err := codeParser.ParseString("", body)
	if err != nil {
		return nil, errors.NewCharset(candidate, "base must contain only letters")
	}

	if n := utf8.RuneCountInString(parsed.Base); n < MinBaseLength || n > MaxBaseLength {
		return nil, errors.NewLength(candidate, parsed.Base, n)
	}

	c := &Code{
		Base:    parsed.Base,
		Edition: edition,
	}
	if parsed.Year != nil {
		c.Year = *parsed.Year
	}
	return c, nil
}

// Validate reports whether candidate is a well-formed composite code.
func Validate(candidate string) error {
	_, err := Parse(candidate)
	return err
}

// MustParse parses a code and panics on error.
// Intended for tests and static initialization with known-good codes.
func MustParse(candidate string) *Code {
	c, err := Parse(candidate)
	if err != nil {
		panic("code: " + err.Error())
	}
	return c
}

// CanonicalKey returns the uppercase form of the base code.
// This is the uniqueness key for registry collision detection.
func (c *Code) CanonicalKey() string {
	return strings.ToUpper(c.Base)
}

// String re-emits the composite form BASE[-YYYY][!EDITION].
func (c *Code) String() string {
	var sb strings.Builder
	sb.WriteString(c.Base)
	if c.Year != "" {
		sb.WriteString("-")
		sb.WriteString(c.Year)
	}
	if c.Edition != "" {
		sb.WriteString("!")
		sb.WriteString(c.Edition)
	}
	return sb.String()
}

// HasYear reports whether a publication year is present.
func (c *Code) HasYear() bool {
	return c.Year != ""
}

// HasEdition reports whether an edition suffix is present.
func (c *Code) HasEdition() bool {
	return c.Edition != ""
}

// isFourDigits reports whether s is exactly four ASCII digits.
func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

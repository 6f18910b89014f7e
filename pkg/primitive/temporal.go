package primitive

import (
	"strings"
	"time"

	"github.com/gofhir/model/pkg/issue"
)

// Precision is the granularity a date, dateTime or instant literal carries.
type Precision int

// Precisions, coarsest first.
const (
	PrecisionNone Precision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
	PrecisionSecond
)

// String returns the precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionSecond:
		return "second"
	default:
		return "none"
	}
}

// parseTemporal parses a literal already matched by one of the grammars and
// applies the calendar checks the regexes cannot express (e.g. 2023-02-30).
func parseTemporal(lit string) (time.Time, Precision, bool) {
	var (
		layout string
		prec   Precision
	)
	switch len(lit) {
	case 4:
		layout, prec = "2006", PrecisionYear
	case 7:
		layout, prec = "2006-01", PrecisionMonth
	case 10:
		layout, prec = "2006-01-02", PrecisionDay
	default:
		layout, prec = time.RFC3339Nano, PrecisionSecond
		// time.Parse has no leap second; 60 is accepted lexically and clamped.
		if len(lit) >= 19 && lit[17:19] == "60" {
			lit = lit[:17] + "59" + lit[19:]
		}
		lit = clampFraction(lit)
	}
	t, err := time.Parse(layout, lit)
	if err != nil {
		return time.Time{}, PrecisionNone, false
	}
	return t, prec, true
}

// clampFraction keeps at most nine fractional digits, the limit of time.Parse.
func clampFraction(lit string) string {
	dot := strings.IndexByte(lit, '.')
	if dot < 0 {
		return lit
	}
	end := dot + 1
	for end < len(lit) && lit[end] >= '0' && lit[end] <= '9' {
		end++
	}
	if end-dot-1 <= 9 {
		return lit
	}
	return lit[:dot+10] + lit[end:]
}

func bounds(lo time.Time, prec Precision) (time.Time, time.Time) {
	switch prec {
	case PrecisionYear:
		return lo, lo.AddDate(1, 0, 0)
	case PrecisionMonth:
		return lo, lo.AddDate(0, 1, 0)
	case PrecisionDay:
		return lo, lo.AddDate(0, 0, 1)
	default:
		return lo, lo
	}
}

// Date is a FHIR date: YYYY, YYYY-MM or YYYY-MM-DD, without time zone.
type Date struct {
	lit string
}

// ParseDate validates s against the FHIR date grammar.
func ParseDate(s string) (Date, error) {
	if !dateRe.MatchString(s) {
		return Date{}, issue.Format("", TypeDate, s)
	}
	if _, _, ok := parseTemporal(s); !ok {
		return Date{}, issue.Format("", TypeDate, s)
	}
	return Date{lit: s}, nil
}

// MustDate is like ParseDate but panics on invalid input.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the day-precision date of t in t's location.
func DateOf(t time.Time) Date {
	return Date{lit: t.Format("2006-01-02")}
}

func (d Date) String() string { return d.lit }
func (d Date) IsZero() bool { return d.lit == "" }

// Precision returns the granularity of the literal.
func (d Date) Precision() Precision {
	_, p, _ := parseTemporal(d.lit)
	return p
}

// Time returns the first instant covered by the date, in UTC.
func (d Date) Time() time.Time {
	t, _, _ := parseTemporal(d.lit)
	return t
}

// Bounds returns the half-open interval [lo, hi) covered by the date.
func (d Date) Bounds() (time.Time, time.Time) {
	t, p, _ := parseTemporal(d.lit)
	return bounds(t, p)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) { return marshalString(d.lit) }

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := unmarshalString(data, TypeDate)
	if err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateTime is a FHIR dateTime: a partial date, or a full date and time with
// a mandatory zone offset.
type DateTime struct {
	lit string
}

// ParseDateTime validates s against the FHIR dateTime grammar.
func ParseDateTime(s string) (DateTime, error) {
	if !dateTimeRe.MatchString(s) {
		return DateTime{}, issue.Format("", TypeDateTime, s)
	}
	if _, _, ok := parseTemporal(s); !ok {
		return DateTime{}, issue.Format("", TypeDateTime, s)
	}
	return DateTime{lit: s}, nil
}

// MustDateTime is like ParseDateTime but panics on invalid input.
func MustDateTime(s string) DateTime {
	dt, err := ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return dt
}

// DateTimeOf returns the second-precision dateTime of t, keeping its offset.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{lit: formatInstant(t)}
}

func (dt DateTime) String() string { return dt.lit }
func (dt DateTime) IsZero() bool { return dt.lit == "" }

// Precision returns the granularity of the literal.
func (dt DateTime) Precision() Precision {
	_, p, _ := parseTemporal(dt.lit)
	return p
}

// Time returns the first instant covered by the value.
func (dt DateTime) Time() time.Time {
	t, _, _ := parseTemporal(dt.lit)
	return t
}

// Bounds returns the interval covered by the value.
func (dt DateTime) Bounds() (time.Time, time.Time) {
	t, p, _ := parseTemporal(dt.lit)
	return bounds(t, p)
}

// NotAfter reports whether start can precede or equal end. Values of
// different precision are compared by their intervals, so "2023-01" is not
// after "2023-01-15T08:00:00Z".
func NotAfter(start, end DateTime) bool {
	if start.IsZero() || end.IsZero() {
		return true
	}
	lo, _ := start.Bounds()
	_, hi := end.Bounds()
	if end.Precision() == PrecisionSecond {
		return !lo.After(hi)
	}
	return lo.Before(hi)
}

// MarshalJSON implements json.Marshaler.
func (dt DateTime) MarshalJSON() ([]byte, error) { return marshalString(dt.lit) }

// UnmarshalJSON implements json.Unmarshaler.
func (dt *DateTime) UnmarshalJSON(data []byte) error {
	s, err := unmarshalString(data, TypeDateTime)
	if err != nil {
		return err
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

// Instant is a FHIR instant: always a full date and time with a zone.
type Instant struct {
	lit string
}

// ParseInstant validates s against the FHIR instant grammar.
func ParseInstant(s string) (Instant, error) {
	if !instantRe.MatchString(s) {
		return Instant{}, issue.Format("", TypeInstant, s)
	}
	if _, _, ok := parseTemporal(s); !ok {
		return Instant{}, issue.Format("", TypeInstant, s)
	}
	return Instant{lit: s}, nil
}

// MustInstant is like ParseInstant but panics on invalid input.
func MustInstant(s string) Instant {
	in, err := ParseInstant(s)
	if err != nil {
		panic(err)
	}
	return in
}

// InstantOf returns the instant for t.
func InstantOf(t time.Time) Instant {
	return Instant{lit: formatInstant(t)}
}

func formatInstant(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format(time.RFC3339)
	}
	return t.Format(time.RFC3339Nano)
}

func (in Instant) String() string { return in.lit }
func (in Instant) IsZero() bool { return in.lit == "" }

// Time returns the instant as a time.Time.
func (in Instant) Time() time.Time {
	t, _, _ := parseTemporal(in.lit)
	return t
}

// MarshalJSON implements json.Marshaler.
func (in Instant) MarshalJSON() ([]byte, error) { return marshalString(in.lit) }

// UnmarshalJSON implements json.Unmarshaler.
func (in *Instant) UnmarshalJSON(data []byte) error {
	s, err := unmarshalString(data, TypeInstant)
	if err != nil {
		return err
	}
	parsed, err := ParseInstant(s)
	if err != nil {
		return err
	}
	*in = parsed
	return nil
}

// Time is a FHIR time of day: hh:mm:ss with optional fraction.
type Time struct {
	lit string
}

// ParseTime validates s against the FHIR time grammar.
func ParseTime(s string) (Time, error) {
	if !timeRe.MatchString(s) {
		return Time{}, issue.Format("", TypeTime, s)
	}
	return Time{lit: s}, nil
}

// MustTime is like ParseTime but panics on invalid input.
func MustTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Time) String() string { return t.lit }
func (t Time) IsZero() bool { return t.lit == "" }

// SinceMidnight returns the offset of the time of day from 00:00:00.
func (t Time) SinceMidnight() time.Duration {
	if t.lit == "" {
		return 0
	}
	lit := t.lit
	if lit[6:8] == "60" {
		lit = lit[:6] + "59" + lit[8:]
	}
	parsed, err := time.Parse("15:04:05", clampFraction(lit))
	if err != nil {
		return 0
	}
	return parsed.Sub(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC))
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) { return marshalString(t.lit) }

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	s, err := unmarshalString(data, TypeTime)
	if err != nil {
		return err
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

package scalar

import (
	"github.com/kezhuw/tomldoc/internal/model"
	"github.com/kezhuw/tomldoc/internal/tomlerr"
)

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysInMonth = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysIn(month, year int) int {
	if month == 2 && isLeap(year) {
		return 29
	}
	return daysInMonth[month-1]
}

// ParseDate parses a "YYYY-MM-DD" local date, validating month range,
// day range (including the leap-year rule), and that the 10-char shape
// matches before range-checking its fields.
func ParseDate(s string) (model.Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return model.Date{}, tomlerr.ErrNotThisShape
	}
	if !digits(s[0:4], 4) || !digits(s[5:7], 2) || !digits(s[8:10], 2) {
		return model.Date{}, tomlerr.ErrNotThisShape
	}
	year := atoi(s[0:4])
	month := atoi(s[5:7])
	day := atoi(s[8:10])
	return validateDate(year, month, day)
}

func validateDate(year, month, day int) (model.Date, error) {
	if year < 0 || year > 9999 {
		return model.Date{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidYear, Input: itoa(year)}
	}
	if month < 1 || month > 12 {
		return model.Date{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidMonth, Input: itoa(month)}
	}
	if day < 1 || day > daysIn(month, year) {
		return model.Date{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidDay, Input: itoa(day)}
	}
	return model.Date{Year: year, Month: month, Day: day}, nil
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ParseTime parses an "HH:MM:SS[.fffffffff]" local time. More than nine
// fractional digits is an InvalidNanoSecond error.
func ParseTime(s string) (model.Time, error) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return model.Time{}, tomlerr.ErrNotThisShape
	}
	if !digits(s[0:2], 2) || !digits(s[3:5], 2) || !digits(s[6:8], 2) {
		return model.Time{}, tomlerr.ErrNotThisShape
	}
	hour := atoi(s[0:2])
	minute := atoi(s[3:5])
	second := atoi(s[6:8])
	ns := 0
	rest := s[8:]
	if rest != "" {
		if rest[0] != '.' || len(rest) < 2 {
			return model.Time{}, tomlerr.ErrNotThisShape
		}
		frac := rest[1:]
		for i := 0; i < len(frac); i++ {
			if !isDigit(frac[i]) {
				return model.Time{}, tomlerr.ErrNotThisShape
			}
		}
		if len(frac) > 9 {
			return model.Time{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidNanoSecond, Input: frac}
		}
		padded := frac + "000000000"[:9-len(frac)]
		ns = atoi(padded)
	}
	return validateTime(hour, minute, second, ns)
}

func validateTime(hour, minute, second, ns int) (model.Time, error) {
	if hour < 0 || hour > 23 {
		return model.Time{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidHour, Input: itoa(hour)}
	}
	if minute < 0 || minute > 59 {
		return model.Time{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidMinute, Input: itoa(minute)}
	}
	if second < 0 || second > 59 {
		return model.Time{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidSecond, Input: itoa(second)}
	}
	return model.Time{Hour: hour, Minute: minute, Second: second, Nanosecond: ns}, nil
}

// ParseDateTime parses a full TOML datetime: a 10-char date, a
// T/t/space separator, a time, and an optional Z/z or +-HH:MM offset.
// Offset minutes are validated in [-(23*60+59), +(23*60+59)] uniformly
// (spec.md Design Notes: adopt the TOML-spec limit on both signs).
func ParseDateTime(s string) (model.DateTime, error) {
	if len(s) < 19 {
		return model.DateTime{}, tomlerr.ErrNotThisShape
	}
	sep := s[10]
	if sep != 'T' && sep != 't' && sep != ' ' {
		return model.DateTime{}, tomlerr.ErrNotThisShape
	}
	date, err := ParseDate(s[0:10])
	if err != nil {
		if err == tomlerr.ErrNotThisShape {
			return model.DateTime{}, tomlerr.ErrNotThisShape
		}
		return model.DateTime{}, err
	}
	rest := s[11:]
	timeLen := 8
	if len(rest) > timeLen && rest[timeLen] == '.' {
		i := timeLen + 1
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
		timeLen = i
	}
	if len(rest) < timeLen {
		return model.DateTime{}, tomlerr.ErrNotThisShape
	}
	tm, err := ParseTime(rest[:timeLen])
	if err != nil {
		if err == tomlerr.ErrNotThisShape {
			return model.DateTime{}, tomlerr.ErrNotThisShape
		}
		return model.DateTime{}, err
	}
	offsetStr := rest[timeLen:]
	var offset *int
	switch {
	case offsetStr == "Z" || offsetStr == "z":
		zero := 0
		offset = &zero
	case offsetStr == "":
		offset = nil
	case len(offsetStr) == 6 && (offsetStr[0] == '+' || offsetStr[0] == '-') && offsetStr[3] == ':':
		if !digits(offsetStr[1:3], 2) || !digits(offsetStr[4:6], 2) {
			return model.DateTime{}, tomlerr.ErrNotThisShape
		}
		hours := atoi(offsetStr[1:3])
		minutes := atoi(offsetStr[4:6])
		total := hours*60 + minutes
		if total > 23*60+59 {
			return model.DateTime{}, &tomlerr.ScalarError{Kind: tomlerr.InvalidTimeOffset, Input: offsetStr}
		}
		if offsetStr[0] == '-' {
			total = -total
		}
		offset = &total
	default:
		return model.DateTime{}, tomlerr.ErrNotThisShape
	}
	return model.DateTime{Date: date, Time: tm, Offset: offset}, nil
}

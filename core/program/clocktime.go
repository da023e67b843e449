package program

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const clockLayout = "15:04:05"

// ClockTime is a time of day with second precision, "HH:MM:SS" on the wire and in the DB.
type ClockTime struct{ time.Time }

// NewClockTime builds a ClockTime from hour, minute and second.
func NewClockTime(h, m, s int) ClockTime {
	return ClockTime{Time: time.Date(0, 1, 1, h, m, s, 0, time.UTC)}
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS".
func ParseClockTime(s string) (ClockTime, error) {
	var ct ClockTime
	return ct, ct.parse(s)
}

func (ct *ClockTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return errors.Errorf("invalid time of day %q", s)
	}
	ct.Time = t
	return nil
}

func (ct ClockTime) String() string {
	return ct.Format(clockLayout)
}

func (ct ClockTime) Before(other ClockTime) bool {
	return ct.Time.Before(other.Time)
}

func (ct *ClockTime) Scan(v interface{}) error {
	switch x := v.(type) {
	case time.Time:
		*ct = NewClockTime(x.Hour(), x.Minute(), x.Second())
		return nil
	case []byte:
		return ct.parse(string(x))
	case string:
		return ct.parse(x)
	case nil:
		ct.Time = time.Time{}
		return nil
	default:
		return errors.Errorf("clocktime: unsupported Scan type %T", v)
	}
}

func (ct ClockTime) Value() (driver.Value, error) {
	return ct.String(), nil
}

func (ct ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ct.String())
}

func (ct *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return ct.parse(s)
}

// Package clock converts schedule times between the API's 24-hour "HH:MM:SS" form
// and the 12-hour "H:MM AM/PM" form shown to users. No timezones are involved.
package clock

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	wireLayout    = "15:04:05"
	inputLayout   = "15:04"
	displayLayout = "3:04 PM"
)

// ToWire turns a 24-hour "HH:MM" input (or an already complete "HH:MM:SS") into "HH:MM:SS".
func ToWire(s string) (string, error) {
	t, err := parse24(s)
	if err != nil {
		return "", err
	}
	return t.Format(wireLayout), nil
}

// ToDisplay turns "HH:MM:SS" (or "HH:MM") into "H:MM AM/PM".
func ToDisplay(s string) (string, error) {
	t, err := parse24(s)
	if err != nil {
		return "", err
	}
	return t.Format(displayLayout), nil
}

// ToInput turns "HH:MM:SS" into the "HH:MM" value of a 24-hour time input.
func ToInput(s string) (string, error) {
	t, err := parse24(s)
	if err != nil {
		return "", err
	}
	return t.Format(inputLayout), nil
}

// ParseDisplay turns "H:MM AM/PM" back into "HH:MM:SS".
func ParseDisplay(s string) (string, error) {
	t, err := time.Parse(displayLayout, strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return "", errors.Errorf("invalid display time %q", s)
	}
	return t.Format(wireLayout), nil
}

func parse24(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layout := wireLayout
	if strings.Count(s, ":") == 1 {
		layout = inputLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid time %q", s)
	}
	return t, nil
}

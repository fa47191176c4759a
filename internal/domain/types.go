package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Flag is a Y/N column value.
type Flag string

const (
	FlagYes Flag = "Y"
	FlagNo  Flag = "N"
)

// FlagOf converts a bool into its column representation.
func FlagOf(b bool) Flag {
	if b {
		return FlagYes
	}
	return FlagNo
}

func (f Flag) Bool() bool { return f == FlagYes }

func (f Flag) Valid() bool { return f == FlagYes || f == FlagNo }

func (f Flag) Value() (driver.Value, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid flag %q", string(f))
	}
	return string(f), nil
}

func (f *Flag) Scan(value interface{}) error {
	s, err := scanString(value)
	if err != nil {
		return err
	}
	parsed := Flag(s)
	if !parsed.Valid() {
		return fmt.Errorf("invalid flag %q", s)
	}
	*f = parsed
	return nil
}

// LiveStatus is the processing state of a queue configuration as seen by the fetch worker.
type LiveStatus string

const (
	LiveStatusAssignPriorityPending LiveStatus = "Assign_priority_pending"
	LiveStatusProcessing            LiveStatus = "Processing"
	LiveStatusFetched               LiveStatus = "Fetched"
	LiveStatusError                 LiveStatus = "Error"
)

func (s LiveStatus) Valid() bool {
	switch s {
	case LiveStatusAssignPriorityPending, LiveStatusProcessing, LiveStatusFetched, LiveStatusError:
		return true
	}
	return false
}

// ParseLiveStatus accepts the stored spelling case-insensitively.
func ParseLiveStatus(s string) (LiveStatus, error) {
	for _, st := range []LiveStatus{
		LiveStatusAssignPriorityPending,
		LiveStatusProcessing,
		LiveStatusFetched,
		LiveStatusError,
	} {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid live process status %q", s)
}

func (s LiveStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid live process status %q", string(s))
	}
	return string(s), nil
}

func (s *LiveStatus) Scan(value interface{}) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	parsed, err := ParseLiveStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("unexpected NULL")
	default:
		return "", fmt.Errorf("unsupported type %T", value)
	}
}

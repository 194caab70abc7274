package storage

import (
	"fmt"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

var timeLayouts = []string{
	sqliteTimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeValue scans timestamps stored natively or as text.
type timeValue struct{ t *time.Time }

func (v timeValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v.t = time.Time{}
		return nil
	case time.Time:
		*v.t = s.UTC()
		return nil
	case string:
		return v.parse(s)
	case []byte:
		return v.parse(string(s))
	case int64:
		*v.t = time.Unix(s, 0).UTC()
		return nil
	}
	return fmt.Errorf("cannot scan %T into time", src)
}

func (v timeValue) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*v.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized time %q", s)
}

// optString scans a nullable text column, NULL becoming "".
type optString struct{ s *string }

func (v optString) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v.s = ""
	case string:
		*v.s = s
	case []byte:
		*v.s = string(s)
	default:
		*v.s = fmt.Sprint(s)
	}
	return nil
}

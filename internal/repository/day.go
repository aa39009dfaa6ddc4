package repository

import (
	"fmt"
	"time"

	"github.com/iliyamo/paillette/internal/model"
)

// dayValue scans a DATE column.  MySQL (parseTime=true) and SQLite (declared
// DATE columns) return time.Time, while SQLite expressions such as MIN(date)
// come back as text; both are accepted.
type dayValue struct{ t *time.Time }

func (d dayValue) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d.t = model.Day(v)
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		*d.t = time.Time{}
	default:
		return fmt.Errorf("cannot scan %T into a day", src)
	}
	return nil
}

func (d dayValue) parse(s string) error {
	if len(s) > len(model.DayLayout) {
		s = s[:len(model.DayLayout)]
	}
	t, err := model.ParseDay(s)
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

// day wraps a destination for Scan.
func day(t *time.Time) dayValue { return dayValue{t: t} }

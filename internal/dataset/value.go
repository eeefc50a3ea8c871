package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindNull marks a missing cell.
	KindNull Kind = iota
	// KindText holds an uncoerced or categorical string.
	KindText
	// KindNumber holds a float64.
	KindNumber
	// KindTime holds a calendar date.
	KindTime
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a single table cell. The zero value is the null cell.
type Value struct {
	kind Kind
	text string
	num  float64
	ts   time.Time
}

// Null returns the missing-value cell.
func Null() Value {
	return Value{kind: KindNull}
}

// Text returns a text cell.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Timestamp returns a date cell.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Kind returns the variant tag of the cell.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float returns the numeric payload. The second return is false when the
// cell is not a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the date payload. The second return is false when the cell is
// not a date.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.ts, true
}

// TextValue returns the text payload. The second return is false when the
// cell is not text.
func (v Value) TextValue() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Equal reports whether two cells hold the same variant and payload.
// Timestamps compare with time.Time.Equal so location differences do not
// break duplicate detection.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	default:
		return false
	}
}

// String renders the cell for reports and CSV export. Null cells render as
// the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.ts.Format("2006-01-02")
	default:
		return fmt.Sprintf("invalid(%d)", v.kind)
	}
}

package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

type FieldKind int

const (
	Text FieldKind = iota
	Number
	Flag
)

func (k FieldKind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Flag:
		return "flag"
	}
	return "unknown"
}

// Value is a single typed field value of a Record.
type Value struct {
	kind   FieldKind
	text   string
	number decimal.Decimal
	flag   bool
}

func TextValue(s string) Value {
	return Value{kind: Text, text: s}
}

func NumberValue(d decimal.Decimal) Value {
	return Value{kind: Number, number: d}
}

func FlagValue(b bool) Value {
	return Value{kind: Flag, flag: b}
}

func (v Value) Kind() FieldKind         { return v.kind }
func (v Value) Text() string            { return v.text }
func (v Value) Number() decimal.Decimal { return v.number }
func (v Value) Flag() bool              { return v.flag }

// String formats the value the way it is shown in an input control.
func (v Value) String() string {
	switch v.kind {
	case Number:
		return v.number.String()
	case Flag:
		return strconv.FormatBool(v.flag)
	}
	return v.text
}

// Equal compares numbers by value, so 10.50 and 10.5 are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Number:
		return v.number.Equal(o.number)
	case Flag:
		return v.flag == o.flag
	}
	return v.text == o.text
}

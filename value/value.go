/*
Package value provides a tagged value type for stacks that hold mixed types.
A Value is one of a closed set of variants: nil, int64, float64, string,
bool, error, codeblock or array.  For performance-critical code, use a typed
stack.Stack[int64] or stack.Stack[float64] directly; Value exists for the
cases where one container must carry heterogeneous elements.

Values carry their own coercions and a fixed binary encoding:

	v := value.Int(42)

	v.Float64() // 42.0
	v.Text()    // "42"
	v.Truth()   // true

	b := v.Bytes()
	back := value.Decode(b)
	v.Equal(back) // true

Numeric comparison promotes an int/float pair to float, so
value.Int(42).Equal(value.Float(42.0)) is true.  Cross-type comparisons
(say, a string against an int) are unequal and unordered.
*/
package value

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Type tags a Value's variant.  The tag values are the wire encoding's
// first byte; do not reorder.
type Type uint8

const (
	TypeNil Type = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeError
	TypeCodeblock
	TypeArray
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeError:
		return "error"
	case TypeCodeblock:
		return "codeblock"
	case TypeArray:
		return "array"
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// Codeblock is a deferred block of code: parameter names plus an opaque body
// whose interpretation depends on context.
type Codeblock struct {
	Params []string
	Body   []byte
}

// Value is a dynamically typed value.  The zero value is the nil variant.
type Value struct {
	t    Type
	i    int64
	f    float64
	s    string // payload for both string and error variants
	b    bool
	code *Codeblock
	arr  []Value
}

// Nil is the nil variant.
var Nil = Value{}

// Int creates an int variant.
func Int(v int64) Value { return Value{t: TypeInt, i: v} }

// Float creates a float variant.
func Float(v float64) Value { return Value{t: TypeFloat, f: v} }

// String creates a string variant.
func String(v string) Value { return Value{t: TypeString, s: v} }

// Bool creates a bool variant.
func Bool(v bool) Value { return Value{t: TypeBool, b: v} }

// Error creates an error variant with a "code: message" payload.
func Error(code, msg string) Value {
	return Value{t: TypeError, s: code + ": " + msg}
}

// Block creates a codeblock variant.
func Block(params []string, body []byte) Value {
	return Value{t: TypeCodeblock, code: &Codeblock{Params: params, Body: body}}
}

// Array creates an array variant of nested values.
func Array(vals ...Value) Value { return Value{t: TypeArray, arr: vals} }

// Type returns the variant tag.
func (v Value) Type() Type { return v.t }

// Int64 coerces the value to an int64: floats truncate, strings parse (or
// yield 0), bools map to 0/1, everything else is 0.
func (v Value) Int64() int64 {
	switch v.t {
	case TypeInt:
		return v.i
	case TypeFloat:
		return int64(v.f)
	case TypeString:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case TypeBool:
		if v.b {
			return 1
		}
		return 0
	}
	return 0
}

// Float64 coerces the value to a float64 with the same rules as Int64.
func (v Value) Float64() float64 {
	switch v.t {
	case TypeInt:
		return float64(v.i)
	case TypeFloat:
		return v.f
	case TypeString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0
		}
		return f
	case TypeBool:
		if v.b {
			return 1
		}
		return 0
	}
	return 0
}

// Text renders the value as a string.  Floats with no fractional part and
// magnitude below 1e15 render in integer form.
func (v Value) Text() string {
	switch v.t {
	case TypeNil:
		return "nil"
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		if _, frac := math.Modf(v.f); frac == 0 && math.Abs(v.f) < 1e15 {
			return strconv.FormatInt(int64(v.f), 10)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeString, TypeError:
		return v.s
	case TypeBool:
		if v.b {
			return "true"
		}
		return "false"
	case TypeCodeblock:
		return "<codeblock>"
	case TypeArray:
		return "<array:" + strconv.Itoa(len(v.arr)) + ">"
	}
	return "nil"
}

// Truth coerces the value to a bool: nonzero numbers, non-empty strings and
// non-empty arrays are true; nil, errors and codeblocks are false.
func (v Value) Truth() bool {
	switch v.t {
	case TypeInt:
		return v.i != 0
	case TypeFloat:
		return v.f != 0
	case TypeString:
		return v.s != ""
	case TypeBool:
		return v.b
	case TypeArray:
		return len(v.arr) != 0
	}
	return false
}

// Elements returns the nested values of an array variant.
func (v Value) Elements() ([]Value, bool) {
	if v.t != TypeArray {
		return nil, false
	}
	return v.arr, true
}

// Code returns the codeblock of a codeblock variant.
func (v Value) Code() (Codeblock, bool) {
	if v.t != TypeCodeblock || v.code == nil {
		return Codeblock{}, false
	}
	return *v.code, true
}

// IsNil returns true for the nil variant.
func (v Value) IsNil() bool { return v.t == TypeNil }

// IsNumeric returns true for the int and float variants.
func (v Value) IsNumeric() bool { return v.t == TypeInt || v.t == TypeFloat }

// IsError returns true for the error variant.
func (v Value) IsError() bool { return v.t == TypeError }

// IsArray returns true for the array variant.
func (v Value) IsArray() bool { return v.t == TypeArray }

// IsBlock returns true for the codeblock variant.
func (v Value) IsBlock() bool { return v.t == TypeCodeblock }

// Equal reports whether two values are equal.  An int and a float compare
// as floats; all other cross-type pairs are unequal, as are codeblocks and
// arrays (they have no equality).
func (v Value) Equal(o Value) bool {
	switch {
	case v.t == TypeNil && o.t == TypeNil:
		return true
	case v.t == TypeBool && o.t == TypeBool:
		return v.b == o.b
	case v.t == TypeString && o.t == TypeString:
		return v.s == o.s
	case v.t == TypeError && o.t == TypeError:
		return v.s == o.s
	case v.t == TypeInt && o.t == TypeInt:
		return v.i == o.i
	case v.t == TypeFloat && o.t == TypeFloat:
		return v.f == o.f
	case v.t == TypeInt && o.t == TypeFloat:
		return float64(v.i) == o.f
	case v.t == TypeFloat && o.t == TypeInt:
		return v.f == float64(o.i)
	}
	return false
}

// Compare orders two values.  It returns -1, 0 or 1 and ok == true when the
// pair is ordered: numerics against numerics (int/float pairs promote to
// float) and strings against strings.  Everything else, including any NaN,
// is unordered and returns ok == false.
func (v Value) Compare(o Value) (c int, ok bool) {
	switch {
	case v.IsNumeric() && o.IsNumeric():
		if v.t == TypeInt && o.t == TypeInt {
			return cmpOrdered(v.i, o.i), true
		}
		a, b := v.Float64(), o.Float64()
		if math.IsNaN(a) || math.IsNaN(b) {
			return 0, false
		}
		return cmpOrdered(a, b), true
	case v.t == TypeString && o.t == TypeString:
		return cmpOrdered(v.s, o.s), true
	}
	return 0, false
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Bytes serializes the value: a 1-byte type tag followed by a type-specific
// little-endian payload.  Codeblock and array variants are not serializable
// and encode as nil.
func (v Value) Bytes() []byte {
	switch v.t {
	case TypeInt:
		b := make([]byte, 9)
		b[0] = byte(TypeInt)
		binary.LittleEndian.PutUint64(b[1:], uint64(v.i))
		return b
	case TypeFloat:
		b := make([]byte, 9)
		b[0] = byte(TypeFloat)
		binary.LittleEndian.PutUint64(b[1:], math.Float64bits(v.f))
		return b
	case TypeString, TypeError:
		b := make([]byte, 5+len(v.s))
		b[0] = byte(v.t)
		binary.LittleEndian.PutUint32(b[1:], uint32(len(v.s)))
		copy(b[5:], v.s)
		return b
	case TypeBool:
		if v.b {
			return []byte{byte(TypeBool), 1}
		}
		return []byte{byte(TypeBool), 0}
	}
	// Nil, and the variants with no serialized form.
	return []byte{byte(TypeNil)}
}

// Decode deserializes a value produced by Bytes().  Anything short,
// truncated or unrecognized decodes as the nil variant.
func Decode(b []byte) Value {
	if len(b) == 0 {
		return Nil
	}

	switch Type(b[0]) {
	case TypeNil:
		return Nil
	case TypeInt:
		if len(b) < 9 {
			return Nil
		}
		return Int(int64(binary.LittleEndian.Uint64(b[1:])))
	case TypeFloat:
		if len(b) < 9 {
			return Nil
		}
		return Float(math.Float64frombits(binary.LittleEndian.Uint64(b[1:])))
	case TypeString, TypeError:
		if len(b) < 5 {
			return Nil
		}
		n := int(binary.LittleEndian.Uint32(b[1:]))
		if len(b) < 5+n {
			return Nil
		}
		v := Value{t: Type(b[0]), s: string(b[5 : 5+n])}
		return v
	case TypeBool:
		if len(b) < 2 {
			return Nil
		}
		return Bool(b[1] != 0)
	}
	return Nil
}

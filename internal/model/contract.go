package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ErrTrailingData is returned by Decode when more than one JSON value is present.
var ErrTrailingData = errors.New("unexpected data after JSON value")

const (
	// FieldID is the server-assigned integer key.
	FieldID = "id"
	// FieldContractNo is the caller-supplied key used for bulk deletes.
	FieldContractNo = "contractNo"
)

// Contract is an arbitrary JSON object supplied by the caller.
// Only "id" (assigned by the service) and "contractNo" (delete key) carry meaning;
// every other field is stored as-is. Numbers are kept as json.Number so they
// round-trip in their original textual form.
type Contract map[string]any

// ID returns the contract's integer id. ok is false when the id is missing or
// is not an integer.
func (c Contract) ID() (int64, bool) {
	switch v := c[FieldID].(type) {
	case json.Number:
		if id, err := v.Int64(); err == nil {
			return id, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return wholeInt64(f)
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return wholeInt64(v)
	default:
		return 0, false
	}
}

// wholeInt64 accepts f when it has no fractional part and lies in the int64
// range, so 5.0 and 1e2 are read as 5 and 100.
func wholeInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// SetID stores id in its JSON number form.
func (c Contract) SetID(id int64) {
	c[FieldID] = json.Number(strconv.FormatInt(id, 10))
}

// ContractNo returns the raw "contractNo" value and whether it is present.
func (c Contract) ContractNo() (any, bool) {
	v, ok := c[FieldContractNo]
	return v, ok
}

// Decode parses data with UseNumber enabled. Callers pick the target type
// (a Contract, a []Contract, a request DTO).
func Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}

// SameValue reports whether a and b are the same JSON scalar: same type and
// same value. Objects and arrays never match, mirroring reference equality.
func SameValue(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case json.Number:
		bv, ok := b.(json.Number)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		af, aerr := av.Float64()
		bf, berr := bv.Float64()
		return aerr == nil && berr == nil && af == bf
	case nil:
		return b == nil
	default:
		return false
	}
}

package yahoo

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// rawValue accepts a bare number, a {"raw": n, "fmt": "..."} object,
// or a numeric string. Anything else decodes as absent.
type rawValue struct {
	v *float64
}

func (r *rawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	r.v = nil

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			Raw *float64 `json:"raw"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		r.v = obj.Raw
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.NewReplacer(",", "", " ", "").Replace(s)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			r.v = &f
		}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err == nil {
			r.v = &f
		}
	}
	return nil
}

// first returns the first present value
func first(values ...rawValue) *float64 {
	for _, v := range values {
		if v.v != nil {
			out := *v.v
			return &out
		}
	}
	return nil
}

// percent scales a fraction to the 0-100 range
func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * 100
	return &out
}

package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat decodes from a JSON number or a numeric string. The admin panel
// submits form values, so "249.90" and 249.90 must both land as a float.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// FlexInt decodes from a JSON number or a numeric string.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	// tolerate decimal input for integer fields
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*i = FlexInt(int(v))
	return nil
}

func (i FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(i))
}

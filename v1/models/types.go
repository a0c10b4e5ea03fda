package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleValue holds a monetary amount submitted either as a JSON number or a string.
// The raw text is kept so services can apply their own parse rules.
type FlexibleValue string

// UnmarshalJSON accepts 12.5, "12.5" and null
func (v *FlexibleValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("invalid value: %w", err)
		}
		*v = FlexibleValue(strings.TrimSpace(str))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("value must be a number or numeric string, got %s", string(data))
	}
	*v = FlexibleValue(num.String())
	return nil
}

// Parse converts the raw text into a non-negative finite float
func (v FlexibleValue) Parse() (float64, error) {
	raw := strings.TrimSpace(string(v))
	if raw == "" {
		return 0, fmt.Errorf("value is required")
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a number", raw)
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("value %q is not a number", raw)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("value must not be negative")
	}
	return parsed, nil
}

// FlexibleStringSlice is a custom type that can unmarshal from either a string or []string
type FlexibleStringSlice []string

// UnmarshalJSON implements custom unmarshaling to handle both string and []string
func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var strArray []string
	arrayErr := json.Unmarshal(data, &strArray)
	if arrayErr == nil {
		*f = FlexibleStringSlice(strArray)
		return nil
	}

	var str string
	stringErr := json.Unmarshal(data, &str)
	if stringErr == nil {
		if str == "" {
			*f = FlexibleStringSlice{}
			return nil
		}
		*f = FlexibleStringSlice([]string{str})
		return nil
	}

	return fmt.Errorf("failed to unmarshal FlexibleStringSlice: cannot parse as []string (%v) or string (%v), data: %s",
		arrayErr, stringErr, string(data))
}

// NonEmpty returns the trimmed, non-blank entries
func (f FlexibleStringSlice) NonEmpty() []string {
	out := make([]string, 0, len(f))
	for _, s := range f {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

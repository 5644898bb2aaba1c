package utils

import (
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return result
}

// ParseFloat converts string to float64, ok reports whether value was set and valid
func ParseFloat(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}

	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	return result, true
}

// ParseBool converts string to *bool, nil when unset or invalid
func ParseBool(value string) *bool {
	if value == "" {
		return nil
	}

	result, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}

	return &result
}

package models

import "strings"

// Description is an optional expense description. The zero value is absent.
// Absent and empty are different states only until a boundary converts them:
// storage keeps absent as NULL, report listings render it as "".
type Description struct {
	value   string
	present bool
}

// NoDescription is the absent description.
var NoDescription = Description{}

// SomeDescription returns a present description holding s as-is.
func SomeDescription(s string) Description {
	return Description{value: s, present: true}
}

// NormalizeDescription trims raw and treats nil or blank input as absent.
func NormalizeDescription(raw *string) Description {
	if raw == nil {
		return NoDescription
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return NoDescription
	}
	return SomeDescription(trimmed)
}

// Get returns the value and whether it is present.
func (d Description) Get() (string, bool) {
	return d.value, d.present
}

// IsPresent reports whether a description was provided.
func (d Description) IsPresent() bool {
	return d.present
}

// OrEmpty returns the value, or "" when absent.
func (d Description) OrEmpty() string {
	if !d.present {
		return ""
	}
	return d.value
}

// Ptr returns a pointer to the value, or nil when absent.
func (d Description) Ptr() *string {
	if !d.present {
		return nil
	}
	v := d.value
	return &v
}

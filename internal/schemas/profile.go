package schemas

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/coach-report/internal/types"
	"github.com/jonathan/coach-report/schemas"
)

// ValidateProfile checks a profile document against the profile schema.
func ValidateProfile(doc []byte) error {
	return ValidateBytes(schemas.Profile, doc)
}

// ValidatePlan checks parser output against the plan schema.
func ValidatePlan(doc []byte) error {
	return ValidateBytes(schemas.Plan, doc)
}

// ParseProfile validates doc against the profile schema and decodes it.
func ParseProfile(doc []byte) (*types.Profile, error) {
	if err := ValidateProfile(doc); err != nil {
		return nil, err
	}
	var p types.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// LoadProfile reads and validates a profile file.
func LoadProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

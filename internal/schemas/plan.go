package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/course-roadmap/internal/types"
)

const planSchemaName = "plan.schema.json"

//go:embed plan.schema.json
var planSchema []byte

// PlanSchema returns the embedded plan JSON Schema
func PlanSchema() string {
	return string(planSchema)
}

// ValidatePlanJSON validates encoded plan JSON against the plan schema
func ValidatePlanJSON(data []byte) error {
	return validate(planSchemaName, gojsonschema.NewBytesLoader(planSchema), gojsonschema.NewBytesLoader(data))
}

// MarshalPlan encodes the plan as indented JSON and validates the result.
// The returned bytes are only meaningful when err is nil.
func MarshalPlan(plan *types.Plan) ([]byte, error) {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := ValidatePlanJSON(data); err != nil {
		return nil, err
	}
	return data, nil
}

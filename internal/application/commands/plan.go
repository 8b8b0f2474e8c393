package commands

import "projectkeeper/internal/domain"

// PlanResult is a dry run: the plan plus the precondition check it would face
type PlanResult struct {
	Plan       domain.OperationPlan     `json:"plan"`
	Validation *domain.ValidationResult `json:"validation,omitempty"`
}

// Ready reports whether executing the plan would pass validation
func (r *PlanResult) Ready() bool {
	return r.Validation == nil || r.Validation.Valid
}

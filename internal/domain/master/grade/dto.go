package grade

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

const maxNameLength = 100

type CreateGradeRequest struct {
	Name string `json:"name"`
}

// Validate checks the trimmed name; the service stores it trimmed too.
func (r *CreateGradeRequest) Validate() error {
	var errs validator.ValidationErrors

	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	case len(name) > maxNameLength:
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GradeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewGradeResponse(g Grade) GradeResponse {
	return GradeResponse{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt}
}

// Package refine implements the Actor/Critic refinement loop: an Actor model
// proposes a tool trajectory, a Critic model reviews it against the tool
// catalogue, and the loop iterates with state-replacement context until the
// Critic approves or the iteration budget runs out.
package refine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedOutput marks model output with no parseable JSON document.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrSchemaViolation marks output that parsed as JSON but failed
	// structural validation or the catalogue cross-check.
	ErrSchemaViolation = errors.New("schema violation")
)

// MalformedOutputError reports that a model turn produced no JSON document
// any extraction strategy could recover.
type MalformedOutputError struct {
	Role   string
	Detail string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s output is not parseable JSON: %s", e.Role, e.Detail)
}

func (e *MalformedOutputError) Is(target error) bool { return target == ErrMalformedOutput }

// SchemaViolationError reports every structural and catalogue problem found
// in an otherwise parseable model document. All problems are collected so a
// corrective re-prompt can list them at once.
type SchemaViolationError struct {
	Role     string
	Problems []string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("%s output violates the expected schema: %s",
		e.Role, strings.Join(e.Problems, "; "))
}

func (e *SchemaViolationError) Is(target error) bool { return target == ErrSchemaViolation }

func schemaViolation(role string, problems ...string) *SchemaViolationError {
	return &SchemaViolationError{Role: role, Problems: problems}
}

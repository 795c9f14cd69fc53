package trajectory

import "time"

// TerminationReason disambiguates why the refinement loop stopped.
type TerminationReason string

const (
	// TerminationApproved means the Critic approved the final trajectory.
	TerminationApproved TerminationReason = "approved"

	// TerminationMaxIterations means the iteration budget K was exhausted;
	// the final trajectory is the last one produced, reviewed or not.
	TerminationMaxIterations TerminationReason = "max_iterations"

	// TerminationFailed means the loop aborted: retry budget exhausted on
	// unusable model output, a fatal provider error, or cancellation. The
	// result carries no usable trajectory.
	TerminationFailed TerminationReason = "failed"
)

// Role identifies which agent produced a turn.
type Role string

const (
	RoleActor  Role = "actor"
	RoleCritic Role = "critic"
)

// IterationRecord is an append-only log entry for one loop turn. Records are
// observability output only; the loop never reads them back into its
// decision logic.
type IterationRecord struct {
	// Iteration is the 0-based refinement cycle this turn belongs to.
	Iteration int `json:"iteration"`

	Role Role `json:"role"`

	// OutputDigest is a truncated preview of the model's raw output.
	OutputDigest string `json:"output_digest"`

	// Valid reports whether the turn's output parsed and validated.
	Valid bool `json:"valid"`

	// Verdict is set on valid Critic turns.
	Verdict Verdict `json:"verdict,omitempty"`

	// Warning records non-fatal anomalies, such as a contradictory
	// verdict resolved by the issues-emptiness rule.
	Warning string `json:"warning,omitempty"`

	// Error records why the turn's output was rejected, when it was.
	Error string `json:"error,omitempty"`

	// Attempts is how many model calls this turn took, including
	// corrective re-prompts after parse failures.
	Attempts int `json:"attempts"`

	InputTokens  int64         `json:"input_tokens"`
	OutputTokens int64         `json:"output_tokens"`
	Duration     time.Duration `json:"duration"`
	Timestamp    time.Time     `json:"timestamp"`
}

// RefinementResult is the terminal value of one refinement run. It is
// created once at loop exit and immutable thereafter.
type RefinementResult struct {
	// Trajectory is the final plan: approved, best-effort (exhausted), or
	// nil when the run failed before any trajectory parsed.
	Trajectory *Trajectory `json:"trajectory"`

	// Approved reports whether the Critic explicitly approved Trajectory.
	Approved bool `json:"approved"`

	Termination TerminationReason `json:"termination"`

	// Iterations is the full turn log, in order.
	Iterations []IterationRecord `json:"iterations"`

	// Prompt is the original user request.
	Prompt string `json:"prompt"`

	TotalInputTokens  int64         `json:"total_input_tokens"`
	TotalOutputTokens int64         `json:"total_output_tokens"`
	Elapsed           time.Duration `json:"elapsed"`
}

// ActorTurns counts the Actor turns in the iteration log.
func (r *RefinementResult) ActorTurns() int {
	return r.countTurns(RoleActor)
}

// CriticTurns counts the Critic turns in the iteration log.
func (r *RefinementResult) CriticTurns() int {
	return r.countTurns(RoleCritic)
}

func (r *RefinementResult) countTurns(role Role) int {
	n := 0
	for _, rec := range r.Iterations {
		if rec.Role == role {
			n++
		}
	}
	return n
}

// TotalTokens is the combined input and output token count across all turns.
func (r *RefinementResult) TotalTokens() int64 {
	return r.TotalInputTokens + r.TotalOutputTokens
}

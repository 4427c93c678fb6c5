// Package types provides type definitions for structured data used throughout the letter pipeline.
package types

// Chamber identifies which house of parliament a candidate contests.
type Chamber string

// Chamber values
const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
)

// Role identifies whether a candidate currently holds a seat.
type Role string

// Role values
const (
	RoleMP        Role = "mp"
	RoleSenator   Role = "senator"
	RoleCandidate Role = "candidate"
)

// Policy is a single published position of a candidate.
type Policy struct {
	Topic       string `json:"topic"`
	Stance      string `json:"stance"`
	Description string `json:"description"`
}

// Candidate represents a parliamentary candidate or sitting member.
// Division is only meaningful for the house, State for the senate.
type Candidate struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Party    string   `json:"party"`
	Email    string   `json:"email"`
	Chamber  Chamber  `json:"chamber"`
	Division string   `json:"division,omitempty"`
	State    string   `json:"state,omitempty"`
	Role     Role     `json:"role,omitempty"`
	Policies []Policy `json:"policies,omitempty"`
}

// DisplayName returns the candidate name, falling back to the identifier.
func (c Candidate) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// IsSitting reports whether the candidate currently holds a seat in their chamber.
func (c Candidate) IsSitting() bool {
	return c.Role == RoleMP || c.Role == RoleSenator
}

package models

import "github.com/mariil/leadbot/internal/segment"

// Step is the user's position in the brief-collection flow.
type Step string

const (
	StepNone     Step = ""
	StepGoal     Step = "goal"
	StepDeadline Step = "deadline"
	StepContact  Step = "contact"
)

// Brief holds the three structured answers collected conversationally.
// Values are stored trimmed; an empty string is a valid answer.
type Brief struct {
	Goal     string `json:"goal,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

// Session is the per-chat dialogue state. Step never reaches StepDeadline
// without Brief.Goal set, nor StepContact without Brief.Deadline set.
type Session struct {
	ChatID  int64           `json:"chatID"`
	Segment segment.Segment `json:"segment,omitempty"`
	Step    Step            `json:"step,omitempty"`
	Brief   Brief           `json:"brief"`
}

// ResetFlow drops any in-progress brief while keeping the chosen segment.
func (s *Session) ResetFlow() {
	s.Step = StepNone
	s.Brief = Brief{}
}

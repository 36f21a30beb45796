// internal/registry/models.go
package registry

// Activity is the externally visible view of one catalog entry.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Enrollment confirms a roster change.
type Enrollment struct {
	Activity    string `json:"activity"`
	Participant string `json:"participant"`
}

func (a Activity) clone() Activity {
	participants := make([]string, len(a.Participants))
	copy(participants, a.Participants)
	a.Participants = participants
	return a
}

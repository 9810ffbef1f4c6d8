package models

// Status is the dispute lifecycle position of a recorded operation
type Status uint8

const (
	StatusNone Status = iota
	StatusDisputed
	StatusResolved
	StatusChargedBack
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusDisputed:
		return "disputed"
	case StatusResolved:
		return "resolved"
	case StatusChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

// Operation is a history entry for a past deposit or withdrawal
type Operation struct {
	Amount Money
	Status Status
}

// AccountSnapshot is a point-in-time copy of an account handed to report sinks
type AccountSnapshot struct {
	Client    ClientID
	Available Money
	Held      Money
	Total     Money
	Locked    bool
}

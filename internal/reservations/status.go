package reservations

import "fmt"

type Status int16

const (
	StatusActive    Status = 1
	StatusCancelled Status = 2
)

var validNext = map[Status]map[Status]bool{
	StatusActive:    {StatusCancelled: true},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int16(s))
	}
}

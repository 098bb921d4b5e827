package appointment

import "github.com/BruksfildServices01/doctor-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
)

// transitions é a tabela completa; completed e cancelled são terminais.
var transitions = map[Status][]Status{
	StatusScheduled:   {StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusRescheduled: {StatusCompleted, StatusCancelled},
}

// OpenStatuses ocupam agenda e são elegíveis para o sweeper.
var OpenStatuses = []Status{StatusScheduled, StatusRescheduled}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusRescheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrInvalidTransition(string(from), string(to))
}

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

// CanComplete define se um agendamento pode ser concluído
func CanComplete(current Status) error {
	return CanTransition(current, StatusCompleted)
}

func CanReschedule(current Status) error {
	return CanTransition(current, StatusRescheduled)
}

func InitialStatus() Status {
	return StatusScheduled
}

func OpenStatusStrings() []string {
	out := make([]string, len(OpenStatuses))
	for i, s := range OpenStatuses {
		out[i] = string(s)
	}
	return out
}

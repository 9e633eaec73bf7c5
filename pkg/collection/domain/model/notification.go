package model

type Severity int

const (
	Success Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "success"
}

type Notification struct {
	Severity Severity
	Message  string
}

type Notifier interface {
	Notify(n Notification)
}

// Confirmer asks the user a blocking yes/no question before a destructive
// operation.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

type IDGenerator interface {
	NextID() (string, error)
}

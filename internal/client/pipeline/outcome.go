package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrNoProfile   = errors.New("no profile")
	ErrNoAnalysis  = errors.New("no body analysis")
	ErrInvalidStep = errors.New("invalid step")
	ErrNoPlan      = errors.New("no plan")
)

// Kind classifies the result of a mutation.
type Kind int

const (
	// Applied means the change is in memory, in the mirror and, when signed in, remote.
	Applied Kind = iota
	// AppliedWithSyncWarning means the change is local and durable but the remote write failed.
	AppliedWithSyncWarning
	// Rejected means nothing changed.
	Rejected
)

func (k Kind) String() string {
	switch k {
	case Applied:
		return "applied"
	case AppliedWithSyncWarning:
		return "applied_with_sync_warning"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Outcome struct {
	Kind Kind
	Err  error
}

func applied() Outcome {
	return Outcome{Kind: Applied}
}

func rejected(err error) Outcome {
	return Outcome{Kind: Rejected, Err: err}
}

// synced turns the error of a best-effort remote write into an outcome.
func synced(err error) Outcome {
	if err != nil {
		return Outcome{Kind: AppliedWithSyncWarning, Err: err}
	}
	return applied()
}

// OK reports whether the change was applied, with or without a warning.
func (o Outcome) OK() bool {
	return o.Kind != Rejected
}

package workorder

import (
	"fmt"
	"sync"
)

// RequiredKind names a class of associations a rate type needs before its
// order can leave the ongoing status.
type RequiredKind string

const (
	RequireWorkers        RequiredKind = "workers"
	RequireItems          RequiredKind = "items"
	RequireWorkersOrItems RequiredKind = "workers_or_items"
)

// TransitionErrorKind enum
type TransitionErrorKind string

const (
	TransitionErrorGuardFailure      TransitionErrorKind = "guard_failure"
	TransitionErrorIllegalTransition TransitionErrorKind = "illegal_transition"
)

// TransitionError distinguishes a failed guard (the event was legal but a
// precondition did not hold) from an event that is not defined for the
// current status at all.
type TransitionError struct {
	Kind       TransitionErrorKind
	Message    string
	FromStatus Status
	Event      Event
}

func (e *TransitionError) Error() string {
	return e.Message
}

// transitions is the full legal transition graph. Completed and rejected are
// terminal: no outgoing events.
var transitions = map[Status]map[Event]Status{
	StatusOngoing: {
		EventMarkComplete: StatusPending,
	},
	StatusPending: {
		EventApprove:          StatusCompleted,
		EventReject:           StatusRejected,
		EventRequestAmendment: StatusAmendmentRequired,
	},
	StatusAmendmentRequired: {
		EventResubmit: StatusOngoing,
	},
}

const defaultGuardMessage = "Required details are missing, the order cannot be completed yet"

var (
	registryMu sync.RWMutex

	// completionRequirements declares, per rate type, which associations
	// must be non-empty before mark_complete. The guard passes when ANY
	// declared requirement is satisfied.
	completionRequirements = map[RateType][]RequiredKind{
		RateTypeNormal:    {RequireWorkers},
		RateTypeWorkDays:  {RequireWorkers},
		RateTypeResources: {RequireWorkersOrItems},
	}

	guardMessages = map[RequiredKind]string{
		RequireWorkers:        "At least one worker must be assigned before completing this order",
		RequireItems:          "At least one item must be recorded before completing this order",
		RequireWorkersOrItems: "At least one worker or item must be recorded before completing this order",
	}
)

// RegisterCompletionRequirement declares the required-association set for a
// rate type. Existing entries are replaced.
func RegisterCompletionRequirement(rt RateType, kinds ...RequiredKind) {
	registryMu.Lock()
	defer registryMu.Unlock()
	completionRequirements[rt] = kinds
}

// RequiredAssociations returns the declared set for a rate type. Unknown
// rate types have no requirements.
func RequiredAssociations(rt RateType) []RequiredKind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return completionRequirements[rt]
}

// RegisterGuardMessage adds or replaces the canned message for a kind.
func RegisterGuardMessage(kind RequiredKind, message string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	guardMessages[kind] = message
}

// GuardMessage resolves the canned message for a kind, falling back to the
// default when the kind was never registered.
func GuardMessage(kind RequiredKind) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if msg, ok := guardMessages[kind]; ok {
		return msg
	}
	return defaultGuardMessage
}

// ValidRateType reports whether rt is one of the known rate types.
func ValidRateType(rt RateType) bool {
	switch rt {
	case RateTypeNormal, RateTypeWorkDays, RateTypeResources:
		return true
	}
	return false
}

// ParseEvent maps a wire string onto an Event.
func ParseEvent(s string) (Event, bool) {
	switch Event(s) {
	case EventMarkComplete, EventApprove, EventReject, EventRequestAmendment, EventResubmit:
		return Event(s), true
	}
	return "", false
}

// Apply attempts an event against the order's current status and returns
// the updated copy. The receiver is a value: callers keep their original
// on failure.
func (wo WorkOrder) Apply(event Event) (WorkOrder, *TransitionError) {
	next, ok := transitions[wo.Status][event]
	if !ok {
		return wo, &TransitionError{
			Kind:       TransitionErrorIllegalTransition,
			Message:    fmt.Sprintf("cannot transition from %s: event %s is not defined", wo.Status, event),
			FromStatus: wo.Status,
			Event:      event,
		}
	}

	if event == EventMarkComplete {
		if terr := wo.completionGuard(); terr != nil {
			return wo, terr
		}
	}

	wo.Status = next
	return wo, nil
}

// completionGuard evaluates the rate type's required-association set.
// Satisfying any one declared requirement passes the guard.
func (wo *WorkOrder) completionGuard() *TransitionError {
	kinds := RequiredAssociations(wo.RateType)
	if len(kinds) == 0 {
		return nil
	}

	for _, kind := range kinds {
		if kind.satisfiedBy(wo) {
			return nil
		}
	}

	// Message resolution keys off the first declared requirement.
	return &TransitionError{
		Kind:       TransitionErrorGuardFailure,
		Message:    GuardMessage(kinds[0]),
		FromStatus: wo.Status,
		Event:      EventMarkComplete,
	}
}

func (k RequiredKind) satisfiedBy(wo *WorkOrder) bool {
	switch k {
	case RequireWorkers:
		return wo.HasWorkers()
	case RequireItems:
		return wo.HasItems()
	case RequireWorkersOrItems:
		return wo.HasWorkers() || wo.HasItems()
	}
	return false
}

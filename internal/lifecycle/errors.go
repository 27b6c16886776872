package lifecycle

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoResolvedIssue means no approve-equivalent move-in issue exists
	// for the lease, or the lease is already terminated. The cascade is a
	// no-op in this case; callers report it, they do not treat it as fatal.
	ErrNoResolvedIssue = errors.New("no resolved move-in issue for lease")

	// ErrInvariant marks a broken precondition (e.g. an issue whose lease
	// or offer is missing). The cascade aborts before any write.
	ErrInvariant = errors.New("lifecycle invariant violated")

	// ErrRequestLocked means the rental request already has a non-terminal
	// offer in flight.
	ErrRequestLocked = errors.New("rental request is locked by a pending offer")

	// ErrBadTransition is returned for a status change the state machine
	// does not permit.
	ErrBadTransition = errors.New("status transition not allowed")

	// ErrPropertyUnavailable refuses offering or leasing a property that is
	// not on the market, which would put two running leases on one unit.
	ErrPropertyUnavailable = errors.New("property is not available")

	// ErrOfferPaid rejects the simple cancellation path for paid offers,
	// which must go through the termination cascade.
	ErrOfferPaid = errors.New("offer is paid, cancellation requires the termination cascade")

	// ErrAlreadyDecided guards move-in issues against double adjudication.
	ErrAlreadyDecided = errors.New("move-in issue already decided")
)

package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods may be called from internal goroutines and must be thread-safe.
type MetricsCollector interface {
	// RecordPartyCreated records a party creation.
	RecordPartyCreated(partyType PartyType)

	// RecordPartyDestroyed records a party destruction with its cause
	// ("explicit" or "empty").
	RecordPartyDestroyed(reason string)

	// RecordMemberChange records roster changes.
	RecordMemberChange(added, removed int)

	// RecordAdmission records the outcome of an AddMember call
	// ("admitted", "other-party", "duplicate", "capacity", "rejected").
	RecordAdmission(result string)

	// RecordOwnerChange records an ownership transfer.
	RecordOwnerChange(partyID string)

	// RecordStateTransition records a party lifecycle transition.
	RecordStateTransition(from, to PartyState)

	// RecordHandoff records a transfer attempt with outcome
	// ("ok", "relocate_failed", "persist_failed") and duration in seconds.
	RecordHandoff(outcome string, seconds float64)

	// RecordResolution records one participant resolution outcome during
	// rehydration and its duration in seconds.
	RecordResolution(resolved bool, seconds float64)

	// RecordStoreOperation records a snapshot store operation
	// ("put", "get", "delete") and its duration in seconds.
	RecordStoreOperation(op string, seconds float64)
}

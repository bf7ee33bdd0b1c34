package events

// CorrelationOf extracts the correlation id an event is keyed by, for
// crew members tracking in-flight records. Scene-level events carry no
// correlation id.
func CorrelationOf(event DomainEvent) (CorrelationID, bool) {
	switch e := event.(type) {
	case TaskStarts:
		return e.ActivityID, true
	case TaskFinished:
		return e.ActivityID, true
	case InteractionStarts:
		return e.ActivityID, true
	case InteractionFinished:
		return e.ActivityID, true
	case AsyncOperationAttempted:
		return e.CorrelationID, true
	case AsyncOperationCompleted:
		return e.CorrelationID, true
	case AsyncOperationFailed:
		return e.CorrelationID, true
	case AsyncOperationAborted:
		return e.CorrelationID, true
	case ActivityRelatedArtifactGenerated:
		return e.ActivityID, true
	default:
		return "", false
	}
}

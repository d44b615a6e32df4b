package importer

// SkipError marks a row that must be dropped without aborting the sheet. The
// orchestrator logs it with owning identity context and moves on; any other
// error from row processing is treated the same way, the distinction only
// makes the expected skips explicit and testable.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

func Skip(reason string) *SkipError {
	return &SkipError{Reason: reason}
}

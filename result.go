package woocrawl

// SkipReason explains why a work item produced no change.
type SkipReason string

// Skip reasons.
const (
	SkipNone             SkipReason = ""
	SkipDuplicate        SkipReason = "duplicate"
	SkipUnchanged        SkipReason = "unchanged"
	SkipAlreadyProcessed SkipReason = "already_processed"
	SkipNotADocument     SkipReason = "not_a_document"
	SkipIncomplete       SkipReason = "incomplete"
)

// Outcome is the result of one work item: either a value or the reason it
// was skipped. Batch loops branch on Skipped instead of on errors; errors
// are reserved for failures.
type Outcome[T any] struct {
	Value  T
	Skip   SkipReason
	Detail string
}

// Keep returns an outcome carrying v.
func Keep[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Skip returns an outcome skipped for reason.
func Skip[T any](reason SkipReason, detail string) Outcome[T] {
	return Outcome[T]{Skip: reason, Detail: detail}
}

// Skipped reports whether the item was skipped.
func (o Outcome[T]) Skipped() bool {
	return o.Skip != SkipNone
}

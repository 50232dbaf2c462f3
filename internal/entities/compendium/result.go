package compendium

// Status tags which branch of a Result is populated
type Status string

// Result statuses
const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailure Status = "error"
)

// ErrorKind classifies a failed result
type ErrorKind string

// Error kinds
const (
	// ErrorKindNetwork covers any request that failed to complete or returned
	// content that could not be decoded.
	ErrorKindNetwork ErrorKind = "NETWORK_ERROR"
	// ErrorKindCanceled marks an invocation superseded by a newer one.
	ErrorKindCanceled ErrorKind = "CANCELED"
)

// EmptyReason tells a renderer why nothing was returned
type EmptyReason string

// Empty reasons
const (
	EmptyReasonNone       EmptyReason = ""
	EmptyReasonNoMatch    EmptyReason = "no_match"
	EmptyReasonFiltered   EmptyReason = "filtered"
	EmptyReasonNoneLoaded EmptyReason = "none_loaded"
)

// Result is the outcome of one pipeline invocation.
// Exactly one of the three shapes is meaningful, selected by Status.
type Result struct {
	Status  Status
	Records []*DetailRecord
	Reason  EmptyReason
	Kind    ErrorKind
	Cause   error
}

// Success builds a successful result
func Success(records []*DetailRecord) *Result {
	return &Result{Status: StatusSuccess, Records: records}
}

// Empty builds an empty result
func Empty(reason EmptyReason) *Result {
	return &Result{Status: StatusEmpty, Reason: reason}
}

// Failure builds a failed result
func Failure(kind ErrorKind, cause error) *Result {
	return &Result{Status: StatusFailure, Kind: kind, Cause: cause}
}

// IsSuccess reports whether records were returned
func (r *Result) IsSuccess() bool { return r != nil && r.Status == StatusSuccess }

// IsEmpty reports whether the invocation matched nothing
func (r *Result) IsEmpty() bool { return r != nil && r.Status == StatusEmpty }

// IsFailure reports whether the invocation failed
func (r *Result) IsFailure() bool { return r != nil && r.Status == StatusFailure }

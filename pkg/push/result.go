package push

import "fmt"

// AggregateResult collects the per-recipient outcomes of one logical send.
// It is only constructed once every recipient's call has resolved; callers
// never observe a partially complete send.
type AggregateResult struct {
	Successes []*ProviderResponse
	Failures  []*Error

	// FirstError is the error from the first recipient to fail in completion
	// order. All failures remain in Failures for detailed inspection.
	FirstError *Error
}

// OK reports whether every recipient succeeded.
func (a *AggregateResult) OK() bool { return len(a.Failures) == 0 }

// AddSuccess and AddFailure are called in completion order by the
// coordinator; AddFailure pins FirstError on the first call.
func (a *AggregateResult) AddSuccess(resp *ProviderResponse) {
	a.Successes = append(a.Successes, resp)
}

func (a *AggregateResult) AddFailure(err *Error) {
	a.Failures = append(a.Failures, err)
	if a.FirstError == nil {
		a.FirstError = err
	}
}

// Summary is the one-line outcome shown after a multi-recipient send.
func (a *AggregateResult) Summary() string {
	total := len(a.Successes) + len(a.Failures)
	if a.OK() {
		if total == 1 {
			return a.Successes[0].Summary()
		}
		return fmt.Sprintf("%d pushes sent", total)
	}
	return fmt.Sprintf("%d/%d failed: %s", len(a.Failures), total, a.FirstError.Error())
}

// AsError converts a failure into the headline error, or nil when all
// recipients succeeded.
func (a *AggregateResult) AsError() error {
	if a.FirstError == nil {
		return nil
	}
	return a.FirstError
}

// Package dispatch fans a single logical send out across N recipient tokens
// concurrently and aggregates the per-recipient outcomes.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/betomoedano/quick-push/pkg/push"
)

// SendFunc performs one provider call for one recipient token.
type SendFunc func(ctx context.Context, recipient string) (*push.ProviderResponse, error)

// Coordinator runs the fan-out. It holds no per-send state and is safe for
// concurrent use.
type Coordinator struct {
	logger *slog.Logger
}

func NewCoordinator(logger *slog.Logger) *Coordinator {
	return &Coordinator{logger: logger.With("component", "DispatchCoordinator")}
}

type outcome struct {
	recipient string
	resp      *push.ProviderResponse
	err       error
}

// SendToMany issues one call per recipient concurrently and waits for every
// call to resolve; siblings are never aborted on failure. The fan-out is
// deliberately unbounded: recipient lists in this tool are human-entered and
// small, so throttling would only change observed behavior. The headline
// FirstError is the first failure in completion order.
func (c *Coordinator) SendToMany(ctx context.Context, recipients []string, send SendFunc) *push.AggregateResult {
	agg := &push.AggregateResult{}
	if len(recipients) == 0 {
		return agg
	}

	outcomes := make(chan outcome, len(recipients))
	var wg sync.WaitGroup
	for _, recipient := range recipients {
		wg.Add(1)
		go func(recipient string) {
			defer wg.Done()
			resp, err := send(ctx, recipient)
			outcomes <- outcome{recipient: recipient, resp: resp, err: err}
		}(recipient)
	}
	wg.Wait()
	close(outcomes)

	// The buffered channel preserves completion order, which decides the
	// headline error.
	for o := range outcomes {
		if o.err == nil {
			agg.AddSuccess(o.resp)
			continue
		}
		agg.AddFailure(asPushError(o.err, o.recipient))
	}
	c.logger.Info("dispatch complete",
		"recipients", len(recipients),
		"successes", len(agg.Successes),
		"failures", len(agg.Failures),
	)
	return agg
}

// asPushError keeps typed errors intact and wraps anything else as a
// network-level failure so the aggregate stays uniformly typed. A shared
// error (a deduplicated token refresh failing once for every recipient, for
// example) is cloned before the recipient is stamped, so sibling failures
// never overwrite each other's token.
func asPushError(err error, recipient string) *push.Error {
	var pe *push.Error
	if !errors.As(err, &pe) {
		return push.NewNetworkError(err)
	}
	if pe.Response == nil || pe.Response.Recipient != "" {
		return pe
	}
	resp := *pe.Response
	resp.Recipient = recipient
	clone := *pe
	clone.Response = &resp
	return &clone
}

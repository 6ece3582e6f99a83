// Package submit delivers answer payloads to an evaluator.
package submit

import (
	"context"

	"github.com/bloodmagesoftware/geoanswer/answer"
)

// Submitter hands a payload to whoever grades it. accepted reports the
// evaluator's acknowledgement; a rejected answer is not an error.
type Submitter interface {
	Submit(ctx context.Context, p answer.Payload) (accepted bool, err error)
}

// Func adapts a function to Submitter.
type Func func(ctx context.Context, p answer.Payload) (bool, error)

func (f Func) Submit(ctx context.Context, p answer.Payload) (bool, error) {
	return f(ctx, p)
}

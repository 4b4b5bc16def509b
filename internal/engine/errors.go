package engine

import (
	"fmt"
	"time"
)

// Code identifies a rejection category so clients can decide whether a retry
// makes sense. Only the rate-limited codes are retryable, after the delay.
type Code string

const (
	CodeSelfLike       Code = "self_like"
	CodeNotFound       Code = "not_found"
	CodeStaleTarget    Code = "stale_target"
	CodeStaleSource    Code = "stale_source"
	CodeOutOfRange     Code = "out_of_range"
	CodePairCooldown   Code = "rate_limited_pair"
	CodeBucketCooldown Code = "rate_limited_bucket"
)

// Rejection is a deterministic validation failure: same stored state and
// clock always yield the same rejection. RetryAfter is set only for the
// cooldown codes.
type Rejection struct {
	Code       Code
	Message    string
	RetryAfter time.Duration
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

func reject(code Code, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

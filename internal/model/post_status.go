package model

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type PostStatus string

const (
	StatusDraft             PostStatus = "draft"
	StatusApproved          PostStatus = "approved"
	StatusRejected          PostStatus = "rejected"
	StatusReviewNeeded      PostStatus = "review_needed"
	StatusNeedsRegeneration PostStatus = "needs_regeneration"
	StatusPublished         PostStatus = "published"
	StatusPublishFailed     PostStatus = "publish_failed"
)

var transitions = map[PostStatus][]PostStatus{
	StatusDraft:             {StatusApproved, StatusRejected, StatusReviewNeeded},
	StatusReviewNeeded:      {StatusApproved, StatusRejected},
	StatusApproved:          {StatusPublished, StatusPublishFailed},
	StatusPublishFailed:     {StatusApproved},
	StatusRejected:          {StatusNeedsRegeneration},
	StatusNeedsRegeneration: {StatusDraft},
	StatusPublished:         nil,
}

func ParsePostStatus(s string) (PostStatus, error) {
	status := PostStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown post status %q", s)
	}
	return status, nil
}

func (s PostStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for any move outside the
// post lifecycle, including moves to or from unknown statuses.
func ValidateTransition(from, to PostStatus) error {
	if !from.Valid() || !to.Valid() || !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

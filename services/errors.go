package services

import "errors"

// Typed failures returned by the core services. Controllers map these to
// HTTP status codes; the services never touch HTTP.
var (
	ErrAlreadyParticipating = errors.New("user already participates in this challenge")
	ErrNotParticipating     = errors.New("user does not participate in this challenge")
	ErrAlreadyCompleted     = errors.New("challenge participation is already completed")
	ErrBadgeNotFound        = errors.New("badge not found")
	ErrEarningCapReached    = errors.New("badge earning cap reached")
	ErrRewardNotFound       = errors.New("reward not found")
	ErrRewardUnavailable    = errors.New("reward is inactive or expired")
	ErrClaimCapReached      = errors.New("reward claim cap reached")
	ErrInsufficientPoints   = errors.New("not enough points to claim this reward")
)

package leaveaccount

import "errors"

var (
	ErrNoAccount          = errors.New("no credit leave account found")
	ErrMaxBalanceExceeded = errors.New("credit would exceed the account's maximum balance")
)

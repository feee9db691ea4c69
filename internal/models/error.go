package models

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrStageNotFound       = errors.New("preparation stage not found")
	ErrAlreadyBroadcast    = errors.New("order already has assignments")
	ErrAssignmentResolved  = errors.New("assignment is no longer pending")
	ErrNotAssignmentOwner  = errors.New("assignment belongs to another restaurant")
	ErrOrderNotAcceptable  = errors.New("order can no longer be accepted")
	ErrNoCoordinates       = errors.New("order has no coordinates")
	ErrNoCandidates        = errors.New("no candidate restaurants found")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrStageOrder          = errors.New("earlier stages are not completed")
	ErrStageNotInProgress  = errors.New("stage is not in progress")
	ErrInvalidAction       = errors.New("invalid response action")
	ErrInvalidStatus       = errors.New("unknown order status")
	ErrConflict            = errors.New("state changed concurrently")
	ErrInternalError       = errors.New("internal error")
)

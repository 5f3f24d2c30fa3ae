package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrAlreadyStarted     = errors.New("service already started")
	ErrTrainingInProgress = errors.New("a training session is already in progress")
	ErrNoTraining         = errors.New("no training session in progress")
)

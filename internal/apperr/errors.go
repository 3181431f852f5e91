// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound signals a missing content item or file.
	ErrNotFound = errors.New("not found")
	// ErrBackendDeployment signals that the Apps Script backend returned
	// its placeholder status object instead of a content array, meaning
	// the deployed script is outdated or incomplete.
	ErrBackendDeployment = errors.New("backend deployment incomplete")
	// ErrLoginLocked signals that admin login is temporarily locked after
	// too many failed attempts.
	ErrLoginLocked = errors.New("login locked")
	// ErrBadCredentials signals a wrong admin password.
	ErrBadCredentials = errors.New("bad credentials")
)

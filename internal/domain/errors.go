package domain

import "errors"

var (
	// ErrArticleNotFound is returned by the repository when no article
	// matches the requested id.
	ErrArticleNotFound = errors.New("article not found")

	// ErrSessionOpen signals that another editing session already owns the
	// article; the document is edited by exactly one actor at a time.
	ErrSessionOpen = errors.New("editing session already open for article")

	// ErrNoSession signals an operation against an unknown or closed session.
	ErrNoSession = errors.New("editing session not found")

	// ErrUploadInFlight signals that the targeted block is waiting on an
	// upload and cannot start another one.
	ErrUploadInFlight = errors.New("upload already in flight for block")
)

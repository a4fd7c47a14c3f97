package model

import "errors"

var (
	// ErrAlreadyBorrowed: the member already holds an unreturned copy.
	ErrAlreadyBorrowed = errors.New("user has already borrowed this book")

	// ErrNotBorrowed: return requested for a book the member does not hold.
	ErrNotBorrowed = errors.New("this book is not borrowed by the user")

	// ErrEntryNotFound: no matching row in the member's borrow list.
	ErrEntryNotFound = errors.New("borrow entry not found")

	// ErrRecordNotFound: the ledger has no open record where one must
	// exist. The member list and the ledger are written together, so this
	// is a consistency fault, not a user error.
	ErrRecordNotFound = errors.New("borrow record not found")
)

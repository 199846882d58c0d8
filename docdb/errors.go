package docdb

import "errors"

var (
	ErrDatabaseClosed        = errors.New("docdb: database is closed")
	ErrInvalidDocumentID     = errors.New("docdb: invalid document id")
	ErrInvalidDocument       = errors.New("docdb: document is not valid JSON")
	ErrInvalidCollectionName = errors.New("docdb: invalid collection name")
	ErrUnknownStateType      = errors.New("docdb: state type is not registered")
	ErrStateTypeRegistered   = errors.New("docdb: state type already registered")
	ErrInvalidStateFactory   = errors.New("docdb: state factory must return a non-nil pointer")
	ErrStateTypeMismatch     = errors.New("docdb: value does not match the registered state type")
)

package types

import "errors"

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Schema errors. Both are fatal at startup.
var (
	ErrSchemaAhead      = errors.New("database schema is newer than this build")
	ErrMissingMigration = errors.New("missing migration step")
)

// Entity errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidUnit     = errors.New("invalid unit")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidItemType = errors.New("invalid meal item type")
	ErrInvalidRange    = errors.New("invalid date range")
)

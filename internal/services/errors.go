package services

import "fmt"

// Service errors
var (
	ErrNoTablesSpecified     = &ServiceError{Message: "no tables specified"}
	ErrInvalidSeedCount      = &ServiceError{Message: "count must be between 1 and 200"}
	ErrNoWinners             = &ServiceError{Message: "at least one winner is required"}
	ErrFirestoreNotEnabled   = &ServiceError{Message: "firestore import is not configured"}
	ErrNoDocuments           = &ServiceError{Message: "no documents to import"}
	ErrUnknownExportTable    = &ServiceError{Message: "unknown export table"}
	ErrScoreboardUnavailable = &ServiceError{Message: "scoreboard has not been computed yet"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}

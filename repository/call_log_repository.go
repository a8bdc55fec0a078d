package repository

import "solar-agent/domain"

type CallLogRepository interface {
	Prepend(entry domain.CallLogEntry) error
	List() ([]domain.CallLogEntry, error)
	// MarkConverted flips the most recent entry for phone to converted and
	// reports whether one was found.
	MarkConverted(phone string) (bool, error)
}

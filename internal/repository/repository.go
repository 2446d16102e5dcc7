package repository

import (
	"fmt"
)

// Repositories holds all repository implementations
type Repositories struct {
	Candidate CandidateRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db Querier) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Candidate: NewPostgresCandidateRepository(db),
	}, nil
}

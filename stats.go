package woocrawl

import "fmt"

// BatchStats counts the work done by one run.
type BatchStats struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
	Dropped   int
	Errors    int
}

// Add accumulates other into s.
func (s *BatchStats) Add(other BatchStats) {
	s.Processed += other.Processed
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Dropped += other.Dropped
	s.Errors += other.Errors
}

// Record counts the outcome of a store upsert.
func (s *BatchStats) Record(created bool) {
	if created {
		s.Created++
	} else {
		s.Updated++
	}
}

func (s BatchStats) String() string {
	return fmt.Sprintf("processed=%d created=%d updated=%d skipped=%d dropped=%d errors=%d",
		s.Processed, s.Created, s.Updated, s.Skipped, s.Dropped, s.Errors)
}

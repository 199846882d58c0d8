package grains

import "fmt"

// GrainState is the envelope a storage provider fills in on read and
// consumes on write.
type GrainState struct {
	State        any
	RecordExists bool
	ETag         string
}

func (s *GrainState) String() string {
	return fmt.Sprintf("GrainState{RecordExists: %v, ETag: %q, State: %v}", s.RecordExists, s.ETag, s.State)
}

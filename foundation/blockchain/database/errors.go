package database

import (
	"errors"
	"fmt"
)

// ErrMiningTimeout is returned from Append when no solution was found in
// the configured number of attempts.
var ErrMiningTimeout = errors.New("mining gave up before finding a solution")

// ErrIndexOutOfSequence is returned from Append when strict indexing is on
// and the candidate block is not the next number in the chain.
var ErrIndexOutOfSequence = errors.New("block index is out of sequence")

// =============================================================================

// SerializationError is returned when a payload can't be encoded into its
// canonical form. No chain state is changed when this error occurs.
type SerializationError struct {
	Err error
}

// Error implements the error interface.
func (se *SerializationError) Error() string {
	return fmt.Sprintf("payload serialization: %s", se.Err)
}

// Unwrap returns the underlying encoding error.
func (se *SerializationError) Unwrap() error {
	return se.Err
}

// ValidationError describes the first block found breaking the chain rules.
type ValidationError struct {
	Index  int
	Reason string
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("blk[%d]: %s", ve.Index, ve.Reason)
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package smb

import "errors"

// Error implements errors returned by a Super Mario Bros. environment.
// Op names the operation which failed.
type Error struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrDecode reports that the console's memory could not be read. This
// indicates an uninitialized or broken console and is not recoverable.
var ErrDecode = errors.New("console memory unavailable")

// ErrEpisodeOver reports that Step was called after the episode ended
// without an intervening Reset.
var ErrEpisodeOver = errors.New("episode is over, call Reset")

// ErrInvalidStage reports a (world, stage) pair outside the range of
// its game variant.
var ErrInvalidStage = errors.New("invalid stage")

// IsDecode returns whether or not an error reports that the console's
// memory could not be decoded
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsEpisodeOver returns whether or not an error reports that a step
// was taken in an episode which had already ended
func IsEpisodeOver(err error) bool {
	return errors.Is(err, ErrEpisodeOver)
}

// IsInvalidStage returns whether or not an error reports an out of
// range stage
func IsInvalidStage(err error) bool {
	return errors.Is(err, ErrInvalidStage)
}

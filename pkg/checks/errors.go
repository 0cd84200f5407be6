package checks

type Error string

const (
	// ErrLengthMismatch is returned when vectors which must be aligned position by position
	// have different lengths.
	ErrLengthMismatch Error = "vector lengths do not match"
	// ErrInvalidElement is returned when an input vector contains a nil or malformed element.
	ErrInvalidElement Error = "invalid vector element"
)

func (err Error) Error() string {
	return "checks: " + string(err)
}

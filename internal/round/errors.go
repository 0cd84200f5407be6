package round

type Error string

const (
	// ErrInvalidContent is returned when the content of a message does not have the type expected by the round.
	ErrInvalidContent Error = "content is not the right type"
	// ErrNilFields is returned when a required field of a message is missing.
	ErrNilFields Error = "message contained empty fields"
	// ErrOutChanFull is returned when a round could not send a message without blocking.
	ErrOutChanFull Error = "out channel is full"
)

func (err Error) Error() string {
	return "round: " + string(err)
}

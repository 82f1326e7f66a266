package loop

import "errors"

// ErrMaxRounds is reported when a turn keeps requesting tools past the round limit.
var ErrMaxRounds = errors.New("max rounds reached")

// cancelledMessage is reported to the model for calls that never ran because the turn was cancelled.
const cancelledMessage = "cancelled: the turn was interrupted before this call completed"

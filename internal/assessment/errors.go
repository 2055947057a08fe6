package assessment

import "errors"

var (
	// ErrEmptySession is returned when a session is finalized with no answers.
	ErrEmptySession = errors.New("assessment: cannot finalize a session with no answers")

	ErrEmptyPool          = errors.New("assessment: question pool is empty")
	ErrInvalidQuestion    = errors.New("assessment: invalid question")
	ErrUnknownDifficulty  = errors.New("assessment: unknown difficulty")
	ErrInvalidLength      = errors.New("assessment: session length must be positive")
	ErrAnswerOutOfRange   = errors.New("assessment: answer index out of range")
	ErrDuplicateAnswer    = errors.New("assessment: question already answered")
	ErrNoQuestionOffered  = errors.New("assessment: no question is currently offered")
	ErrQuestionNotOffered = errors.New("assessment: question is not the one currently offered")
	ErrSessionComplete    = errors.New("assessment: session is complete")
	ErrSessionNotFound    = errors.New("assessment: session not found")
	ErrDuplicateQuestion  = errors.New("assessment: duplicate question id in pool")
)

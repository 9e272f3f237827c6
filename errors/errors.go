package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic             = fmt.Errorf("worker panic")
	ErrMessageNotFound         = fmt.Errorf("message not found")
	ErrConversationNotFound    = fmt.Errorf("conversation not found")
	ErrNotParticipant          = fmt.Errorf("user is not a participant of the conversation")
	ErrNotSender               = fmt.Errorf("only the sender can edit a message")
	ErrNotReceiver             = fmt.Errorf("only the receiver can mark a message as read")
	ErrParentNotInConversation = fmt.Errorf("parent message belongs to another conversation")
	ErrInvalidMessage          = fmt.Errorf("invalid message")
	ErrNotificationExists      = fmt.Errorf("notification already exists")
	ErrNotificationNotFound    = fmt.Errorf("notification not found")
	ErrUserAlreadyExists       = fmt.Errorf("user already exists")
	ErrInvalidCredentials      = fmt.Errorf("invalid credentials")
	ErrInvalidPassword         = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidRegistration     = fmt.Errorf("invalid registration")
	ErrTokenGeneration         = fmt.Errorf("token generation failed")
	ErrEmptySearch             = fmt.Errorf("no search terms have been provided")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

package errors

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var codesByError = []struct {
	err  error
	code codes.Code
}{
	{ErrMessageNotFound, codes.NotFound},
	{ErrConversationNotFound, codes.NotFound},
	{ErrNotificationNotFound, codes.NotFound},
	{ErrNotParticipant, codes.PermissionDenied},
	{ErrNotSender, codes.PermissionDenied},
	{ErrNotReceiver, codes.PermissionDenied},
	{ErrInvalidMessage, codes.InvalidArgument},
	{ErrParentNotInConversation, codes.InvalidArgument},
	{ErrInvalidPassword, codes.InvalidArgument},
	{ErrInvalidRegistration, codes.InvalidArgument},
	{ErrEmptySearch, codes.InvalidArgument},
	{ErrInvalidCredentials, codes.Unauthenticated},
	{ErrUserAlreadyExists, codes.AlreadyExists},
	{ErrNotificationExists, codes.AlreadyExists},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
	{context.Canceled, codes.Canceled},
}

// MapToGRPCError converts a service error into a gRPC status.
// Errors that already carry a status are returned as is, unknown ones become Internal.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, c := range codesByError {
		if Is(err, c.err) {
			return status.Error(c.code, err.Error())
		}
	}
	return status.Error(codes.Internal, "internal error")
}

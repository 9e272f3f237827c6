package server

import (
	"context"
	"log/slog"
	"time"

	"chat-thread/auth"
	"chat-thread/observability"
	pb "chat-thread/proto/threadpb"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor writes one log line per call with the caller, the method,
// the status code and the duration, and records the duration histogram.
// It must run before the auth interceptor to see every call, rejected ones included.
func LoggingInterceptor(log *slog.Logger, metrics *observability.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx, userID := auth.TrackIdentity(ctx)

		resp, err := handler(ctx, req)

		elapsed := time.Since(start)
		metrics.RequestDuration.WithLabelValues(info.FullMethod).Observe(elapsed.Seconds())
		user := userID()
		if user == "" {
			user = "anonymous"
		}
		log.Info("Request handled",
			"user_id", user,
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", elapsed)
		return resp, err
	}
}

// Messaging methods subject to the access window.
var messagingMethods = map[string]struct{}{
	pb.ThreadService_CreateConversation_FullMethodName: {},
	pb.ThreadService_PostMessage_FullMethodName:        {},
	pb.ThreadService_EditMessage_FullMethodName:        {},
	pb.ThreadService_MarkRead_FullMethodName:           {},
	pb.ThreadService_ListMessages_FullMethodName:       {},
	pb.ThreadService_GetThread_FullMethodName:          {},
	pb.ThreadService_GetReplies_FullMethodName:         {},
	pb.ThreadService_UnreadInbox_FullMethodName:        {},
	pb.ThreadService_History_FullMethodName:            {},
	pb.ThreadService_Search_FullMethodName:             {},
}

// AccessWindow allows messaging between StartHour:00 and EndHour:00 inclusive, server local time.
// A window ending before it starts spans midnight. The zero value allows everything.
type AccessWindow struct {
	StartHour int
	EndHour   int
}

func (w AccessWindow) disabled() bool {
	return w.StartHour == 0 && w.EndHour == 0
}

func (w AccessWindow) allows(t time.Time) bool {
	if w.disabled() {
		return true
	}
	minute := t.Hour()*60 + t.Minute()
	start, end := w.StartHour*60, w.EndHour*60
	// The last allowed instant is EndHour:00:00
	atEnd := minute == end && t.Second() == 0 && t.Nanosecond() == 0
	if start <= end {
		return (minute >= start && minute < end) || atEnd
	}
	return minute >= start || minute < end || atEnd
}

// AccessWindowInterceptor refuses messaging calls outside the window with PermissionDenied.
func AccessWindowInterceptor(window AccessWindow, now func() time.Time) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := messagingMethods[info.FullMethod]; ok && !window.allows(now()) {
			return nil, status.Errorf(codes.PermissionDenied,
				"messaging is allowed between %02d:00 and %02d:00", window.StartHour, window.EndHour)
		}
		return handler(ctx, req)
	}
}

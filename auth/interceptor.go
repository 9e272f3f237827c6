package auth

import (
	"context"
	"strings"

	pb "chat-thread/proto/threadpb"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that do not require JWT authentication.
var publicMethods = map[string]struct{}{
	pb.ThreadService_Login_FullMethodName:    {},
	pb.ThreadService_Register_FullMethodName: {},
}

// AuthInterceptor handles JWT validation for incoming gRPC calls.
func AuthInterceptor(tokens TokenIssuer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "metadata is missing")
		}
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
		}

		// Expecting the standard "Bearer <token>" format
		tokenStr := strings.TrimPrefix(values[0], "Bearer ")
		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}
		return handler(WithClaims(ctx, claims), req)
	}
}

func isPublicMethod(method string) bool {
	_, ok := publicMethods[method]
	return ok
}

type identity struct {
	userID string
}

// TrackIdentity lets an interceptor running before AuthInterceptor read back
// the user it authenticated once the call returns.
func TrackIdentity(ctx context.Context) (context.Context, func() string) {
	id := &identity{}
	return context.WithValue(ctx, identityKey, id), func() string { return id.userID }
}

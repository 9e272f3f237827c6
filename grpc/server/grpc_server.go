package server

import (
	"log/slog"
	"time"

	"chat-thread/auth"
	"chat-thread/observability"
	pb "chat-thread/proto/threadpb"

	"google.golang.org/grpc"
)

// NewGRPCServer registers the thread service behind the logging, access window
// and auth interceptors, in that order, with the JSON codec forced.
func NewGRPCServer(threadServer *ThreadServer, tokens auth.TokenIssuer, window AccessWindow,
	log *slog.Logger, metrics *observability.Metrics) *grpc.Server {
	s := grpc.NewServer(
		grpc.ForceServerCodec(pb.Codec{}),
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log, metrics),
			AccessWindowInterceptor(window, time.Now),
			auth.AuthInterceptor(tokens),
		),
	)
	pb.RegisterThreadServiceServer(s, threadServer)
	return s
}

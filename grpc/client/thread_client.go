package client

import (
	"context"
	"sync"

	"chat-thread/errors"
	pb "chat-thread/proto/threadpb"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ThreadClient is a ThreadService client that speaks the JSON codec and
// attaches its bearer token to every call once authenticated.
type ThreadClient struct {
	pb.ThreadServiceClient
	conn  *grpc.ClientConn
	mu    sync.RWMutex
	token string
}

func NewThreadClient(target string, opts ...grpc.DialOption) (*ThreadClient, error) {
	c := &ThreadClient{}
	options := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(pb.Codec{})),
		grpc.WithChainUnaryInterceptor(c.authorize),
	}, opts...)
	conn, err := grpc.NewClient(target, options...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.ThreadServiceClient = pb.NewThreadServiceClient(conn)
	return c, nil
}

// Authenticate logs in, registering the account first when it does not exist yet.
func (c *ThreadClient) Authenticate(ctx context.Context, email, password string) error {
	resp, err := c.Login(ctx, &pb.LoginRequest{Email: email, Password: password})
	if status.Code(err) == codes.Unauthenticated {
		resp, err = c.Register(ctx, &pb.RegisterRequest{Email: email, Password: password})
		if status.Code(err) == codes.AlreadyExists {
			return errors.ErrInvalidCredentials
		}
	}
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return nil
}

func (c *ThreadClient) authorize(ctx context.Context, method string, req, reply any,
	cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *ThreadClient) Close() error {
	return c.conn.Close()
}

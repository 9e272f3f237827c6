package threadpb

import (
	"context"

	"google.golang.org/grpc"
)

type ThreadServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	CreateConversation(ctx context.Context, in *CreateConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	MarkRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error)
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	GetThread(ctx context.Context, in *GetThreadRequest, opts ...grpc.CallOption) (*ThreadResponse, error)
	GetReplies(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*RepliesResponse, error)
	UnreadInbox(ctx context.Context, in *UnreadInboxRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	ListNotifications(ctx context.Context, in *ListNotificationsRequest, opts ...grpc.CallOption) (*NotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error)
	History(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*HistoryResponse, error)
	Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
}

type threadServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewThreadServiceClient wraps a connection dialed with
// grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})).
func NewThreadServiceClient(cc grpc.ClientConnInterface) ThreadServiceClient {
	return &threadServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *threadServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, ThreadService_Register_FullMethodName, in, opts)
}

func (c *threadServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, ThreadService_Login_FullMethodName, in, opts)
}

func (c *threadServiceClient) CreateConversation(ctx context.Context, in *CreateConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ThreadService_CreateConversation_FullMethodName, in, opts)
}

func (c *threadServiceClient) PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ThreadService_PostMessage_FullMethodName, in, opts)
}

func (c *threadServiceClient) EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ThreadService_EditMessage_FullMethodName, in, opts)
}

func (c *threadServiceClient) MarkRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ThreadService_MarkRead_FullMethodName, in, opts)
}

func (c *threadServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, ThreadService_ListMessages_FullMethodName, in, opts)
}

func (c *threadServiceClient) GetThread(ctx context.Context, in *GetThreadRequest, opts ...grpc.CallOption) (*ThreadResponse, error) {
	return invoke[ThreadResponse](ctx, c.cc, ThreadService_GetThread_FullMethodName, in, opts)
}

func (c *threadServiceClient) GetReplies(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*RepliesResponse, error) {
	return invoke[RepliesResponse](ctx, c.cc, ThreadService_GetReplies_FullMethodName, in, opts)
}

func (c *threadServiceClient) UnreadInbox(ctx context.Context, in *UnreadInboxRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, ThreadService_UnreadInbox_FullMethodName, in, opts)
}

func (c *threadServiceClient) ListNotifications(ctx context.Context, in *ListNotificationsRequest, opts ...grpc.CallOption) (*NotificationsResponse, error) {
	return invoke[NotificationsResponse](ctx, c.cc, ThreadService_ListNotifications_FullMethodName, in, opts)
}

func (c *threadServiceClient) MarkNotificationRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ThreadService_MarkNotificationRead_FullMethodName, in, opts)
}

func (c *threadServiceClient) History(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c.cc, ThreadService_History_FullMethodName, in, opts)
}

func (c *threadServiceClient) Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, ThreadService_Search_FullMethodName, in, opts)
}

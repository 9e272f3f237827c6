package threadpb

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "chatthread.v1.ThreadService"

const (
	ThreadService_Register_FullMethodName             = "/chatthread.v1.ThreadService/Register"
	ThreadService_Login_FullMethodName                = "/chatthread.v1.ThreadService/Login"
	ThreadService_CreateConversation_FullMethodName   = "/chatthread.v1.ThreadService/CreateConversation"
	ThreadService_PostMessage_FullMethodName          = "/chatthread.v1.ThreadService/PostMessage"
	ThreadService_EditMessage_FullMethodName          = "/chatthread.v1.ThreadService/EditMessage"
	ThreadService_MarkRead_FullMethodName             = "/chatthread.v1.ThreadService/MarkRead"
	ThreadService_ListMessages_FullMethodName         = "/chatthread.v1.ThreadService/ListMessages"
	ThreadService_GetThread_FullMethodName            = "/chatthread.v1.ThreadService/GetThread"
	ThreadService_GetReplies_FullMethodName           = "/chatthread.v1.ThreadService/GetReplies"
	ThreadService_UnreadInbox_FullMethodName          = "/chatthread.v1.ThreadService/UnreadInbox"
	ThreadService_ListNotifications_FullMethodName    = "/chatthread.v1.ThreadService/ListNotifications"
	ThreadService_MarkNotificationRead_FullMethodName = "/chatthread.v1.ThreadService/MarkNotificationRead"
	ThreadService_History_FullMethodName              = "/chatthread.v1.ThreadService/History"
	ThreadService_Search_FullMethodName               = "/chatthread.v1.ThreadService/Search"
)

type ThreadServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	CreateConversation(context.Context, *CreateConversationRequest) (*ConversationResponse, error)
	PostMessage(context.Context, *PostMessageRequest) (*MessageResponse, error)
	EditMessage(context.Context, *EditMessageRequest) (*MessageResponse, error)
	MarkRead(context.Context, *MessageRequest) (*Empty, error)
	ListMessages(context.Context, *ListMessagesRequest) (*MessagesResponse, error)
	GetThread(context.Context, *GetThreadRequest) (*ThreadResponse, error)
	GetReplies(context.Context, *MessageRequest) (*RepliesResponse, error)
	UnreadInbox(context.Context, *UnreadInboxRequest) (*MessagesResponse, error)
	ListNotifications(context.Context, *ListNotificationsRequest) (*NotificationsResponse, error)
	MarkNotificationRead(context.Context, *MessageRequest) (*Empty, error)
	History(context.Context, *MessageRequest) (*HistoryResponse, error)
	Search(context.Context, *SearchRequest) (*MessagesResponse, error)
}

func RegisterThreadServiceServer(s grpc.ServiceRegistrar, srv ThreadServiceServer) {
	s.RegisterService(&ThreadService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler, running the
// interceptor chain when one is installed.
func unaryHandler[Req, Resp any](fullMethod string, call func(ThreadServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ThreadServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ThreadServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ThreadService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ThreadServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(ThreadService_Register_FullMethodName, ThreadServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(ThreadService_Login_FullMethodName, ThreadServiceServer.Login)},
		{MethodName: "CreateConversation", Handler: unaryHandler(ThreadService_CreateConversation_FullMethodName, ThreadServiceServer.CreateConversation)},
		{MethodName: "PostMessage", Handler: unaryHandler(ThreadService_PostMessage_FullMethodName, ThreadServiceServer.PostMessage)},
		{MethodName: "EditMessage", Handler: unaryHandler(ThreadService_EditMessage_FullMethodName, ThreadServiceServer.EditMessage)},
		{MethodName: "MarkRead", Handler: unaryHandler(ThreadService_MarkRead_FullMethodName, ThreadServiceServer.MarkRead)},
		{MethodName: "ListMessages", Handler: unaryHandler(ThreadService_ListMessages_FullMethodName, ThreadServiceServer.ListMessages)},
		{MethodName: "GetThread", Handler: unaryHandler(ThreadService_GetThread_FullMethodName, ThreadServiceServer.GetThread)},
		{MethodName: "GetReplies", Handler: unaryHandler(ThreadService_GetReplies_FullMethodName, ThreadServiceServer.GetReplies)},
		{MethodName: "UnreadInbox", Handler: unaryHandler(ThreadService_UnreadInbox_FullMethodName, ThreadServiceServer.UnreadInbox)},
		{MethodName: "ListNotifications", Handler: unaryHandler(ThreadService_ListNotifications_FullMethodName, ThreadServiceServer.ListNotifications)},
		{MethodName: "MarkNotificationRead", Handler: unaryHandler(ThreadService_MarkNotificationRead_FullMethodName, ThreadServiceServer.MarkNotificationRead)},
		{MethodName: "History", Handler: unaryHandler(ThreadService_History_FullMethodName, ThreadServiceServer.History)},
		{MethodName: "Search", Handler: unaryHandler(ThreadService_Search_FullMethodName, ThreadServiceServer.Search)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chatthread/v1/thread_service",
}

package server

import (
	"context"

	"chat-thread/auth"
	"chat-thread/domain"
	"chat-thread/errors"
	pb "chat-thread/proto/threadpb"
	"chat-thread/services"

	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultSearchLimit = 20

// ThreadServer exposes the chat and auth services over gRPC.
// Every handler except Register and Login runs behind the auth interceptor,
// so the caller is read from the context and never from the request.
type ThreadServer struct {
	authService services.IAuthService
	chatService services.IChatService
}

func NewThreadServer(authService services.IAuthService, chatService services.IChatService) *ThreadServer {
	return &ThreadServer{authService: authService, chatService: chatService}
}

var _ pb.ThreadServiceServer = (*ThreadServer)(nil)

func caller(ctx context.Context) (string, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing caller identity")
	}
	return userID, nil
}

// Register validates the input, hashes the password and issues a token.
func (s *ThreadServer) Register(_ context.Context, in *pb.RegisterRequest) (*pb.AuthResponse, error) {
	token, err := s.authService.Register(in.Email, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.AuthResponse{Token: string(token)}, nil
}

// Login verifies credentials and returns a session token.
func (s *ThreadServer) Login(_ context.Context, in *pb.LoginRequest) (*pb.AuthResponse, error) {
	token, err := s.authService.Login(in.Email, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.AuthResponse{Token: string(token)}, nil
}

func (s *ThreadServer) CreateConversation(ctx context.Context, in *pb.CreateConversationRequest) (*pb.ConversationResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	conversation, err := s.chatService.CreateConversation(ctx, domain.CreateConversationCommand{
		CreatorID:    userID,
		Participants: in.Participants,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ConversationResponse{Conversation: toConversation(conversation)}, nil
}

func (s *ThreadServer) PostMessage(ctx context.Context, in *pb.PostMessageRequest) (*pb.MessageResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversation_id", in.ConversationId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	parentID, err := parseOptionalID("parent_id", in.ParentId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	message, err := s.chatService.PostMessage(ctx, domain.PostMessageCommand{
		ConversationID: conversationID,
		SenderID:       userID,
		ReceiverID:     in.ReceiverId,
		ParentID:       parentID,
		Content:        in.Content,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.MessageResponse{Message: toMessage(message)}, nil
}

func (s *ThreadServer) EditMessage(ctx context.Context, in *pb.EditMessageRequest) (*pb.MessageResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messageID, err := parseID("message_id", in.MessageId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	message, err := s.chatService.EditMessage(ctx, domain.EditMessageCommand{
		MessageID: messageID,
		EditorID:  userID,
		Content:   in.Content,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.MessageResponse{Message: toMessage(message)}, nil
}

func (s *ThreadServer) MarkRead(ctx context.Context, in *pb.MessageRequest) (*pb.Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messageID, err := parseID("message_id", in.MessageId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	if err = s.chatService.MarkRead(ctx, userID, messageID); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.Empty{}, nil
}

// ListMessages pages through a conversation, newest first. An empty next cursor
// means the oldest message was reached.
func (s *ThreadServer) ListMessages(ctx context.Context, in *pb.ListMessagesRequest) (*pb.MessagesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversation_id", in.ConversationId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	var cursor *string
	if in.Cursor != "" {
		cursor = &in.Cursor
	}
	messages, next, err := s.chatService.ListMessages(ctx, userID, conversationID, cursor)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.MessagesResponse{Messages: toMessages(messages), NextCursor: lo.FromPtr(next)}, nil
}

func (s *ThreadServer) GetThread(ctx context.Context, in *pb.GetThreadRequest) (*pb.ThreadResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversation_id", in.ConversationId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	threads, err := s.chatService.GetThread(ctx, userID, conversationID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ThreadResponse{Threads: toThreadNodes(threads)}, nil
}

func (s *ThreadServer) GetReplies(ctx context.Context, in *pb.MessageRequest) (*pb.RepliesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messageID, err := parseID("message_id", in.MessageId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	node, err := s.chatService.GetReplies(ctx, userID, messageID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.RepliesResponse{Thread: toThreadNode(node)}, nil
}

func (s *ThreadServer) UnreadInbox(ctx context.Context, _ *pb.UnreadInboxRequest) (*pb.MessagesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.chatService.UnreadInbox(ctx, userID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.MessagesResponse{Messages: toMessages(messages)}, nil
}

func (s *ThreadServer) ListNotifications(ctx context.Context, in *pb.ListNotificationsRequest) (*pb.NotificationsResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := s.chatService.ListNotifications(ctx, userID, in.UnreadOnly)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.NotificationsResponse{Notifications: toNotifications(notifications)}, nil
}

func (s *ThreadServer) MarkNotificationRead(ctx context.Context, in *pb.MessageRequest) (*pb.Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messageID, err := parseID("message_id", in.MessageId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	if err = s.chatService.MarkNotificationRead(ctx, userID, messageID); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.Empty{}, nil
}

func (s *ThreadServer) History(ctx context.Context, in *pb.MessageRequest) (*pb.HistoryResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	messageID, err := parseID("message_id", in.MessageId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	entries, err := s.chatService.History(ctx, userID, messageID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.HistoryResponse{Entries: toHistory(entries)}, nil
}

func (s *ThreadServer) Search(ctx context.Context, in *pb.SearchRequest) (*pb.MessagesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversation_id", in.ConversationId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	messages, err := s.chatService.Search(ctx, userID, conversationID, in.Terms, limit)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.MessagesResponse{Messages: toMessages(messages)}, nil
}

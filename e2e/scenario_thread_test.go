package e2e

import (
	"context"
	"fmt"
	"testing"
	"time"

	pb "chat-thread/proto/threadpb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type threadSuite struct {
	BaseGrpcSuite
}

func TestThreadSuite(t *testing.T) {
	suite.Run(t, &threadSuite{})
}

func (s *threadSuite) TestThreadedConversationFlow() {
	// Unique accounts so the scenario can run against a long lived server
	run := uuid.NewString()[:8]
	alice := s.Client(s.T(), "Alice logs in", fmt.Sprintf("alice-%s@example.com", run))
	bob := s.Client(s.T(), "Bob logs in", fmt.Sprintf("bob-%s@example.com", run))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var aliceID, bobID, conversationID, rootID string

	s.Run("Step 1: open a conversation", func() {
		own, err := bob.CreateConversation(ctx, &pb.CreateConversationRequest{Participants: []string{"nobody"}})
		s.Require().NoError(err)
		bobID = own.Conversation.Participants[0]

		resp, err := alice.CreateConversation(ctx, &pb.CreateConversationRequest{Participants: []string{bobID}})
		s.Require().NoError(err)
		aliceID, conversationID = resp.Conversation.Participants[0], resp.Conversation.Id
	})

	s.Run("Step 2: post a small thread", func() {
		root, err := alice.PostMessage(ctx, &pb.PostMessageRequest{ConversationId: conversationID, ReceiverId: bobID, Content: "root"})
		s.Require().NoError(err)
		rootID = root.Message.Id

		reply, err := bob.PostMessage(ctx, &pb.PostMessageRequest{ConversationId: conversationID, ReceiverId: aliceID, ParentId: rootID, Content: "reply"})
		s.Require().NoError(err)
		_, err = alice.PostMessage(ctx, &pb.PostMessageRequest{ConversationId: conversationID, ReceiverId: bobID, ParentId: reply.Message.Id, Content: "nested"})
		s.Require().NoError(err)
	})

	s.Run("Step 3: read the thread back", func() {
		thread, err := bob.GetThread(ctx, &pb.GetThreadRequest{ConversationId: conversationID})
		s.Require().NoError(err)
		s.Require().Len(thread.Threads, 1)
		s.Require().Equal(rootID, thread.Threads[0].Message.Id)
		s.Require().Len(thread.Threads[0].Replies, 1)
		s.Require().Len(thread.Threads[0].Replies[0].Replies, 1)
	})

	s.Run("Step 4: notifications reach the receiver", func() {
		s.Require().Eventually(func() bool {
			resp, err := bob.ListNotifications(ctx, &pb.ListNotificationsRequest{UnreadOnly: true})
			return err == nil && len(resp.Notifications) == 2
		}, 5*time.Second, 50*time.Millisecond)
	})

	s.Run("Step 5: outsiders are refused", func() {
		mallory := s.Client(s.T(), "Mallory logs in", fmt.Sprintf("mallory-%s@example.com", run))
		_, err := mallory.GetThread(ctx, &pb.GetThreadRequest{ConversationId: conversationID})
		s.Require().Equal(codes.PermissionDenied, status.Code(err))
	})
}

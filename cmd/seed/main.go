package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"chat-thread/grpc/client"
	pb "chat-thread/proto/threadpb"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerAddr string        `envconfig:"SERVER_ADDR" default:"localhost:8080"`
	Password   string        `envconfig:"SEED_PASSWORD" default:"Seed-Passw0rd!"`
	Timeout    time.Duration `envconfig:"SEED_TIMEOUT" default:"30s"`
}

// A demo discussion: each entry replies to the message at index parent, -1 for a root.
var script = []struct {
	author  int
	parent  int
	content string
}{
	{0, -1, "Anyone up for the release review tonight?"},
	{1, 0, "Yes, 19:00 works for me"},
	{0, 1, "Great, I'll send the agenda"},
	{1, 2, "Please add the migration plan"},
	{0, -1, "Unrelated: the staging cluster is back"},
	{1, 4, "Thanks, redeploying now"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, color.FgRed.Render(fmt.Sprintf("Seed failed: %v", err)))
		os.Exit(1)
	}
}

func run() error {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	emails := []string{"alice@example.com", "bob@example.com"}
	users := make([]*client.ThreadClient, len(emails))
	ids := make([]string, len(emails))
	for i, email := range emails {
		c, err := client.NewThreadClient(config.ServerAddr)
		if err != nil {
			return err
		}
		defer c.Close()
		if err = c.Authenticate(ctx, email, config.Password); err != nil {
			return fmt.Errorf("authenticate %s: %w", email, err)
		}
		// Opening a conversation reveals the caller's id, always listed first
		own, err := c.CreateConversation(ctx, &pb.CreateConversationRequest{Participants: []string{email}})
		if err != nil {
			return err
		}
		users[i], ids[i] = c, own.Conversation.Participants[0]
	}

	conversation, err := users[0].CreateConversation(ctx, &pb.CreateConversationRequest{Participants: ids[1:]})
	if err != nil {
		return err
	}
	fmt.Println(color.FgGreen.Render("Conversation " + conversation.Conversation.Id))

	posted := make([]string, len(script))
	for i, line := range script {
		request := &pb.PostMessageRequest{
			ConversationId: conversation.Conversation.Id,
			ReceiverId:     ids[1-line.author],
			Content:        line.content,
		}
		if line.parent >= 0 {
			request.ParentId = posted[line.parent]
		}
		resp, err := users[line.author].PostMessage(ctx, request)
		if err != nil {
			return fmt.Errorf("post %q: %w", line.content, err)
		}
		posted[i] = resp.Message.Id
	}

	thread, err := users[1].GetThread(ctx, &pb.GetThreadRequest{ConversationId: conversation.Conversation.Id})
	if err != nil {
		return err
	}
	printNodes(thread.Threads, 0)
	return nil
}

func printNodes(nodes []*pb.ThreadNode, depth int) {
	for _, node := range nodes {
		fmt.Printf("%*s%s\n", depth*2, "", color.FgCyan.Render(node.Message.Content))
		printNodes(node.Replies, depth+1)
	}
}

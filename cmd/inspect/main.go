package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"chat-thread/domain"
	"chat-thread/domain/thread"
	"chat-thread/internal"
	"chat-thread/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

const maxRows = 1000

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Inspect failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("inspect", flag.ContinueOnError)
	dbPath := flags.String("db", database.DefaultPath, "Path to badger DB")
	conversation := flags.String("conversation", "", "Conversation id to print")
	tree := flags.Bool("tree", false, "Print the reply tree instead of the message table")
	prefix := flags.String("prefix", "conv:", "Raw key prefix to scan when no conversation is given")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Read only, so that a running server keeps its lock
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if *conversation == "" {
		rows, err := internal.Scan(db, *prefix, maxRows)
		if err != nil {
			return err
		}
		internal.RenderRows(out, rows)
		return nil
	}

	conversationID, err := uuid.Parse(*conversation)
	if err != nil {
		return fmt.Errorf("invalid conversation id: %w", err)
	}
	repository := repositories.NewMessageRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, repositories.DefaultRetry)
	messages, err := repository.GetConversationMessages(conversationID)
	if err != nil {
		return err
	}

	if *tree {
		printTree(out, thread.BuildWithReport(messages))
		return nil
	}
	printTable(out, messages)
	return nil
}

func printTable(out io.Writer, messages []domain.Message) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Timestamp", "ID", "Parent", "Sender", "Receiver", "Flags", "Content"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, m := range messages {
		parent := "-"
		if m.ParentID != nil {
			parent = short(m.ParentID.String())
		}
		table.Append([]string{
			m.Timestamp.Format("2006-01-02 15:04:05"),
			short(m.ID.String()),
			parent,
			m.SenderID,
			m.ReceiverID,
			flags(m),
			m.Content,
		})
	}
	table.Render()
}

var depthColors = []color.Color{color.FgCyan, color.FgGreen, color.FgYellow, color.FgMagenta, color.FgBlue}

func printTree(out io.Writer, result thread.Result) {
	thread.Walk(result.Threads, func(node domain.ThreadNode, depth int) {
		line := fmt.Sprintf("%s%s [%s] %s: %s", strings.Repeat("  ", depth), short(node.ID.String()),
			node.Timestamp.Format("15:04:05"), node.SenderID, node.Content)
		fmt.Fprintln(out, depthColors[depth%len(depthColors)].Render(line))
	})
	fmt.Fprintf(out, "%d messages in %d threads\n", thread.Count(result.Threads), len(result.Threads))
	if excluded := result.Excluded(); excluded > 0 {
		fmt.Fprintln(out, color.FgRed.Render(fmt.Sprintf("%d messages left out: %d orphans, %d in cycles",
			excluded, len(result.Orphans), len(result.Cyclic))))
	}
}

func flags(m domain.Message) string {
	var f []string
	if m.Read {
		f = append(f, "read")
	}
	if m.Edited {
		f = append(f, "edited")
	}
	return strings.Join(f, ",")
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/dmitrijs2005/docuchat/internal/client/services"
)

// Sessions prints the conversation list in server order, marking the
// current one.
func (a *App) Sessions(ctx context.Context) error {
	snap := a.chatService.Snapshot()
	if len(snap.Sessions) == 0 {
		fmt.Println("No sessions yet, use 'new' to start one")
		return nil
	}

	for _, s := range snap.Sessions {
		marker := "  "
		if snap.CurrentSessionID != nil && *snap.CurrentSessionID == s.ID {
			marker = "* "
		}
		fmt.Printf("%s[%d] %s\n", marker, s.ID, s.Title)
	}
	return nil
}

// New creates a conversation; the optional arguments seed its title.
func (a *App) New(ctx context.Context, args []string) error {
	seed := strings.Join(args, " ")
	session, err := a.chatService.CreateSession(ctx, seed)
	if err != nil {
		fmt.Printf("Could not create session: %s\n", err.Error())
		return err
	}
	fmt.Printf("Created session [%d] %s\n", session.ID, session.Title)
	return nil
}

// Switch changes the current conversation.
func (a *App) Switch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: switch <id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Usage: switch <id>")
		return nil
	}

	if err := a.chatService.SwitchSession(ctx, id); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			fmt.Printf("No session %d, showing the session list instead:\n", id)
			return a.Sessions(ctx)
		}
		fmt.Printf("Could not switch: %s\n", err.Error())
		return err
	}

	a.printHistory()
	return nil
}

// Delete removes a conversation; the fallback selection happens inside
// the chat service before this returns.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: delete <id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Usage: delete <id>")
		return nil
	}

	if err := a.chatService.DeleteSession(ctx, id); err != nil {
		fmt.Printf("Could not delete: %s\n", err.Error())
		return err
	}

	snap := a.chatService.Snapshot()
	if snap.CurrentSessionID == nil {
		fmt.Println("Deleted; no sessions left")
	} else {
		fmt.Printf("Deleted; now on session [%d]\n", *snap.CurrentSessionID)
	}
	return nil
}

// Say sends a chat turn for the current conversation. Input is refused
// while a previous send is still in flight.
func (a *App) Say(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		fmt.Println("Usage: say <message>")
		return nil
	}

	snap := a.chatService.Snapshot()
	if snap.CurrentSessionID == nil {
		// no session yet: start one seeded with this message, then send
		if _, err := a.chatService.CreateSession(ctx, text); err != nil {
			fmt.Printf("Could not create session: %s\n", err.Error())
			return err
		}
	}

	if err := a.chatService.SendMessage(ctx, text); err != nil {
		if errors.Is(err, services.ErrSendInFlight) {
			fmt.Println("Still waiting for the previous reply")
			return nil
		}
		fmt.Printf("Send failed: %s\n", err.Error())
		return err
	}

	msgs := a.chatService.Snapshot().Messages
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		if last.Role == models.RoleAssistant {
			fmt.Println(last.Content)
		}
	}
	return nil
}

// Rag toggles or sets retrieval augmentation. Enabling requires an
// explicit confirmation.
func (a *App) Rag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Printf("RAG enabled: %v\n", a.chatService.Snapshot().RAGEnabled)
		return nil
	}

	switch args[0] {
	case "on":
		answer, err := getSimpleText(a.reader, "Ground replies in your uploaded documents? (y/n)", os.Stdout)
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "y" {
			fmt.Println("RAG left disabled")
			return nil
		}
		a.chatService.SetRAGEnabled(true)
		fmt.Println("RAG enabled")
	case "off":
		a.chatService.SetRAGEnabled(false)
		fmt.Println("RAG disabled")
	default:
		fmt.Println("Usage: rag [on|off]")
	}
	return nil
}

// Model selects the model used for subsequent turns.
func (a *App) Model(ctx context.Context, args []string) error {
	if len(args) == 0 {
		snap := a.chatService.Snapshot()
		fmt.Printf("Current model: %s (available: %s)\n", snap.SelectedModel, strings.Join(a.chatService.Models(), ", "))
		return nil
	}

	if err := a.chatService.SetModel(args[0]); err != nil {
		fmt.Printf("Unknown model %q, available: %s\n", args[0], strings.Join(a.chatService.Models(), ", "))
		return err
	}
	fmt.Println("Model set to", args[0])
	return nil
}

func (a *App) printHistory() {
	snap := a.chatService.Snapshot()
	for _, m := range snap.Messages {
		prefix := "you"
		if m.Role == models.RoleAssistant {
			prefix = "assistant"
		}
		suffix := ""
		if m.Delivery == models.DeliveryFailed {
			suffix = " (not delivered)"
		}
		fmt.Printf("%s: %s%s\n", prefix, m.Content, suffix)
	}
}

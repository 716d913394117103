package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	snap := a.authService.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		return ""
	}

	s := snap.User.Email
	chat := a.chatService.Snapshot()
	if chat.CurrentSessionID != nil {
		s = fmt.Sprintf("%s #%d", s, *chat.CurrentSessionID)
	}
	if chat.RAGEnabled {
		s += " rag"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root runs the command loop. Commands are dispatched against the auth
// state re-read on every iteration, so a session expiring mid-loop simply
// falls back to the signed-out command set.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to docuchat (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("dc %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: sessions, new, switch, delete, say, rag, model, upload, whoami, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)
		case "sessions":
			_ = a.Sessions(ctx)
		case "new":
			_ = a.New(ctx, args)
		case "switch":
			_ = a.Switch(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "say":
			_ = a.Say(ctx, args)
		case "rag":
			_ = a.Rag(ctx, args)
		case "model":
			_ = a.Model(ctx, args)
		case "upload":
			_ = a.Upload(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

// chatHistoryLimit bounds the turns sent back to the model with each message.
const chatHistoryLimit = 20

// Food estimates the macros of a meal photo. Nothing is stored.
func (a *App) Food(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("food <photo>")
	}
	gen, err := a.ai()
	if err != nil {
		return err
	}
	data, mime, err := readMedia(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Looking at your plate...")
	meal, err := gen.AnalyzeFood(ctx, data, mime)
	if err != nil {
		return err
	}
	printMeal(a.out, "", *meal)
	return nil
}

// Form reviews a workout video and prints technique corrections.
func (a *App) Form(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("form <video> <exercise>")
	}
	gen, err := a.ai()
	if err != nil {
		return err
	}
	data, mime, err := readMedia(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Reviewing your form...")
	advice, err := gen.AnalyzeWorkoutVideo(ctx, data, mime, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, advice)
	return nil
}

// Chat sends a message to the coach. Without arguments it reads a multi-line message.
func (a *App) Chat(ctx context.Context, args []string) error {
	gen, err := a.ai()
	if err != nil {
		return err
	}

	msg := strings.Join(args, " ")
	if msg == "" {
		if msg, err = getMultiline(a.reader, "Message", a.out); err != nil {
			return err
		}
	}
	if strings.TrimSpace(msg) == "" {
		return usage("chat <message>")
	}

	history := a.chat
	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}
	reply, err := gen.SendChatMessage(ctx, history, msg)
	if err != nil {
		return err
	}

	a.chat = append(a.chat,
		models.ChatMessage{Role: "user", Content: msg},
		models.ChatMessage{Role: "model", Content: reply},
	)
	fmt.Fprintln(a.out, reply)
	return nil
}

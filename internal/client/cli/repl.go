package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Guest(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Onboard(ctx context.Context, args []string) error
	Pay(ctx context.Context, args []string) error
	Resume(ctx context.Context, args []string) error
	Analyze(ctx context.Context, args []string) error
	Plan(ctx context.Context, args []string) error
	Day(ctx context.Context, args []string) error
	Swap(ctx context.Context, args []string) error
	Meal(ctx context.Context, args []string) error
	Workout(ctx context.Context, args []string) error
	Weight(ctx context.Context, args []string) error
	Log(ctx context.Context, args []string) error
	Progress(ctx context.Context, args []string) error
	Food(ctx context.Context, args []string) error
	Form(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: signup, login, guest, status, exit"
	helpSession   = "Available commands: onboard, pay, resume <url>, analyze <photo>, plan, day <n>, " +
		"swap <day> <exercise#>, meal <day> <meal#>, workout <day>, weight <kg>, log <day> [min] [kcal], " +
		"progress, food <photo>, form <video> <exercise>, chat <message>, status, logout, exit"
)

// runREPL starts the read–eval–print loop of the GophFit client.
//
// It reads a line from the scanner, parses the first token as the command
// and the rest as its arguments, and dispatches to a. Handler errors are
// printed as a short friendly message; the loop keeps going. It exits on
// scanner EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gophfit %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSession)
			} else {
				printlnFn(helpAnonymous)
			}
			continue

		case "signup", "register":
			handler = a.Register
		case "login":
			handler = a.Login
		case "guest":
			handler = a.Guest
		case "logout":
			handler = a.Logout
		case "onboard":
			handler = a.Onboard
		case "pay":
			handler = a.Pay
		case "resume":
			handler = a.Resume
		case "analyze":
			handler = a.Analyze
		case "plan":
			handler = a.Plan
		case "day":
			handler = a.Day
		case "swap":
			handler = a.Swap
		case "meal":
			handler = a.Meal
		case "workout":
			handler = a.Workout
		case "weight":
			handler = a.Weight
		case "log":
			handler = a.Log
		case "progress":
			handler = a.Progress
		case "food":
			handler = a.Food
		case "form":
			handler = a.Form
		case "chat":
			handler = a.Chat
		case "status":
			handler = a.Status

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn(friendlyError(err))
		}
	}
}

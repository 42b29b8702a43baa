package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var greetings = [...]string{
	"Every breakthrough starts with a conversation.",
	"Your next session is one booking away.",
	"Clarity is a habit. Let's build it together.",
	"Small steps, taken weekly, go a long way.",
	"The best time to start was yesterday. The next best is now.",
	"Coaches are ready. Your calendar is waiting.",
}

var (
	brandColor = lipgloss.Color("#a78bfa")
	roleStyle  = lipgloss.NewStyle().Foreground(brandColor).Bold(true)
)

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(brandColor).
		Bold(true).
		Render("M I N D V I S I O N")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Coaching sessions, booked from your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"mindvision", "Open the interactive client"},
		{"mindvision --open /book", "Open straight onto a screen"},
		{"mindvision login", "Sign in with email and password"},
		{"mindvision register", "Create an account"},
		{"mindvision whoami", "Show the signed-in user (--verify to ask the server)"},
		{"mindvision logout", "Clear your session"},
		{"mindvision version", "Show version"},
	}
	flagsHelp := []struct{ flag, desc string }{
		{"--api-url", "API base URL (MINDVISION_API_URL)"},
		{"--debug", "Write debug logs to ~/.mindvision/mindvision.log"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  Flags:\n")
	for _, f := range flagsHelp {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", f.flag)), descStyle.Render(f.desc))
	}
	fmt.Fprintln(w)
}

func printGreeting(w io.Writer) {
	msg := greetings[rand.IntN(len(greetings))]

	title := lipgloss.NewStyle().
		Foreground(brandColor).
		Bold(true).
		Render("MINDVISION")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Not signed in. To start: mindvision login  (or mindvision register)")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/agent"
	"github.com/chemclerk/chemclerk/internal/shared/cmdutils"
)

var agentMessage string

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Interact with the chemistry agent",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().StringVarP(&agentMessage, "message", "m", "", "Send a single message and exit")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runAgent(_ *cobra.Command, _ []string) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}
	runner := container.Runner()

	if agentMessage != "" {
		return runSingleMessage(runner, agentMessage)
	}
	return runInteractive(runner)
}

// runSingleMessage sends one question to the agent and prints the response.
func runSingleMessage(runner *agent.Runner, question string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "  ↳ thinking...\n")
	answer, err := runner.Answer(ctx, question, printProgress)
	if err != nil {
		return err
	}
	cmdutils.PrintResponse(answer)
	return nil
}

// runInteractive starts the REPL loop: reads lines from stdin and answers
// each before prompting again.
func runInteractive(runner *agent.Runner) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenForSignals(cancel)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		answer, err := runner.Answer(ctx, line, printProgress)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		cmdutils.PrintResponse(answer)
	}
}

func printProgress(text string) {
	fmt.Printf("  ↳ %s\n", text)
}

// listenForSignals cancels ctx on SIGINT or SIGTERM and exits.
func listenForSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()
}

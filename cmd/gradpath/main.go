package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/gradpath/config"
	agentcore "github.com/mohammad-safakhou/gradpath/internal/agent/core"
	agenttele "github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/internal/server"
	"github.com/mohammad-safakhou/gradpath/profile/inmemory"
)

func main() {
	_ = godotenv.Load()

	var root = &cobra.Command{Use: "gradpath"}
	root.AddCommand(serveCMD(), chatCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCMD() *cobra.Command {
	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if serveAddr == "" {
				serveAddr = os.Getenv("GRADPATH_HTTP_ADDR")
			}
			if serveAddr == "" {
				serveAddr = ":8080"
			}
			return server.Run(serveAddr, cfg)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return serve
}

func chatCMD() *cobra.Command {
	var cfgPath string
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Interactive terminal chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			tele := agenttele.NewTelemetry(cfg.Telemetry, nil)
			store := inmemory.NewInMemoryProfileStore()
			orch, err := agentcore.NewOrchestrator(cfg, store, tele)
			if err != nil {
				return err
			}
			return runREPL(cmd.Context(), orch)
		},
	}
	chat.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return chat
}

// runREPL reads turns from stdin until quit/exit or EOF. One session spans
// the whole process so profile facts accumulate across turns.
func runREPL(ctx context.Context, orch *agentcore.Orchestrator) error {
	sessionID := uuid.NewString()
	fmt.Println("GradPath - your graduate program research assistant")
	fmt.Println("Tell me what you're looking for. Type 'quit' or 'exit' to leave.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			fmt.Println("Good luck with your applications!")
			break
		}

		reply, err := orch.RunTurn(ctx, sessionID, input)
		if err != nil {
			fmt.Printf("\nSomething went wrong: %v\n\n", err)
			continue
		}
		fmt.Printf("\nGradPath:\n%s\n\n", reply)
	}
	return scanner.Err()
}

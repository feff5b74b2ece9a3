package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/zoomrx/agastya/internal/agent"
	"github.com/zoomrx/agastya/internal/db"
)

var chatUserID int64

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant from the terminal",
	Long:  `Starts an interactive terminal session with the assistant. Type "exit" or "quit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		store, err := loadVectorStore(cfg, embedder)
		if err != nil {
			return err
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		database, err := db.Open(dbPathFor(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		engine, err := buildEngine(cfg, database, store, provider)
		if err != nil {
			return err
		}

		ctx := context.Background()
		sessionKey := agent.SessionKey(chatUserID)

		name := fmt.Sprintf("User %d", chatUserID)
		if _, last, err := engine.Panel().UserName(ctx, chatUserID); err == nil && last != "" {
			name = "Dr. " + last
		}
		fmt.Printf("Hello %s! Ask me about medical research, your panel data, or conferences.\n\n", name)

		prompt := promptui.Prompt{Label: "You"}
		for {
			input, err := prompt.Run()
			if err != nil {
				// Ctrl-C / Ctrl-D end the session.
				fmt.Println("\nGoodbye!")
				return nil
			}
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				fmt.Println("Goodbye!")
				return nil
			}

			reply := engine.Process(ctx, sessionKey, chatUserID, input)
			if verbose {
				fmt.Printf("[intent: %s]\n", reply.Intent)
			}
			fmt.Printf("\n%s\n\n", reply.Answer)
		}
	},
}

func init() {
	chatCmd.Flags().Int64Var(&chatUserID, "user", 1, "panel user ID for the session")
	rootCmd.AddCommand(chatCmd)
}

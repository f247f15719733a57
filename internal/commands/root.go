// Package commands provides CLI commands for faqchat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/faqchat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flags shared by the client commands
type rootOptions struct {
	server string
	output string
	file   string
	raw    bool
}

// NewRootCmd builds the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "faqchat [question]",
		Short: "Terminal chat for the family health FAQ assistant",
		Long: `faqchat asks questions to an FAQ chat server and shows its answers.
The server answers from a book of frequently asked questions using an
LLM, and remembers the conversation per session.

Examples:
  faqchat serve                          Start the chat server
  faqchat chat                           Start interactive chat
  faqchat "How do I treat a fever?"      Ask a single question
  faqchat -f question.txt                Read the question from a file
  cat question.txt | faqchat             Read the question from stdin
  faqchat reset                          Forget the conversation
  faqchat config set server_url http://127.0.0.1:5000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "faqchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			var question string
			switch {
			case opts.file != "":
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				question = string(data)
			case len(args) > 0:
				question = args[0]
			case deps.StdinPiped != nil && deps.StdinPiped():
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				question = string(data)
			default:
				return cmd.Help()
			}

			raw := opts.raw || deps.StdoutIsTTY == nil || !deps.StdoutIsTTY()
			return runQuery(cmd.Context(), deps, opts, question, raw)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", "", "Chat server URL (overrides server_url)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the answer to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the question from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the answer text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, opts))
	cmd.AddCommand(newResetCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(newServeCmd(deps))

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "faqchat"))
		os.Exit(1)
	}
}

// loadClientConfig reads the client config and applies flag overrides
func loadClientConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if opts != nil && opts.server != "" {
		if err := cfg.Set("server_url", opts.server); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

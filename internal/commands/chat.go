package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/faqchat/internal/config"
	"github.com/diogo/faqchat/internal/logging"
	"github.com/diogo/faqchat/internal/render"
	"github.com/diogo/faqchat/internal/tui"
)

func newChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the FAQ server.

Questions can be sent while earlier answers are still on their way; each
answer replaces its own placeholder. Type /reset to make the server forget
the conversation, and /exit, /quit, Esc or Ctrl+C to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, opts)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) error {
	cfg, err := loadClientConfig(opts)
	if err != nil {
		return err
	}

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	logger, closeLog := chatLogger(cfg)
	defer closeLog()
	logger.Info().Str("server", client.ServerURL()).Msg("chat started")

	tuiOpts := tui.Options{
		TypingDelay:     cfg.TypingDelay(),
		CopyToClipboard: cfg.CopyToClipboard,
		Render:          render.LoadOptionsFromConfig(),
		Logger:          logger,
		Context:         cmd.Context(),
	}

	if err := deps.TUI.RunChat(client, tuiOpts); err != nil {
		logger.Error().Err(err).Msg("chat ended with error")
		return err
	}
	logger.Info().Msg("chat ended")
	return nil
}

// chatLogger opens the client log file. The TUI owns the terminal, so a
// logger that cannot be opened degrades to a no-op.
func chatLogger(cfg config.Config) (zerolog.Logger, func()) {
	path, err := config.GetLogPath()
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	logger, closeFn, err := logging.NewFileLogger(path, cfg.LogLevel, "tui")
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	return logger, func() { _ = closeFn() }
}

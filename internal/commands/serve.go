package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/faqchat/internal/config"
	apierrors "github.com/diogo/faqchat/internal/errors"
	"github.com/diogo/faqchat/internal/history"
	"github.com/diogo/faqchat/internal/knowledge"
	"github.com/diogo/faqchat/internal/llm"
	"github.com/diogo/faqchat/internal/logging"
	"github.com/diogo/faqchat/internal/models"
	"github.com/diogo/faqchat/internal/server"
)

type serveOptions struct {
	addr       string
	book       string
	historyDir string
	logLevel   string
	jsonLogs   bool
}

func newServeCmd(deps *Dependencies) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the FAQ chat server",
		Long: `Run the HTTP server that answers /chat questions from the FAQ book.

Settings come from the environment (FAQCHAT_ADDR, FAQCHAT_BOOK, FAQCHAT_MODEL,
FAQCHAT_BASE_URL, FAQCHAT_HISTORY_DIR, GROQ_API_KEY, ...). The API key may
also be read from the JSON key file named by FAQCHAT_KEY_FILE. Flags
override the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)

			logger := logging.NewWithComponent(logging.Config{
				Level:  cfg.LogLevel,
				Pretty: !opts.jsonLogs,
				Output: deps.Stderr,
			}, "server")

			srv, err := buildServer(cfg, logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (FAQCHAT_ADDR)")
	cmd.Flags().StringVar(&opts.book, "book", "", "FAQ book text file (FAQCHAT_BOOK)")
	cmd.Flags().StringVar(&opts.historyDir, "history-dir", "", "Directory for session history; empty keeps it in memory (FAQCHAT_HISTORY_DIR)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (FAQCHAT_LOG_LEVEL)")
	cmd.Flags().BoolVar(&opts.jsonLogs, "json-logs", false, "Write JSON log lines instead of console output")

	return cmd
}

// apply copies explicitly set flags over the environment values
func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.ServerConfig) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = o.addr
	}
	if flags.Changed("book") {
		cfg.BookPath = o.book
	}
	if flags.Changed("history-dir") {
		cfg.HistoryDir = o.historyDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
}

// buildServer wires the knowledge base, completion provider and history
// store into a server.
func buildServer(cfg config.ServerConfig, logger zerolog.Logger) (*server.Server, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set GROQ_API_KEY or add it to %s", apierrors.ErrNoProvider, cfg.KeyFile)
	}

	kb, err := knowledge.Load(cfg.BookPath, cfg.ChunkSize)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Warn().Str("book", cfg.BookPath).Msg("FAQ book not found, answering without context")
		kb = knowledge.New("", cfg.ChunkSize)
	}
	logger.Info().Str("book", cfg.BookPath).Int("chunks", kb.Len()).Msg("knowledge base loaded")

	provider, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion provider: %w", err)
	}

	store, err := history.NewStore(cfg.HistoryDir)
	if err != nil {
		return nil, err
	}

	return server.New(server.Options{
		Knowledge:      kb,
		Provider:       provider,
		Store:          store,
		TopK:           cfg.TopK,
		HistoryWindow:  models.HistoryWindow,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		Logger:         logger,
	})
}

package render

import (
	"os"

	"github.com/diogo/faqchat/internal/config"
)

// styleEnv overrides the configured markdown style.
const styleEnv = "GLAMOUR_STYLE"

// FromMarkdownConfig maps the client's markdown settings onto Options.
// An empty style keeps the default.
func FromMarkdownConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks
	return opts
}

// LoadOptionsFromConfig reads the client config file. A missing or broken
// file yields the defaults; GLAMOUR_STYLE wins over both.
func LoadOptionsFromConfig() Options {
	opts := DefaultOptions()
	if cfg, err := config.LoadConfig(); err == nil {
		opts = FromMarkdownConfig(cfg.Markdown)
	}
	if style := os.Getenv(styleEnv); style != "" {
		opts.Style = style
	}
	return opts
}

func LoadOptionsFromConfigWithWidth(width int) Options {
	return LoadOptionsFromConfig().WithWidth(width)
}

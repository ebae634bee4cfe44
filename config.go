package formflow

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tbxark/formflow/render"
	"github.com/tbxark/formflow/types"
)

// Config carries the global command vocabulary, the prompt template tables
// and the list formatting conventions shared by every conversation built
// from one form. The zero value is not usable; start from DefaultConfig and
// overlay adjustments, optionally from a YAML file.
type Config struct {
	Commands map[types.Command]types.CommandDescription `yaml:"commands"`

	YesTerms []string `yaml:"yes_terms"`
	NoTerms  []string `yaml:"no_terms"`

	// Templates is the default template table; Localized overrides it per
	// locale tag ("de", "zh-CN", ...). DefaultLocale names the table used
	// when a state's locale matches nothing.
	Templates     render.Templates            `yaml:"templates"`
	Localized     map[string]render.Templates `yaml:"localized"`
	DefaultLocale string                      `yaml:"default_locale"`

	Separator     string `yaml:"separator"`
	LastSeparator string `yaml:"last_separator"`
	Unspecified   string `yaml:"unspecified"`
}

// DefaultConfig mirrors the stock command vocabulary and templates.
func DefaultConfig() *Config {
	return &Config{
		Commands: map[types.Command]types.CommandDescription{
			types.CommandBackup: {
				Description: "Backup",
				Terms:       []string{"backup", "go back", "back"},
				Help:        "Back: Go back to the previous question.",
			},
			types.CommandHelp: {
				Description: "Help",
				Terms:       []string{"help", "choices", "?"},
				Help:        "Help: Show the kinds of responses you can enter.",
			},
			types.CommandQuit: {
				Description: "Quit",
				Terms:       []string{"quit", "stop", "finish", "goodbye", "good bye"},
				Help:        "Quit: Quit the form without completing it.",
			},
			types.CommandReset: {
				Description: "Start over",
				Terms:       []string{"start over", "reset", "clear"},
				Help:        "Reset: Start over filling in the form.",
			},
			types.CommandStatus: {
				Description: "Status",
				Terms:       []string{"status", "progress", "so far"},
				Help:        "Status: Show your progress in filling in the form so far.",
			},
		},
		YesTerms:      []string{"yes", "y", "sure", "ok", "yep"},
		NoTerms:       []string{"no", "n", "nope"},
		Templates:     render.DefaultTemplates(),
		DefaultLocale: "en",
		Separator:     ", ",
		LastSeparator: " and ",
		Unspecified:   "Unspecified",
	}
}

// LoadConfig reads a YAML overlay on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	conf := DefaultConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return conf, nil
}

// prompter builds the renderer for the given locale, preferring the closest
// localized template table.
func (c *Config) prompter(locale string) *render.Prompter {
	templates := c.Templates
	if len(c.Localized) > 0 && locale != "" {
		supported := make([]string, 0, len(c.Localized)+1)
		supported = append(supported, c.DefaultLocale)
		tags := make([]string, 0, len(c.Localized))
		for tag := range c.Localized {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		supported = append(supported, tags...)
		if best := render.MatchLocale(locale, supported); best != c.DefaultLocale {
			if t, ok := c.Localized[best]; ok {
				templates = t
			}
		}
	}
	return render.NewPrompter(templates, c.Separator, c.LastSeparator)
}

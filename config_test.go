package formflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/formflow/render"
	"github.com/tbxark/formflow/types"
)

func TestDefaultConfig(t *testing.T) {
	conf := DefaultConfig()
	require.Len(t, conf.Commands, 5)
	assert.Contains(t, conf.Commands[types.CommandBackup].Terms, "go back")
	assert.Contains(t, conf.Commands[types.CommandHelp].Terms, "?")
	assert.Contains(t, conf.Commands[types.CommandReset].Terms, "start over")
	assert.Contains(t, conf.YesTerms, "yes")
	assert.Contains(t, conf.NoTerms, "no")
	assert.Equal(t, "Unspecified", conf.Unspecified)
	assert.NotEmpty(t, conf.Templates[render.TemplateString])
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
unspecified: "Missing"
yes_terms: ["ja"]
templates:
  string: "Gib %s ein"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Missing", conf.Unspecified)
	assert.Equal(t, []string{"ja"}, conf.YesTerms)
	assert.Equal(t, "Gib %s ein", conf.Templates[render.TemplateString])
	// Untouched entries keep their defaults.
	assert.Equal(t, render.DefaultTemplates()[render.TemplateSelectOne], conf.Templates[render.TemplateSelectOne])
	assert.Len(t, conf.Commands, 5)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestPrompterPicksLocalizedTemplates(t *testing.T) {
	conf := DefaultConfig()
	conf.Localized = map[string]render.Templates{
		"de": {render.TemplateString: "Bitte %s eingeben"},
	}

	assert.Equal(t, "Bitte name eingeben", conf.prompter("de-CH").Prompt(render.TemplateString, "name"))
	assert.Equal(t, "Please enter name", conf.prompter("en").Prompt(render.TemplateString, "name"))
	assert.Equal(t, "Please enter name", conf.prompter("").Prompt(render.TemplateString, "name"))
}

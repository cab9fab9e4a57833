package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/tokcount/internal/application/counting"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
	"github.com/jbctechsolutions/tokcount/internal/presentation/cli/output"
)

// ProviderInfo describes one provider for `tokcount providers`.
type ProviderInfo struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	DefaultModel string   `json:"default_model"`
	Offline      bool     `json:"offline"`
	EnvVars      []string `json:"env_vars,omitempty"`
	Configured   bool     `json:"configured"`
}

// NewProvidersCmd creates the providers command.
func NewProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported providers",
		Long: `List the supported providers with their default model, whether counting
happens offline, and the environment variables that hold their credentials.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProviders()
		},
	}
}

func runProviders() error {
	container := GetContainer()
	svc := container.Counter()
	infos := describeProviders(svc.DefaultModel, svc.Credentials())

	formatter := GetFormatter()
	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(infos)
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		mode := "remote"
		if info.Offline {
			mode = "offline"
		}
		status := "no"
		if info.Configured {
			status = "yes"
		}
		env := strings.Join(info.EnvVars, ", ")
		if env == "" {
			env = "-"
		}
		rows = append(rows, []string{info.Name, info.DefaultModel, mode, status, env})
	}

	return formatter.Table(output.TableData{
		Columns: []output.TableColumn{
			{Header: "PROVIDER"},
			{Header: "DEFAULT MODEL"},
			{Header: "MODE"},
			{Header: "READY"},
			{Header: "CREDENTIALS"},
		},
		Rows: rows,
	})
}

// describeProviders reports each provider's defaults and whether its
// credentials resolve. OpenAI is always ready.
func describeProviders(defaultModel func(provider.Provider) string, creds counting.Credentials) []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(provider.All()))
	for _, p := range provider.All() {
		info := ProviderInfo{
			Name:         p.String(),
			DisplayName:  p.DisplayName(),
			DefaultModel: defaultModel(p),
			Offline:      p.IsOffline(),
			EnvVars:      p.CredentialEnvVars(),
		}
		switch p {
		case provider.OpenAI:
			info.Configured = true
		case provider.Anthropic:
			info.Configured = creds.AnthropicAPIKey != ""
		case provider.Gemini:
			if creds.UseVertexAI {
				info.Configured = creds.GeminiProjectID != ""
			} else {
				info.Configured = creds.GeminiAPIKey != ""
			}
		}
		infos = append(infos, info)
	}
	return infos
}

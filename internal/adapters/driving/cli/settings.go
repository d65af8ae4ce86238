package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

const secretKeySuffix = ".api_key"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change clausefinder settings.

Settings are stored in ~/.clausefinder/config.toml. OPENAI_API_KEY and
ANTHROPIC_API_KEY, from the environment or a .env file, are used when no
API key is configured.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change one setting",
	Long: `Change one setting by key, for example:

  clausefinder settings set retrieval.top_k 5
  clausefinder settings set index.backend json
  clausefinder settings set llm.api_key

API keys are read from the terminal without echo when no value is given.
Run 'clausefinder settings show' to list every key.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively choose the embedding provider used to index and query clauses.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Interactively choose the LLM provider used to extract clauses.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	rows, err := settingsService.Display()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}
	section := ""
	for _, row := range rows {
		if s, _, _ := strings.Cut(row[0], "."); s != section {
			if section != "" {
				cmd.Println()
			}
			section = s
			cmd.Printf("[%s]\n", section)
		}
		value := row[1]
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("  %-*s  %s\n", width, row[0], value)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Mock providers will be used until this is fixed.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case strings.HasSuffix(key, secretKeySuffix):
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret(cmd)
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	if strings.HasSuffix(key, secretKeySuffix) {
		cmd.Printf("%s updated\n", key)
	} else {
		cmd.Printf("%s = %s\n", key, strings.TrimSpace(value))
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	provider, model, apiKey, err := chooseProvider(cmd, reader, "Embedding",
		domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	cmd.Println("Rebuild the index so stored vectors match the new provider.")
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	provider, model, apiKey, err := chooseProvider(cmd, reader, "LLM",
		domain.AllLLMProviders(), domain.DefaultLLMModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func chooseProvider(
	cmd *cobra.Command,
	reader *bufio.Reader,
	kind string,
	providers []domain.AIProvider,
	defaults map[domain.AIProvider]string,
) (domain.AIProvider, string, string, error) {
	cmd.Printf("Select %s Provider\n", kind)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	if provider == domain.AIProviderMock {
		return provider, "", "", nil
	}

	defaultModel := defaults[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Printf("Enter API key (empty = use %s): ", provider.APIKeyEnv())
		apiKey = readSecretFrom(cmd, reader)
		cmd.Println()
	}
	return provider, model, apiKey, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readSecret(cmd *cobra.Command) string {
	return readSecretFrom(cmd, bufio.NewReader(cmd.InOrStdin()))
}

// readSecretFrom reads without echo when stdin is a terminal.
func readSecretFrom(cmd *cobra.Command, reader *bufio.Reader) string {
	if f, ok := inputFile(cmd.InOrStdin()); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func inputFile(r io.Reader) (*os.File, bool) {
	f, ok := r.(*os.File)
	return f, ok
}

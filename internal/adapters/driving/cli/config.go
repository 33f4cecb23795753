package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datamill-co/knots/internal/core/domain"
)

var (
	configPairs       []string
	configInteractive bool
	configSkipCheck   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the registered tap",
}

var configSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit config values and run discovery",
	Long: `Merge config values into knot.json, stage them for the tap and run
discovery. The discovered catalog is printed on success.

Examples:
  knots config submit -c host=localhost -c user=app -c password=secret \
    -c dbname=shop -c port=5432

  # Prompt for every field not given with -c
  knots config submit --interactive`,
	RunE: runConfigSubmit,
}

func init() {
	configSubmitCmd.Flags().StringArrayVarP(&configPairs, "config", "c", nil, "config value as key=value (repeatable)")
	configSubmitCmd.Flags().BoolVarP(&configInteractive, "interactive", "i", false, "prompt for missing fields")
	configSubmitCmd.Flags().BoolVar(&configSkipCheck, "skip-validation", false, "submit even if required fields are missing")
	configCmd.AddCommand(configSubmitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSubmit(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	ctx := cmd.Context()

	values, err := parseConfigPairs(configPairs)
	if err != nil {
		return err
	}

	status, err := pipelineService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read knot: %w", err)
	}
	if status.State == domain.KnotStateUnregistered {
		return errors.New("no tap registered, run 'knots tap add' first")
	}
	tapName := status.Knot.Tap.Name

	if configInteractive {
		fields, err := fieldsForKnot(status.Knot)
		if err != nil {
			return err
		}
		promptFields(cmd.OutOrStdout(), cmd.InOrStdin(), fields, values)
	}

	if !configSkipCheck {
		if err := pipelineService.ValidateConfig(ctx, tapName, values); err != nil {
			return err
		}
	}

	cmd.Printf("Submitting configuration for tap-%s:\n", tapName)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := values[k]
		if (domain.TapConfigField{Key: k}).IsSecret() {
			v = maskSecret(v)
		}
		cmd.Printf("  %s = %s\n", k, v)
	}
	cmd.Println()

	catalog, err := pipelineService.SubmitConfig(ctx, values)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	cmd.Printf("Discovered %d streams\n", catalog.StreamCount())
	cmd.Println(catalog.Pretty())
	return nil
}

// parseConfigPairs turns key=value flags into a map. Later pairs win.
func parseConfigPairs(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: config value %q must be key=value", domain.ErrInvalidInput, pair)
		}
		values[key] = value
	}
	return values, nil
}

// fieldsForKnot returns the fields to prompt for. A registered knot still
// holds its field list; a configured one falls back to the registry.
func fieldsForKnot(knot *domain.Knot) ([]domain.TapConfigField, error) {
	if fields, err := knot.Tap.ConfigFields(); err == nil {
		return fields, nil
	}
	if tapRegistry == nil {
		return nil, errors.New("tap registry not configured")
	}
	fields, err := tapRegistry.FieldsFor(knot.Tap.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get fields: %w", err)
	}
	return fields, nil
}

// promptFields asks for every field without a value. Empty answers to
// optional fields are skipped.
func promptFields(out io.Writer, in io.Reader, fields []domain.TapConfigField, values map[string]string) {
	reader := bufio.NewReader(in)
	for _, f := range fields {
		if _, ok := values[f.Key]; ok {
			continue
		}

		suffix := ""
		if !f.Required {
			suffix = " (optional)"
		}
		fmt.Fprintf(out, "%s%s: ", f.Label, suffix)

		var answer string
		if f.IsSecret() {
			answer = readSecret(in, reader)
			fmt.Fprintln(out)
		} else {
			answer = readLine(reader)
		}

		if answer == "" && !f.Required {
			continue
		}
		values[f.Key] = answer
	}
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	itm "github.com/drizzo-tech/proofpoint-itm"
)

var conditionCmd = &cobra.Command{
	Use:   "condition",
	Short: "Manage custom match conditions",
}

var (
	conditionAlias  string
	conditionFile   string
	conditionAttr   string
	conditionMatch  string
	conditionPrefix string
)

var conditionUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rebuild a condition's value list",
	Long: `Replace the definition and patterns of a custom match condition with
values read from a file, one per line, then publish the change.

The match type is the console's operator name without the dollar sign,
for example stringIn or stringContains. The attribute is the event
field the values match against, for example user.name.`,
	RunE: runConditionUpdate,
}

func init() {
	conditionUpdateCmd.Flags().StringVar(&conditionAlias, "alias", "", "alias of the condition to update")
	conditionUpdateCmd.Flags().StringVarP(&conditionFile, "file", "f", "", "file with condition values, one per line")
	conditionUpdateCmd.Flags().StringVar(&conditionAttr, "attr", "", "attribute name the values match against")
	conditionUpdateCmd.Flags().StringVarP(&conditionMatch, "match", "m", "stringIn", "match operator for the values")
	conditionUpdateCmd.Flags().StringVarP(&conditionPrefix, "prefix", "p", "", "prefix added to each value")
	_ = conditionUpdateCmd.MarkFlagRequired("alias")
	_ = conditionUpdateCmd.MarkFlagRequired("file")
	_ = conditionUpdateCmd.MarkFlagRequired("attr")

	conditionCmd.AddCommand(conditionUpdateCmd)
	rootCmd.AddCommand(conditionCmd)
}

func runConditionUpdate(cmd *cobra.Command, args []string) error {
	values, err := readLines(conditionFile, conditionPrefix)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no values in %s", conditionFile)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	page, err := client.Search.Depot(cmd.Context(), itm.TermQuery("alias", conditionAlias), itm.EntityPredicate)
	if err != nil {
		return err
	}
	if len(page.Data) == 0 {
		return fmt.Errorf("no condition with alias %q", conditionAlias)
	}
	target := page.Data[0]

	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	patterns := make([]itm.Pattern, len(values))
	for i, v := range values {
		patterns[i] = itm.Pattern{Key: conditionAttr, Value: v}
	}

	predicate := itm.NewPredicate(target)
	predicate.Definition = itm.Record{
		"$and": []any{
			map[string]any{
				"$" + conditionMatch: map[string]any{conditionAttr: list},
			},
		},
	}
	predicate.Patterns = patterns

	resp, err := client.Predicates.Update(cmd.Context(), target.ID(), predicate)
	if err != nil {
		return err
	}
	if status := resp.Child("_status").Str("status"); status != "" && status != "200" {
		return fmt.Errorf("condition update returned status %s", status)
	}
	logger.Info("condition updated",
		zap.String("id", target.ID()),
		zap.Int("values", len(values)))

	if _, err := client.Config.Publish(cmd.Context()); err != nil {
		return fmt.Errorf("publishing configuration: %w", err)
	}
	logger.Info("configuration published")
	return nil
}

// readLines reads non-empty lines from path, trimming whitespace and
// prepending prefix to each.
func readLines(path, prefix string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, prefix+line)
	}
	return lines, scanner.Err()
}

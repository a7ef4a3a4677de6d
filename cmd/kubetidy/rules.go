package main

import (
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the registered rules",
		Long: `List every rule the current configuration registers, built-in and
custom, in evaluation order.`,
		Args: cobra.NoArgs,
		RunE: runRules,
	}
}

func runRules(cmd *cobra.Command, args []string) error {
	eng, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var list RuleList
	for _, rule := range eng.Registry().Rules() {
		list.Rules = append(list.Rules, RuleInfo{
			ID:          rule.ID(),
			Category:    string(rule.Category()),
			Description: rule.Description(),
		})
	}
	return outputResult(list, cfg.Output)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	itm "github.com/drizzo-tech/proofpoint-itm"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage agent policies",
}

var (
	policyName string
	policyFile string
)

var policyAddUsersCmd = &cobra.Command{
	Use:   "add-users",
	Short: "Apply an agent policy to a list of users",
	Long: `Rewrite an agent policy's match rule so it applies to the usernames
read from a file, one per line, then publish the change.

The existing match rule is replaced, not extended.`,
	RunE: runPolicyAddUsers,
}

func init() {
	policyAddUsersCmd.Flags().StringVarP(&policyName, "policy", "p", "", "alias of the policy to update")
	policyAddUsersCmd.Flags().StringVarP(&policyFile, "file", "f", "", "file with usernames, one per line")
	_ = policyAddUsersCmd.MarkFlagRequired("policy")
	_ = policyAddUsersCmd.MarkFlagRequired("file")

	policyCmd.AddCommand(policyAddUsersCmd)
	rootCmd.AddCommand(policyCmd)
}

func runPolicyAddUsers(cmd *cobra.Command, args []string) error {
	usernames, err := readLines(policyFile, "")
	if err != nil {
		return err
	}
	if len(usernames) == 0 {
		return fmt.Errorf("no usernames in %s", policyFile)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	policies, err := client.AgentPolicies.List(cmd.Context(),
		itm.WithParam("alias", policyName),
		itm.WithIncludes("*"))
	if err != nil {
		return err
	}
	if len(policies) == 0 {
		return fmt.Errorf("no agent policy with alias %q", policyName)
	}
	target := policies[0]

	agentPolicy := itm.NewAgentPolicy(target)
	agentPolicy.MatchUsers(usernames)

	resp, err := client.AgentPolicies.Overwrite(cmd.Context(), target.ID(), agentPolicy)
	if err != nil {
		return err
	}
	if status := resp.Child("_status").Str("status"); status != "" && status != "200" {
		return fmt.Errorf("policy update returned status %s", status)
	}
	logger.Info("agent policy updated",
		zap.String("id", target.ID()),
		zap.Int("users", len(usernames)))

	if _, err := client.Config.Publish(cmd.Context()); err != nil {
		return fmt.Errorf("publishing configuration: %w", err)
	}
	logger.Info("configuration published")
	return nil
}

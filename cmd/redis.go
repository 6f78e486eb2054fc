package cmd

import "github.com/spf13/cobra"

// redisCmd groups commands for the optional response cache.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Response cache utilities",
}

func init() {
	rootCmd.AddCommand(redisCmd)
}

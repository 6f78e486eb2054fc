package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"youbuddy/internal/redisclient"

	"github.com/spf13/cobra"
)

// pingCmd checks that the configured cache is reachable.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the cache's Redis server and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Redis.Addr == "" {
			return errors.New("redis.addr is not configured; the cache is disabled")
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s db=%d)\n", res, cfg.Redis.Addr, cfg.Redis.DB)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}

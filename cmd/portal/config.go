package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarhub/portal-gateway/internal/infrastructure/config"
)

func configCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Print the configuration read from .env and the environment, with secrets redacted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if check {
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
			}

			out, err := json.MarshalIndent(redacted(cfg), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Fail when the configuration is invalid")
	return cmd
}

func redacted(cfg *config.Config) map[string]any {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "****"
	}
	return map[string]any{
		"port":             cfg.Port,
		"env":              cfg.Env,
		"log_level":        cfg.LogLevel,
		"backend_url":      cfg.BackendURL(),
		"backend_timeout":  cfg.Backend.Timeout.String(),
		"firebase_api_key": mask(cfg.FirebaseAPIKey()),
		"imgbb_api_key":    mask(cfg.ImgbbAPIKey()),
		"identity_url":     cfg.Identity.IdentityURL,
		"secure_token_url": cfg.Identity.SecureTokenURL,
		"session_secret":   mask(cfg.Session.Secret),
		"session_idle_ttl": cfg.Session.IdleTTL.String(),
		"guard_wait":       cfg.Session.GuardWait.String(),
		"role_cache_ttl":   cfg.Session.RoleCacheTTL.String(),
		"mongo_db":         cfg.Mongo.Database,
		"redis_enabled":    cfg.Redis.Enabled,
		"redis_addr":       cfg.Redis.Addr,
		"dispatch_workers": cfg.DispatchWorkers,
	}
}

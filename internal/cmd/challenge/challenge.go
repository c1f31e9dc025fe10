// Package challenge parses challenge service flags and launches the service.
package challenge

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/costar.quest/internal/platform/cmd"
	"github.com/louisbranch/costar.quest/internal/platform/timeouts"
	server "github.com/louisbranch/costar.quest/internal/services/challenge/app"
)

// Config holds challenge command configuration.
type Config struct {
	Port      int    `env:"COSTAR_QUEST_CHALLENGE_PORT" envDefault:"8093"`
	DBPath    string `env:"COSTAR_QUEST_CHALLENGE_DB_PATH" envDefault:"data/challenge.db"`
	OracleURL string `env:"COSTAR_QUEST_ORACLE_URL"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The challenge gRPC server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the challenge SQLite database")
	fs.StringVar(&cfg.OracleURL, "oracle-url", cfg.OracleURL, "Base URL of the movie metadata service")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the challenge engine service.
func Run(ctx context.Context, cfg Config) error {
	options := entrypoint.RunOptions{ShutdownTimeout: timeouts.Shutdown}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceChallenge, options, func(context.Context) error {
		return server.Run(ctx, server.Config{
			Port:      cfg.Port,
			DBPath:    cfg.DBPath,
			OracleURL: cfg.OracleURL,
		})
	})
}

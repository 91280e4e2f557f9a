package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cli "jobescrow/cmd/cli"
	pkgconfig "jobescrow/pkg/config"
)

// escrowd is the CLI entrypoint binary: it loads the configuration via
// pkg/config and takes the log level from it, configuring logging the way
// the teacher's cmd/explorer does, and then hands off to cli.RegisterRoutes
// for the actual command tree. No other config value reaches the commands.
func main() {
	_ = godotenv.Load(".env")

	cfg, err := pkgconfig.LoadFromEnv()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	root := &cobra.Command{
		Use:   "jobescrow",
		Short: "devnet CLI for the job-payment escrow program",
	}
	cli.RegisterRoutes(root)

	if err := root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// Command onelink runs the OneLink Portfolio API and its maintenance tools.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/onelink/portfolio-api/internal/logging"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:     "onelink",
	Short:   "OneLink Portfolio API",
	Long:    "Ingests PDF and DOCX résumés, extracts their text and structure, and stores them on user profiles.",
	Version: version,
	PersistentPreRun: func(*cobra.Command, []string) {
		// Env is read here rather than as flag defaults so .env values apply.
		logging.Init(orEnv(logLevel, "LOG_LEVEL"), orEnv(logFormat, "LOG_FORMAT"))
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	flags.StringVar(&logFormat, "log-format", "", "text or json (env LOG_FORMAT)")
}

func orEnv(flag, key string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(key)
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

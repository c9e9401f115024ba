package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sovtrack-engine/internal/config"
)

var (
	flagDataDir string

	rootCmd = &cobra.Command{
		Use:           "engine",
		Short:         "Job-search share-of-voice tracker",
		Long:          "Tracks how much visibility each employer-application domain gets on Google Jobs result pages, as a percentage share per day.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default $SOVTRACK_DATA_DIR or .)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap resolves the data dir, copies the default config in on
// first start, and loads + validates it. Everything downstream receives
// the Config value explicitly; nothing reads ambient state after this.
func bootstrap() (cfg config.Config, dataDir, cfgPath string, err error) {
	dataDir = flagDataDir
	if dataDir == "" {
		dataDir = os.Getenv("SOVTRACK_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err = os.MkdirAll(dataDir, 0o755); err != nil {
		return cfg, "", "", fmt.Errorf("create data dir: %w", err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	cfgPath, err = config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return cfg, "", "", fmt.Errorf("config bootstrap failed: %w", err)
	}

	cfg, err = config.Load(cfgPath)
	if err != nil {
		return cfg, "", "", fmt.Errorf("config load failed (%s): %w", cfgPath, err)
	}

	var res config.Validation
	cfg, res = config.NormalizeAndValidate(cfg)
	for _, warnMsg := range res.Warnings {
		log.Printf("[config] warning: %s", warnMsg)
	}
	if !res.OK() {
		return cfg, "", "", errors.New("config validation failed:\n- " + strings.Join(res.Errors, "\n- "))
	}

	return cfg, dataDir, cfgPath, nil
}

func dbPathFor(dataDir string) string {
	return filepath.Join(dataDir, "sovtrack.db")
}

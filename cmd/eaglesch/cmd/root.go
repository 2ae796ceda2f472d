package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	verbose    bool
	libraryDir string
)

var rootCmd = &cobra.Command{
	Use:   "eaglesch",
	Short: "Eagle schematic import tools",
	Long: `eaglesch converts Eagle XML schematic files into the internal
schematic document model and maintains the symbol library store built
from imported files.

Examples:
  eaglesch import board.sch           # Import a schematic
  eaglesch lib list                   # List stored symbol libraries
  eaglesch lib find lm358             # Search stored parts`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&libraryDir, "library-dir", "", "symbol library store directory")

	viper.BindPFlag("library-dir", rootCmd.PersistentFlags().Lookup("library-dir"))
	viper.SetEnvPrefix("EAGLESCH")
	viper.AutomaticEnv()

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetConfigName("eaglesch")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config"))
	}
	viper.AddConfigPath(".")
	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// storeDir resolves the library store directory from flag, env or config.
func storeDir() string {
	if dir := viper.GetString("library-dir"); dir != "" {
		return dir
	}
	return "eaglesch-libs"
}

// logger builds the command logger honoring the verbose flag.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

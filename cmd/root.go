package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/jsphweid/theorytab/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "theorytab",
	Short: "Normalizes theorytab songs into one schema",
	Long: `Harvests theorytab chord and melody annotations and normalizes songs
still published in the legacy xml format into the json schema.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return err
		}
		level, _ := cmd.Flags().GetString("log-level")
		json, _ := cmd.Flags().GetBool("log-json")
		logger.Setup(level, json)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as json")
	rootCmd.PersistentFlags().String("env-file", ".env", "env file to load if present")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

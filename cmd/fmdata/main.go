package main

import (
	"fmt"
	"os"

	"github.com/fmdata-io/fmdata-client/cmd/fmdata/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fmdata",
	Short: "FileMaker Data API CLI",
	Long: `A command-line interface for the FileMaker Data API.

Work with records, scripts, globals, and database metadata on a
FileMaker Server layout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.fmdata/config.yml)")
	rootCmd.PersistentFlags().String("host", "", "FileMaker Server URL")
	rootCmd.PersistentFlags().StringP("database", "d", "", "database name")
	rootCmd.PersistentFlags().StringP("layout", "l", "", "layout name")
	rootCmd.PersistentFlags().StringP("username", "u", "", "account name")
	rootCmd.PersistentFlags().String("password", "", "account password (prompted when omitted)")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
	_ = viper.BindPFlag("layout", rootCmd.PersistentFlags().Lookup("layout"))
	_ = viper.BindPFlag("username", rootCmd.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewRecordsCommand())
	rootCmd.AddCommand(commands.NewFindCommand())
	rootCmd.AddCommand(commands.NewScriptCommand())
	rootCmd.AddCommand(commands.NewGlobalsCommand())
	rootCmd.AddCommand(commands.NewLayoutsCommand())
	rootCmd.AddCommand(commands.NewScriptsCommand())
	rootCmd.AddCommand(commands.NewDatabasesCommand())
	rootCmd.AddCommand(commands.NewInfoCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.fmdata")
			viper.SetConfigType("yml")
			viper.SetConfigName("config")
		}
	}

	viper.SetEnvPrefix("FMDATA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

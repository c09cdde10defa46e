/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mikesmitty/steady-eddy/pkg/steadyeddy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "steady-eddy",
	Short: "Verify a sliding-window moving-average datapath against a golden model",
	Long: `steady-eddy feeds a stream of fixed-width two's-complement samples
through an incremental sliding-window averager and checks every output
bit-for-bit against a batch reference model.

By default it reads one hex sample per line, writes the cycle log and
reports the first divergence, if any. With --follow it runs as a live
pipeline instead, pacing samples on an interval and publishing the
output stream over MQTT.`,
	Run: steadyeddy.Root(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.steady-eddy.yaml)")
	rootCmd.PersistentFlags().String("input", "-", "sample file, one hex value per line (- for stdin)")
	rootCmd.PersistentFlags().String("log-file", "", "cycle log destination (default stdout)")
	rootCmd.PersistentFlags().Int("window-length", 8, "sliding window length in samples")
	rootCmd.PersistentFlags().Int("sample-width", 32, "sample width in bits")
	rootCmd.PersistentFlags().Int("guard-bits", 0, "accumulator guard bits (0 derives from the window length)")
	rootCmd.PersistentFlags().Bool("wrap", false, "wrap the accumulator at its configured width instead of rejecting overflow")
	rootCmd.PersistentFlags().Bool("follow", false, "run as a live stream instead of a one-shot verification")
	rootCmd.PersistentFlags().Duration("interval", 100*time.Millisecond, "sample pacing interval in follow mode")
	rootCmd.PersistentFlags().String("mqtt-broker", "", "mqtt broker url (follow mode, empty disables)")
	rootCmd.PersistentFlags().Int("mqtt-sample-interval", 10, "publish every Nth cycle to mqtt")
	rootCmd.PersistentFlags().Duration("watchdog-timeout", 10*time.Second, "follow-mode shutdown timeout without output cycles")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".steady-eddy" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".steady-eddy")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

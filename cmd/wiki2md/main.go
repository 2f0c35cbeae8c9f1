// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wiki2md CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the wiki2md CLI.
var rootCmd = &cobra.Command{
	Use:   "wiki2md",
	Short: "Fetch a Confluence page and convert it to Markdown",
	Long: `wiki2md fetches a single page from a Confluence instance, converts its HTML
body to Markdown, downloads the images and draw.io diagrams it references into
a local images/ directory, and writes a Markdown file named after the page
title.

The page URL and bearer token come from flags, the PAGE_URL and BEARER_TOKEN
environment variables, a .env file in the working directory, or interactive
prompts (--manual).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine; environment variables and flags
		// still apply.
		_ = godotenv.Load()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wiki2md.yaml or ~/.config/wiki2md/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wiki2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wiki2md"))
		}
	}

	viper.SetEnvPrefix("WIKI2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

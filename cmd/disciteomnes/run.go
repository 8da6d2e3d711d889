package main

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Mas20150/DisciteOmnes/clients"
	"github.com/Mas20150/DisciteOmnes/clients/auth"
	"github.com/Mas20150/DisciteOmnes/clients/groups"
	"github.com/Mas20150/DisciteOmnes/clients/planner"
	"github.com/Mas20150/DisciteOmnes/clients/tasks"
	"github.com/Mas20150/DisciteOmnes/session"
	"github.com/Mas20150/DisciteOmnes/shell"
)

type Configuration struct {
	Supabase struct {
		BaseURL string `toml:"base_url"`
		APIKey  string `toml:"api_key"`
	} `toml:"supabase"`
	Session struct {
		Store string `toml:"store"`
	} `toml:"session"`
	Shell struct {
		History string `toml:"history"`
	} `toml:"shell"`
}

func init() {
	RootCmd.AddCommand(&RunCmd)
}

var RunCmd = cobra.Command{
	Use:   "run",
	Short: "Start the interactive terminal",
	Long:  "Start the interactive terminal",
	Run: func(cmd *cobra.Command, args []string) {
		// Read configuration file
		data, err := ioutil.ReadFile(configFile)
		if err != nil {
			logger.Fatal("could not read configuration file:", err)
		}

		var config Configuration
		if err := toml.Unmarshal(data, &config); err != nil {
			logger.Fatal("error unmarshalling configuration:", err)
		}

		// The anon key stays out of the config file in deployments: a
		// .env file or the environment overrides it.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warning("could not load .env file:", err)
		}
		if key := os.Getenv("DISCITEOMNES_API_KEY"); key != "" {
			config.Supabase.APIKey = key
		}
		if url := os.Getenv("DISCITEOMNES_URL"); url != "" {
			config.Supabase.BaseURL = url
		}

		if config.Supabase.BaseURL == "" || config.Supabase.APIKey == "" {
			logger.Fatal("supabase base_url and api_key are required")
		}

		driver := &session.Driver{}
		if err := driver.Open(config.Session.Store); err != nil {
			logger.Fatal("could not open session store:", err)
		}
		defer driver.Close()

		store := &session.Store{Driver: driver}
		base := clients.NewClient(nil, config.Supabase.APIKey, store)

		sh, err := shell.New(shell.Options{
			HistoryFile: config.Shell.History,
			Out:         os.Stdout,
			Store:       store,
			Logger:      logger,
			Auth:        auth.NewClient(base, config.Supabase.BaseURL),
			Tasks:       tasks.NewClient(base, config.Supabase.BaseURL),
			Groups:      groups.NewClient(base, config.Supabase.BaseURL),
			Plans:       planner.NewClient(base, config.Supabase.BaseURL),
		})
		if err != nil {
			logger.Fatal("could not start terminal:", err)
		}
		defer sh.Close()

		if err := sh.Run(context.Background()); err != nil {
			logger.Fatal(err)
		}
	},
}

package main

import (
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/wellmeing/internal/cli"
	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/errors"
	"github.com/julianstephens/wellmeing/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path (.db for SQLite, .json for a JSON file) or PostgreSQL connection string. Credentials must NOT be embedded in a connection string, use PGPASSWORD or .pgpass instead." type:"string" default:"${config}" env:"WELLMEING_DB"`
	User    string `help:"User id to act as. Defaults to the one saved by init." env:"WELLMEING_USER"`
	APIKey  string `name:"api-key" help:"OpenAI API key. Defaults to the key in the OS keyring." env:"OPENAI_API_KEY"`
	Model   string `help:"Assistant model. Defaults to the saved model or ${model}." env:"OPENAI_MODEL"`
	Debug   bool   `help:"Log debug output to stderr." env:"WELLMEING_DEBUG"`

	Init    cli.InitCmd    `cmd:"" help:"Initialize wellmeing storage."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Log     cli.LogCmd     `cmd:"" help:"Log a submission for a habit."`
	History cli.HistoryCmd `cmd:"" help:"Show recent submissions."`
	Chart   cli.ChartCmd   `cmd:"" help:"Chart one metric over a week."`
	Voice   cli.VoiceCmd   `cmd:"" help:"Create habits and log submissions from plain speech."`
	Profile cli.ProfileCmd `cmd:"" help:"Show or update your profile and usage."`
	Serve   cli.ServeCmd   `cmd:"" help:"Serve the HTTP API."`
	Habit   struct {
		Add    cli.HabitAddCmd    `cmd:"" help:"Add a new habit."`
		List   cli.HabitListCmd   `cmd:"" help:"List habits." default:"1"`
		Delete cli.HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	} `cmd:"" help:"Manage habits."`
	Submission struct {
		List   cli.SubmissionListCmd   `cmd:"" help:"List a habit's submissions." default:"1"`
		Delete cli.SubmissionDeleteCmd `cmd:"" help:"Delete a submission."`
	} `cmd:"" help:"Manage submissions."`
	Report struct {
		New    cli.ReportNewCmd    `cmd:"" help:"Request a new report from the assistant."`
		List   cli.ReportListCmd   `cmd:"" help:"List reports." default:"1"`
		Show   cli.ReportShowCmd   `cmd:"" help:"Show a report."`
		Delete cli.ReportDeleteCmd `cmd:"" help:"Delete a report."`
	} `cmd:"" help:"Manage assistant reports."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage local database backups."`
	Key struct {
		Set    cli.KeySetCmd    `cmd:"" help:"Store the OpenAI API key in the OS keyring."`
		Show   cli.KeyShowCmd   `cmd:"" help:"Show the stored API key, masked." default:"1"`
		Delete cli.KeyDeleteCmd `cmd:"" help:"Remove the API key from the OS keyring."`
	} `cmd:"" help:"Manage the OpenAI API key."`
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with weekly charts and assistant reports"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
			"model":   constants.DefaultModel,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: cli.ConfigDir(CLI.Config),
		Stderr:    ctx.Command() == "serve",
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:  store,
		UserID: CLI.User,
		APIKey: CLI.APIKey,
		Model:  CLI.Model,
		Debug:  CLI.Debug,
	}

	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// needsStore reports whether cmd runs against a loaded store. init creates
// it, doctor reports an unloadable store itself and key only touches the
// keyring.
func needsStore(cmd string) bool {
	switch {
	case cmd == "init", cmd == "doctor", strings.HasPrefix(cmd, "key"):
		return false
	default:
		return true
	}
}

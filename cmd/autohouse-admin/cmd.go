package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the service configuration file",
		Sources: cli.EnvVars("CONFIG_PATH"),
	}
}

// importCommand loads a maker/model/trim catalog file
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Bulk import a catalog file (TOML or JSON)",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Catalog file to import",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Trims written per flush, overrides the configured value",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate and import into an in-memory store only",
			},
		},
		Action: r.Import,
	}
}

// bulkRegisterCommand creates accounts with generated passwords
func bulkRegisterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bulk-register",
		Usage: "Register users in batches and print their generated passwords",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "admin-id",
				Usage:    "Id of the admin account performing the registration",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Username to register, repeatable",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "File with one username per line",
			},
		},
		Action: r.BulkRegister,
	}
}

// sweepCommand runs the media janitor once
func sweepCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sweep-media",
		Usage:  "Remove media whose offer or user no longer exists",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SweepMedia,
	}
}

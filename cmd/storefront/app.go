package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	appservice "storefront/pkg/collection/application/service"
	"storefront/pkg/collection/domain/model"
	"storefront/pkg/collection/infrastructure/event"
	"storefront/pkg/collection/infrastructure/idgen"
	"storefront/pkg/collection/infrastructure/notifier"
	"storefront/pkg/collection/infrastructure/prompt"
	"storefront/pkg/collection/infrastructure/seed"
	"storefront/pkg/collection/transport/shell"
	"storefront/pkg/config"
	"storefront/pkg/storefront/catalog"
)

func newApp(in io.Reader, out, errOut io.Writer, interactive bool) *cli.App {
	return &cli.App{
		Name:      "storefront",
		Usage:     "edit the storefront admin lists",
		Version:   fmt.Sprintf("%s (%s)", version, buildDate),
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "panic, fatal, error, warn, info, debug or trace"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json"},
			&cli.StringFlag{Name: "id-strategy", Usage: "uuid, snowflake or sequence"},
			&cli.Int64Flag{Name: "snowflake-node", Usage: "node number for snowflake ids"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "delete without asking"},
			&cli.BoolFlag{Name: "no-samples", Usage: "start with empty lists"},
			&cli.StringFlag{Name: "seed-file", Usage: "JSON fixture file with starting records"},
		},
		Commands: []*cli.Command{
			{
				Name:  "collections",
				Usage: "list the collections and their fields",
				Action: func(c *cli.Context) error {
					for _, s := range catalog.Schemas() {
						names := make([]string, 0, len(s.Fields))
						for _, f := range s.Fields {
							names = append(names, f.Name)
						}
						fmt.Fprintf(c.App.Writer, "%s\t%s\n", s.Name, strings.Join(names, ", "))
					}
					return nil
				},
			},
			{
				Name:      "edit",
				Usage:     "start an editing session",
				ArgsUsage: "[collection]",
				Action: func(c *cli.Context) error {
					return runSession(c, in, interactive)
				},
			},
			{
				Name:  "version",
				Usage: "show version info",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "storefront %s (%s)\n", version, buildDate)
					return nil
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if c.IsSet("id-strategy") {
		cfg.IDStrategy = c.String("id-strategy")
	}
	if c.IsSet("snowflake-node") {
		cfg.SnowflakeNode = c.Int64("snowflake-node")
	}
	if c.IsSet("yes") {
		cfg.AssumeYes = c.Bool("yes")
	}
	if c.IsSet("no-samples") {
		cfg.SampleData = !c.Bool("no-samples")
	}
	if c.IsSet("seed-file") {
		cfg.SeedFile = c.String("seed-file")
	}
	return cfg, nil
}

func runSession(c *cli.Context, in io.Reader, interactive bool) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg, c.App.ErrWriter)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	out := c.App.Writer
	var confirmer model.Confirmer = prompt.NewConfirmer(reader, out)
	if cfg.AssumeYes {
		confirmer = prompt.AssumeYes{}
	}

	defs, err := definitions(cfg, logger)
	if err != nil {
		return err
	}
	ws, err := appservice.NewWorkspace(appservice.Dependencies{
		IDs: func(schema model.Schema) (model.IDGenerator, error) {
			return idgen.New(cfg.IDStrategy, cfg.SnowflakeNode, schema.Name)
		},
		Notifier:   notifier.Fanout{notifier.NewWriter(out), notifier.NewLog(logger)},
		Confirmer:  confirmer,
		Dispatcher: event.NewLogDispatcher(logger),
		Logger:     logger,
	}, defs...)
	if err != nil {
		return err
	}

	sh := shell.New(ws, reader, out, interactive, logger)
	if name := c.Args().First(); name != "" {
		if err := sh.Use(name); err != nil {
			return err
		}
	}
	logger.WithFields(log.Fields{"collections": ws.Len(), "ids": cfg.IDStrategy}).Info("session started")
	return sh.Run()
}

// definitions picks the starting records of every collection: fixture rows
// when the seed file has the collection, built-in samples otherwise.
func definitions(cfg config.Config, logger log.FieldLogger) ([]appservice.Definition, error) {
	var fixtures seed.Fixtures
	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		switch {
		case os.IsNotExist(err):
			logger.WithField("file", cfg.SeedFile).Warn("seed file not found, using built-in samples")
		case err != nil:
			return nil, err
		default:
			fixtures = f
		}
	}

	var defs []appservice.Definition
	for _, col := range catalog.Collections(cfg.SampleData) {
		def := appservice.Definition{Schema: col.Schema, Seed: col.Seed}
		if fixtures.Has(col.Schema.Name) {
			records, err := fixtures.Records(col.Schema)
			if err != nil {
				return nil, errors.Wrap(err, "seed file")
			}
			def.Seed = records
		}
		defs = append(defs, def)
	}
	return defs, nil
}

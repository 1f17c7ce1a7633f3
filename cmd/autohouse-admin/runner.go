package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/autohouse-service/internal/cache"
	"github.com/princekumarofficial/autohouse-service/internal/config"
	"github.com/princekumarofficial/autohouse-service/internal/janitor"
	"github.com/princekumarofficial/autohouse-service/internal/services/admin"
	"github.com/princekumarofficial/autohouse-service/internal/services/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/services/media"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/storage/memory"
	"github.com/princekumarofficial/autohouse-service/internal/storage/postgres"
	"github.com/urfave/cli/v3"
)

const defaultBatchSize = 50

// Backend is what a command needs from the running environment.
type Backend struct {
	Config  *config.Config
	Storage storage.Storage
	Media   *media.Service
	// Invalidate drops cached catalog reads after writes. May be nil.
	Invalidate catalog.Invalidator
	Close      func() error
}

// Opener connects to the environment described by a config file.
type Opener func(ctx context.Context, configPath string) (*Backend, error)

// Runner holds the dependencies of every command action.
type Runner struct {
	logger *log.Logger
	output io.Writer
	open   Opener
}

type RunnerOpts struct {
	Logger *log.Logger
	Output io.Writer
	Open   Opener
}

func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = newLogger()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = openPostgres
	}
	return &Runner{
		logger: opts.Logger,
		output: opts.Output,
		open:   opts.Open,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		importCommand, bulkRegisterCommand, sweepCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// slogger lets services that log through slog write to the CLI logger.
func (r *Runner) slogger(component string) *slog.Logger {
	return slog.New(r.logger.With("component", component))
}

func openPostgres(ctx context.Context, configPath string) (*Backend, error) {
	if configPath == "" {
		return nil, errors.New("config path must be provided with --config or CONFIG_PATH")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	pg, err := postgres.NewPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	registry, err := media.RegistryFromConfig(ctx, cfg, pg.Db)
	if err != nil {
		pg.Close()
		return nil, err
	}

	b := &Backend{
		Config:  cfg,
		Storage: pg,
		Media:   media.NewService(pg, registry, cfg.Media.AllowedMimeTypes),
		Close:   pg.Close,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return b, nil
	}
	b.Invalidate = cache.NewCatalogCache(pg, redisClient)
	b.Close = func() error {
		return errors.Join(redisClient.Close(), pg.Close())
	}
	return b, nil
}

// Import reads a catalog file and runs the bulk importer on it.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	makers, err := ReadCatalogFile(path)
	if err != nil {
		return err
	}
	r.logger.Debug("catalog file parsed", "file", path, "makers", len(makers))

	var (
		store       storage.Storage
		invalidator catalog.Invalidator
		batchSize   = cmd.Int("batch-size")
	)
	if cmd.Bool("dry-run") {
		store = memory.New()
		if batchSize == 0 {
			batchSize = defaultBatchSize
		}
	} else {
		backend, err := r.open(ctx, cmd.String("config"))
		if err != nil {
			return err
		}
		defer backend.Close()
		store = backend.Storage
		invalidator = backend.Invalidate
		if batchSize == 0 {
			batchSize = backend.Config.Import.BatchSize
		}
	}

	importer := catalog.NewImporter(store, batchSize, r.slogger("catalog-import"))
	start := time.Now()
	count, err := catalog.NewService(store, importer, invalidator).Import(ctx, makers)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	r.logger.Info("catalog imported",
		"requested", len(makers),
		"makers_total", count,
		"batch_size", importer.BatchSize(),
		"dry_run", cmd.Bool("dry-run"),
		"took", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(r.output, "%d makers in catalog\n", count)
	return nil
}

// BulkRegister registers usernames from flags and an optional file and
// prints the generated credentials.
func (r *Runner) BulkRegister(ctx context.Context, cmd *cli.Command) error {
	usernames := cmd.StringSlice("username")
	if path := cmd.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		fromFile, err := ReadUsernames(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		usernames = append(usernames, fromFile...)
	}
	if len(usernames) == 0 {
		return errors.New("no usernames given, use --username or --file")
	}

	backend, err := r.open(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer backend.Close()

	svc := admin.NewService(backend.Storage, backend.Storage, backend.Config.Import.BatchSize, r.slogger("admin"))
	result, err := svc.BulkRegisterUsers(ctx, cmd.String("admin-id"), usernames)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tPASSWORD")
	for _, c := range result.Created {
		fmt.Fprintf(tw, "%s\t%s\n", c.Username, c.Password)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, name := range result.Skipped {
		r.logger.Warn("username skipped", "username", name)
	}
	r.logger.Info("bulk registration finished", "created", len(result.Created), "skipped", len(result.Skipped))
	return nil
}

// SweepMedia runs one janitor pass.
func (r *Runner) SweepMedia(ctx context.Context, cmd *cli.Command) error {
	backend, err := r.open(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer backend.Close()

	j := janitor.New(backend.Storage, backend.Media, time.Minute, r.slogger("media-janitor"))
	removed := j.Sweep(ctx)
	fmt.Fprintf(r.output, "%d orphaned files removed\n", removed)
	return nil
}

// Command prodex-seed loads product snapshots into the store that prodex searches.
//
// Usage:
//
//	prodex-seed load --file products.json [--replace]
//	prodex-seed clear
//	prodex-seed search --file query.json
//
// Database settings come from the same config file as the API server
// (config/<ENV>.yaml, or --config). --addr overrides the configured addresses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"github.com/kailas-cloud/prodex/internal/config"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/version"
	prodex "github.com/kailas-cloud/prodex/pkg/sdk"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		cancel()
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "prodex-seed",
		Usage:   "Load, clear and query product snapshots in the prodex store",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Config environment (selects config/<env>.yaml)",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Explicit config file path (overrides --env)",
			},
			&cli.StringSliceFlag{
				Name:  "addr",
				Usage: "Database address; repeat for cluster seeds (overrides config)",
			},
		},
		Before: setupLogger,
		After:  syncLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Validate and store products from a JSON or YAML file",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Products file, or - for stdin",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "File format (json, yaml); detected from the extension when empty",
					},
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Delete every stored product before loading",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Products written per round trip",
						Value: 500,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Delete every stored product",
				Action: clearCommand,
			},
			{
				Name:   "search",
				Usage:  "Run a search query file against the store and print the page",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Query file in API wire format, or - for stdin",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "File format (json, yaml); detected from the extension when empty",
					},
				},
			},
		},
	}
}

// loggerKey holds the zap logger in App.Metadata between Before and the actions.
const loggerKey = "logger"

// setupLogger builds the project logger for --env and --log-level.
// Only prod gets JSON output; every other config name logs to the console.
func setupLogger(c *cli.Context) error {
	env := "local"
	if c.String("env") == "prod" {
		env = "prod"
	}
	logger, err := logpkg.NewLogger(env, strings.ToLower(c.String("log-level")))
	if err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[loggerKey] = logger.Named("seed")
	return nil
}

func syncLogger(c *cli.Context) error {
	_ = appLogger(c).Sync()
	return nil
}

// appLogger returns the logger installed by setupLogger, or a no-op logger.
func appLogger(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[loggerKey].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// sdkLogger bridges zap to the slog logger the SDK accepts.
func sdkLogger(logger *zap.Logger) *slog.Logger {
	return slog.New(zapslog.NewHandler(logger.Core(), zapslog.WithName("sdk")))
}

// loadConfig reads the server config and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(c.String("env"))
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if addrs := c.StringSlice("addr"); len(addrs) > 0 {
		cfg.Database.Addrs = addrs
	}
	return cfg, nil
}

// clientOptions maps the server config onto SDK options.
func clientOptions(cfg *config.Config, batchSize int, logger *zap.Logger) ([]prodex.Option, error) {
	sc, err := cfg.Scoring.ToScoring()
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	if len(cfg.Database.Addrs) == 0 {
		return nil, fmt.Errorf("no database address configured")
	}

	var driver prodex.Option
	switch cfg.Database.Driver {
	case config.DriverRedis:
		driver = prodex.WithRedis(cfg.Database.Addrs[0], cfg.Database.Password)
	default:
		driver = prodex.WithValkey(cfg.Database.Addrs[0], cfg.Database.Password)
	}

	opts := []prodex.Option{
		driver,
		prodex.WithCluster(cfg.Database.Addrs...),
		prodex.WithCredentials(cfg.Database.Username, cfg.Database.Password),
		prodex.WithDB(cfg.Database.DB),
		prodex.WithKeyPrefix(cfg.Search.KeyPrefix),
		prodex.WithScoring(sc),
		prodex.WithTimeout(cfg.Search.Timeout()),
		prodex.WithMaxCandidates(cfg.Search.MaxCandidates),
		prodex.WithLogger(sdkLogger(logger)),
	}
	if batchSize > 0 {
		opts = append(opts, prodex.WithBatchSize(batchSize))
	}
	return opts, nil
}

func connect(c *cli.Context, batchSize int) (*prodex.Client, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger := appLogger(c)
	opts, err := clientOptions(&cfg, batchSize, logger)
	if err != nil {
		return nil, err
	}
	client, err := prodex.New(c.Context, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	logger.Debug("Connected",
		zap.String("driver", cfg.Database.Driver),
		zap.Strings("addrs", cfg.Database.Addrs),
	)
	return client, nil
}

// openInput returns the named file, or stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func readRecords(path, format string) ([]prodex.ProductAttributes, error) {
	format, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	records, err := decodeRecords(in, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	now := time.Now().UTC()
	items := make([]prodex.ProductAttributes, len(records))
	for i := range records {
		items[i] = records[i].attributes(now)
	}
	return items, nil
}

func loadCommand(c *cli.Context) error {
	items, err := readRecords(c.String("file"), c.String("format"))
	if err != nil {
		return err
	}
	logger := appLogger(c)
	logger.Info("Read products", zap.String("file", c.String("file")), zap.Int("count", len(items)))

	client, err := connect(c, c.Int("batch-size"))
	if err != nil {
		return err
	}
	defer client.Close()

	if c.Bool("replace") {
		n, err := client.Clear(c.Context)
		if err != nil {
			return err
		}
		logger.Info("Cleared store", zap.Int("removed", n))
	}

	start := time.Now()
	results, summary := client.Load(c.Context, items)
	reportLoad(c.App.ErrWriter, results)
	logger.Info("Load finished",
		zap.Int("ok", summary.OK),
		zap.Int("invalid", summary.Invalid),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", time.Since(start)),
	)
	if summary.Failed > 0 {
		return fmt.Errorf("%d products failed to store", summary.Failed)
	}
	return nil
}

// reportLoad prints one line per rejected or failed product.
func reportLoad(w io.Writer, results []prodex.LoadResult) {
	for _, r := range results {
		if r.Status == prodex.LoadOK {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%v\n", r.Status, r.ID, r.Err)
	}
}

func clearCommand(c *cli.Context) error {
	client, err := connect(c, 0)
	if err != nil {
		return err
	}
	defer client.Close()

	n, err := client.Clear(c.Context)
	if err != nil {
		return err
	}
	appLogger(c).Info("Cleared store", zap.Int("removed", n))
	return nil
}

func searchCommand(c *cli.Context) error {
	path := c.String("file")
	format, err := detectFormat(path, c.String("format"))
	if err != nil {
		return err
	}
	in, err := openInput(path)
	if err != nil {
		return err
	}
	q, err := decodeQuery(in, format)
	in.Close()
	if err != nil {
		return err
	}

	client, err := connect(c, 0)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.Search(c.Context, &q)
	if err != nil {
		return err
	}
	return writePage(c.App.Writer, &res)
}

// pageView is the printed form of a result page.
type pageView struct {
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	TotalPages  int            `json:"totalPages"`
	MaxScore    *float64       `json:"maxScore"`
	Items       []hitView      `json:"items"`
	Facets      []prodex.Facet `json:"facets,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	TookMs      int64          `json:"executionTimeMs"`
}

type hitView struct {
	ID            string   `json:"id"`
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matchedFields,omitempty"`
}

func writePage(w io.Writer, res *prodex.SearchResult) error {
	v := pageView{
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		MaxScore:   res.MaxScore,
		Items:      make([]hitView, 0, len(res.Items)),
		Facets:     res.Facets,
		TookMs:     res.ExecutionTime.Milliseconds(),
	}
	for _, h := range res.Items {
		v.Items = append(v.Items, hitView{
			ID:            h.Product.ID(),
			SKU:           h.Product.SKU(),
			Name:          h.Product.Name(),
			Score:         h.Score,
			MatchedFields: h.MatchedFields,
		})
	}
	for _, s := range res.Suggestions {
		v.Suggestions = append(v.Suggestions, s.Query)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

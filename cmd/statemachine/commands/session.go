package commands

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jchevertonwynne/statemachine/internal/config"
	"github.com/jchevertonwynne/statemachine/telemetry"
)

// searchFlags are the puzzle and search overrides shared by solve and compare.
type searchFlags struct {
	puzzle     string
	columns    int
	rows       int
	rings      int
	shuffles   int
	seed       uint64
	strategies []string
	heuristic  string
	findAll    bool
	showPath   bool
}

func (f *searchFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.puzzle, "puzzle", "p", "", "puzzle kind (tileboard, hanoi)")
	cmd.Flags().IntVar(&f.columns, "columns", 0, "tile board columns")
	cmd.Flags().IntVar(&f.rows, "rows", 0, "tile board rows")
	cmd.Flags().IntVar(&f.rings, "rings", 0, "hanoi rings")
	cmd.Flags().IntVar(&f.shuffles, "shuffles", 0, "random moves applied to the solved tile board")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "shuffle seed (0 for random)")
	cmd.Flags().StringSliceVarP(&f.strategies, "strategy", "s", nil, "strategies to run (bfs, dfs, astar, staggered)")
	cmd.Flags().StringVar(&f.heuristic, "heuristic", "", "distance used by astar and staggered (manhattan, euclidean)")
	cmd.Flags().BoolVar(&f.findAll, "all", false, "collect every solution instead of stopping at the first")
	cmd.Flags().BoolVar(&f.showPath, "show-path", false, "print every state on the solution path")
}

// apply copies explicitly set flags over cfg.
func (f *searchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("puzzle") {
		cfg.Puzzle.Kind = f.puzzle
	}
	if flags.Changed("columns") {
		cfg.Puzzle.Columns = f.columns
	}
	if flags.Changed("rows") {
		cfg.Puzzle.Rows = f.rows
	}
	if flags.Changed("rings") {
		cfg.Puzzle.Rings = f.rings
	}
	if flags.Changed("shuffles") {
		cfg.Puzzle.Shuffles = f.shuffles
	}
	if flags.Changed("seed") {
		cfg.Puzzle.Seed = f.seed
	}
	if flags.Changed("strategy") {
		cfg.Search.Strategies = f.strategies
	}
	if flags.Changed("heuristic") {
		cfg.Search.Heuristic = f.heuristic
	}
	if flags.Changed("all") {
		cfg.Search.FindAll = f.findAll
	}
}

// session holds the configuration and observability stack of one command.
type session struct {
	cfg     config.Config
	logger  zerolog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer

	closers []io.Closer
	server  *http.Server
}

func newSession(cmd *cobra.Command, flags *searchFlags) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, &cfg)
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if metricsAddr != "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.ListenAddress = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := telemetry.NewLogger(cfg.Telemetry.Logging)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, closers: []io.Closer{closer}}

	if s.metrics, err = telemetry.NewMetrics(cfg.Telemetry.Metrics); err != nil {
		return nil, errors.Join(err, s.Close(cmd.Context()))
	}
	if s.tracer, err = telemetry.NewTracer(cfg.Telemetry.Tracing, cfg.Telemetry.ServiceName, cfg.Telemetry.ServiceVersion); err != nil {
		return nil, errors.Join(err, s.Close(cmd.Context()))
	}
	if s.metrics.Enabled() && cfg.Telemetry.Metrics.ListenAddress != "" {
		if err := s.serveMetrics(cfg.Telemetry.Metrics.ListenAddress); err != nil {
			return nil, errors.Join(err, s.Close(cmd.Context()))
		}
	}
	return s, nil
}

func (s *session) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return nil
}

// Close stops the metrics server, flushes spans and closes log files.
func (s *session) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	var errs []error
	if s.server != nil {
		errs = append(errs, s.server.Shutdown(ctx))
	}
	if s.tracer != nil {
		errs = append(errs, s.tracer.Shutdown(ctx))
	}
	for _, closer := range s.closers {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

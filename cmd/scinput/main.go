// Package main provides the scinput CLI application entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"scinput/internal/core"
	httpserver "scinput/internal/http"
	"scinput/internal/i18n"
	"scinput/internal/session"
	"scinput/internal/soundcloud"
	"scinput/internal/store"
)

const (
	defaultServerHost     = "0.0.0.0"
	sessionReportInterval = 15 * time.Second
	envPrefix             = "SCINPUT"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scinput",
	Short: "scinput - SoundCloud track field for CMS documents",
	Long: `scinput lets editors attach SoundCloud tracks to a document: pick from the
account's uploads, resolve SoundCloud URLs, or mix both, then commit the selection
to the document's field.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List the configured account's uploads, newest release first",
	Args:  cobra.NoArgs,
	RunE:  runUploads,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>...",
	Short: "Resolve SoundCloud URLs or search text into tracks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP field host",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, console)")
	rootCmd.PersistentFlags().String("soundcloud-client-id", "", "SoundCloud client ID")
	rootCmd.PersistentFlags().String("soundcloud-client-secret", "", "SoundCloud client secret")
	rootCmd.PersistentFlags().String("soundcloud-user-id", "", "SoundCloud user ID whose uploads are listed")
	rootCmd.PersistentFlags().String("soundcloud-website-uri", "", "Website URI registered with the SoundCloud app")
	rootCmd.PersistentFlags().String("soundcloud-api-url", core.DefaultAPIURL, "SoundCloud API base URL")
	rootCmd.PersistentFlags().String("soundcloud-token-url", core.DefaultTokenURL, "SoundCloud token endpoint")
	rootCmd.PersistentFlags().String("server-host", defaultServerHost, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", core.DefaultServerPort, "HTTP server port")
	rootCmd.PersistentFlags().String("store-path", "", "SQLite database path (empty keeps documents in memory)")
	rootCmd.PersistentFlags().Int("session-ttl-mins", core.DefaultSessionTTLMins, "Minutes an editing session is kept")
	rootCmd.PersistentFlags().Int("max-sessions", core.DefaultMaxSessions, "Maximum number of open editing sessions")
	rootCmd.PersistentFlags().Bool("expose-raw-response", false, "Include raw resolve responses in session snapshots")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	rootCmd.PersistentFlags().String("language", i18n.DefaultLanguage, fmt.Sprintf("Default editor language (%s)", supportedLangs))
	rootCmd.PersistentFlags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(uploadsCmd, resolveCmd, serveCmd)
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level, config.Log.Format)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureSoundCloud(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureSoundCloud(cfg *core.Config) {
	cfg.SoundCloud.ClientID = viper.GetString("soundcloud-client-id")
	cfg.SoundCloud.ClientSecret = viper.GetString("soundcloud-client-secret")
	cfg.SoundCloud.UserID = viper.GetString("soundcloud-user-id")
	cfg.SoundCloud.WebsiteURI = viper.GetString("soundcloud-website-uri")
	if apiURL := viper.GetString("soundcloud-api-url"); apiURL != "" {
		cfg.SoundCloud.APIURL = apiURL
	}
	if tokenURL := viper.GetString("soundcloud-token-url"); tokenURL != "" {
		cfg.SoundCloud.TokenURL = tokenURL
	}
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Store.Path = viper.GetString("store-path")
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
}

func configureApp(cfg *core.Config) {
	cfg.App.SessionTTLMins = viper.GetInt("session-ttl-mins")
	if cfg.App.SessionTTLMins <= 0 {
		fmt.Printf("Warning: Invalid session TTL (%d), using default (%d)\n",
			cfg.App.SessionTTLMins, core.DefaultSessionTTLMins)
		cfg.App.SessionTTLMins = core.DefaultSessionTTLMins
	}
	cfg.App.MaxSessions = viper.GetInt("max-sessions")
	if cfg.App.MaxSessions <= 0 {
		cfg.App.MaxSessions = core.DefaultMaxSessions
	}
	cfg.App.ExposeRawResponse = viper.GetBool("expose-raw-response")

	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	supportedLanguages := i18n.GetSupportedLanguages()
	isSupported := false
	for _, lang := range supportedLanguages {
		if cfg.App.Language == lang {
			isSupported = true
			break
		}
	}
	if !isSupported {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(supportedLanguages, ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}
}

func buildLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	if strings.EqualFold(format, "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}
	return cmd.Help()
}

func runUploads(cmd *cobra.Command, _ []string) error {
	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := soundcloud.NewClient(&config.SoundCloud, logger.Named("soundcloud"))
	token, err := client.AcquireToken(ctx, config.SoundCloud.Credentials())
	if err != nil {
		return err
	}

	tracks, err := client.ListUploads(ctx, token, config.SoundCloud.UserID)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return core.ErrNoTracksFound
	}

	return printJSON(core.NewSoundcloudData(tracks))
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := soundcloud.NewClient(&config.SoundCloud, logger.Named("soundcloud"))
	token, err := client.AcquireToken(ctx, config.SoundCloud.Credentials())
	if err != nil {
		return err
	}

	agg, warn := soundcloud.ResolveAll(ctx, client, token, args)
	if warn != nil {
		logger.Warn("Some queries could not be resolved",
			zap.Int("failed", len(agg.Failures)),
			zap.Error(warn))
	}
	if len(agg.Tracks) == 0 {
		if warn != nil {
			return warn
		}
		return core.ErrNoTracksFound
	}

	return printJSON(core.NewSoundcloudData(agg.Tracks))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting scinput",
		zap.String("soundcloud_user", config.SoundCloud.UserID),
		zap.String("website_uri", config.SoundCloud.WebsiteURI),
		zap.String("store_path", config.Store.Path),
		zap.String("language", config.App.Language))

	// Sessions report missing credentials to the editor, so serving starts anyway.
	if err := validateConfig(); err != nil {
		logger.Warn("SoundCloud credentials incomplete, sessions will refuse every action", zap.Error(err))
	}

	svcs, err := initializeServices(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svcs.store.Close(); closeErr != nil {
			logger.Debug("Failed to close document store", zap.Error(closeErr))
		}
	}()

	return runServices(ctx, svcs)
}

type services struct {
	store      store.DocumentStore
	metrics    *httpserver.Metrics
	sessions   *httpserver.Registry
	httpServer *httpserver.Server
}

func initializeServices(ctx context.Context) (*services, error) {
	docs, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := httpserver.NewMetrics(registry)

	client := soundcloud.NewClient(&config.SoundCloud, logger.Named("soundcloud"),
		soundcloud.WithRecorder(metrics))

	sessionLogger := logger.Named("session")
	factory := func(sink core.FieldSink, language string, mode session.ModeKind) *session.Session {
		opts := []session.Option{
			session.WithLogger(sessionLogger),
			session.WithRecorder(metrics),
		}
		if config.App.ExposeRawResponse {
			opts = append(opts, session.WithRawResponse())
		}
		return session.New(session.Config{
			Credentials: config.SoundCloud.Credentials(),
			Language:    language,
			Mode:        mode,
		}, client, sink, opts...)
	}

	sessions := httpserver.NewRegistry(config.App.MaxSessions,
		time.Duration(config.App.SessionTTLMins)*time.Minute, logger.Named("sessions"))
	api := httpserver.NewAPI(docs, sessions, factory, config.App.Language, logger.Named("api"))

	return &services{
		store:      docs,
		metrics:    metrics,
		sessions:   sessions,
		httpServer: httpserver.NewServer(&config.Server, logger.Named("http"), api, registry),
	}, nil
}

func openStore(ctx context.Context) (store.DocumentStore, error) {
	if config.Store.Path == "" {
		logger.Info("Keeping documents in memory")
		return store.NewMemoryStore(), nil
	}

	docs, err := store.OpenSQLite(ctx, config.Store.Path, logger.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	return docs, nil
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	g.Go(func() error {
		return svcs.sessions.Report(gCtx, svcs.metrics, sessionReportInterval)
	})

	logger.Info("scinput started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("scinput stopped with error", zap.Error(err))
		return err
	}

	logger.Info("scinput stopped gracefully")
	return nil
}

func validateConfig() error {
	creds := config.SoundCloud.Credentials()
	if !creds.Complete() {
		return fmt.Errorf("%w: missing %s", core.ErrMissingConfiguration, strings.Join(creds.Missing(), ", "))
	}
	if config.SoundCloud.APIURL == "" || config.SoundCloud.TokenURL == "" {
		return errors.New("soundcloud API and token URLs must not be empty")
	}
	return nil
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# scinput Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: SCINPUT_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n\n")

	generateSoundCloudSection(&content, cmd)
	generateAppSection(&content, cmd)
	generateServerSection(&content, cmd)
	generateLoggingSection(&content, cmd)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.Root().PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func generateSoundCloudSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# SOUNDCLOUD CONFIGURATION - Required\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# Register an app at https://soundcloud.com/you/apps\n")
	content.WriteString("# CLI: --soundcloud-client-id, --soundcloud-client-secret, --soundcloud-user-id\n")

	fmt.Fprintf(content, "%s=your_client_id                  # App client ID\n",
		flagToEnvVar("soundcloud-client-id"))
	fmt.Fprintf(content, "%s=your_client_secret          # App client secret\n",
		flagToEnvVar("soundcloud-client-secret"))
	fmt.Fprintf(content, "%s=123456789                         # Account whose uploads are listed\n",
		flagToEnvVar("soundcloud-user-id"))
	fmt.Fprintf(content, "%s=https://example.com           # Website URI of the app\n",
		flagToEnvVar("soundcloud-website-uri"))
	fmt.Fprintf(content, "%s=%s   # API base URL (default: %s)\n",
		flagToEnvVar("soundcloud-api-url"), getDefaultValueString(cmd, "soundcloud-api-url"),
		getDefaultValueString(cmd, "soundcloud-api-url"))
	fmt.Fprintf(content, "%s=%s  # Token endpoint (default: %s)\n",
		flagToEnvVar("soundcloud-token-url"), getDefaultValueString(cmd, "soundcloud-token-url"),
		getDefaultValueString(cmd, "soundcloud-token-url"))
	content.WriteString("\n")
}

func generateAppSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Editor Sessions\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --language, --session-ttl-mins, --max-sessions, --expose-raw-response, --store-path\n")

	langDefault := getDefaultValueString(cmd, "language")
	ttlDefault := getDefaultValueString(cmd, "session-ttl-mins")
	maxDefault := getDefaultValueString(cmd, "max-sessions")
	rawDefault := getDefaultValueString(cmd, "expose-raw-response")

	fmt.Fprintf(content, "%s=%s                                # Default language: %s (default: %s)\n",
		flagToEnvVar("language"), langDefault, strings.Join(i18n.GetSupportedLanguages(), ", "), langDefault)
	fmt.Fprintf(content, "%s=%s                       # Minutes an editing session is kept (default: %s)\n",
		flagToEnvVar("session-ttl-mins"), ttlDefault, ttlDefault)
	fmt.Fprintf(content, "%s=%s                         # Maximum open sessions (default: %s)\n",
		flagToEnvVar("max-sessions"), maxDefault, maxDefault)
	fmt.Fprintf(content, "%s=%s                # Show raw resolve responses (default: %s)\n",
		flagToEnvVar("expose-raw-response"), rawDefault, rawDefault)
	fmt.Fprintf(content, "%s=./scinput.db                   # SQLite database, empty keeps documents in memory\n",
		flagToEnvVar("store-path"))
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# HTTP Server Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --server-host, --server-port\n")

	hostDefault := getDefaultValueString(cmd, "server-host")
	portDefault := getDefaultValueString(cmd, "server-port")

	fmt.Fprintf(content, "%s=%s                         # Server bind address (default: %s)\n",
		flagToEnvVar("server-host"), "127.0.0.1", hostDefault)
	fmt.Fprintf(content, "%s=%s                              # Server port (default: %s)\n",
		flagToEnvVar("server-port"), portDefault, portDefault)
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Logging Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --log-level, --log-format\n")

	logDefault := getDefaultValueString(cmd, "log-level")
	formatDefault := getDefaultValueString(cmd, "log-format")

	fmt.Fprintf(content, "%s=%s                                # Log level: debug, info, warn, error (default: %s)\n",
		flagToEnvVar("log-level"), logDefault, logDefault)
	fmt.Fprintf(content, "%s=%s                               # Log format: json, console (default: %s)\n",
		flagToEnvVar("log-format"), formatDefault, formatDefault)
	content.WriteString("\n")
}

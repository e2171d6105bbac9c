package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/logger"
	"github.com/spigell/resume-ats/internal/secrets"
	"github.com/spigell/resume-ats/internal/server"
)

// apiKeyEnv is a shorthand for RESUME_ATS_SERVER_API_KEY, consulted last.
const apiKeyEnv = envPrefix + "_API_KEY"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	apiKey, err := secrets.LoadOptional(apiKeySource(config.Server))
	if err != nil {
		logger.Fatal(
			"loading api key",
			zap.Error(err),
			zap.String("hint", "check server.api-key-file or unset it to run without authentication"),
		)
	}
	if apiKey == "" {
		logger.Warn("api key is not configured, analysis endpoint is open")
	}

	logger.Info("starting the resume-ats server", zap.String("version", version))

	svc := mustBuildServices(config, logger)

	readiness := server.NewReadiness(
		server.NewModelsChecker(svc.engine),
		server.NewTempDirChecker(config.Extraction.TempDir),
	)

	h := server.NewHandler(svc.pipeline, readiness, svc.extractor.MaxBytes(), logger.Named("http"))
	srv := server.New(server.Config{
		Listen:      config.Server.Listen,
		ReadTimeout: config.Server.ReadTimeout,
		APIKey:      apiKey,
	}, h, logger.Named("http"))

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving http", zap.Error(err))
	}
}

func apiKeySource(cfg *ServerConfig) secrets.Source {
	return secrets.Source{
		Name:  "api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   apiKeyEnv,
	}
}

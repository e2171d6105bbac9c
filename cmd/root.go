package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-ats/internal/document"
	"github.com/spigell/resume-ats/internal/extract"
)

const (
	app       = "resume-ats"
	envPrefix = "RESUME_ATS"
)

type Config struct {
	Models       *ModelsConfig       `mapstructure:"models"`
	Extraction   *ExtractionConfig   `mapstructure:"extraction"`
	Achievements *AchievementsConfig `mapstructure:"achievements"`
	Server       *ServerConfig       `mapstructure:"server"`
}

type ModelsConfig struct {
	Vectorizer string `mapstructure:"vectorizer"`
	Classifier string `mapstructure:"classifier"`
}

type ExtractionConfig struct {
	TempDir  string `mapstructure:"temp-dir"`
	MaxBytes int64  `mapstructure:"max-bytes"`
}

type AchievementsConfig struct {
	MaxBullets int `mapstructure:"max-bullets"`
}

type ServerConfig struct {
	Listen      string        `mapstructure:"listen"`
	ReadTimeout time.Duration `mapstructure:"read-timeout"`
	APIKey      string        `mapstructure:"api-key"`
	APIKeyFile  string        `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-ats extracts a structured profile from a résumé and scores it against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ats.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("extraction.max-bytes", document.DefaultMaxBytes)
	viper.SetDefault("achievements.max-bullets", extract.DefaultMaxBullets)
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.read-timeout", "30s")

	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{
		"models.vectorizer",
		"models.classifier",
		"extraction.temp-dir",
		"server.api-key",
		"server.api-key-file",
	} {
		viper.SetDefault(key, "")
	}
}

func initConfig() {
	// Only the commands doing actual work need a config.
	if analyzeCmd.CalledAs() == "" && serveCmd.CalledAs() == "" {
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// The file is optional unless it was requested explicitly.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return config, err
	}

	if config == nil {
		return nil, errors.New("empty configuration")
	}
	if config.Models == nil {
		config.Models = &ModelsConfig{}
	}
	if config.Extraction == nil {
		config.Extraction = &ExtractionConfig{}
	}
	if config.Achievements == nil {
		config.Achievements = &AchievementsConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}

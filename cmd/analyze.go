package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/document"
	"github.com/spigell/resume-ats/internal/logger"
	"github.com/spigell/resume-ats/internal/report"
)

const (
	PromptContinue = "Continue without job description"
	PromptEnterJD  = "Enter job description"
	PromptAbort    = "Abort"
)

var errAborted = errors.New("aborted by user")

var jdPrompt = promptui.Select{
	Label: "No job description given. Proceed?",
	Items: []string{PromptContinue, PromptEnterJD, PromptAbort},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Extract a profile from a résumé and score it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("jd", "", "job description text")
	analyzeCmd.Flags().String("jd-file", "", "file with the job description")
	analyzeCmd.Flags().StringP("format", "f", string(report.FormatText), fmt.Sprintf("report format, one of %v", report.Formats()))
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolP("yes", "y", false, "do not ask for a job description when none is given")
}

func analyze(cmd *cobra.Command, path string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	format, err := report.ParseFormat(flagString(cmd, "format"))
	if err != nil {
		logger.Fatal("parsing report format", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err), zap.String("file", path))
	}

	jd, err := resolveJobDescription(cmd)
	if err != nil {
		if errors.Is(err, errAborted) {
			logger.Info("exiting", zap.String("reason", err.Error()))
			return
		}
		logger.Fatal("reading job description", zap.Error(err))
	}

	logger.Info("starting the resume-ats", zap.String("version", version))

	svc := mustBuildServices(config, logger)

	res, err := svc.pipeline.Process(ctx, "", document.New(filepath.Base(path), data), jd)
	if err != nil {
		logger.Fatal("analyzing resume", zap.Error(err), zap.String("file", path))
	}

	out, closeOut, err := openOutput(flagString(cmd, "output"))
	if err != nil {
		logger.Fatal("opening output", zap.Error(err))
	}
	defer closeOut()

	if err := report.Render(out, res, format); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}
}

// resolveJobDescription takes the JD from flags, falling back to an
// interactive prompt unless --yes is set.
func resolveJobDescription(cmd *cobra.Command) (string, error) {
	if jd := strings.TrimSpace(flagString(cmd, "jd")); jd != "" {
		return jd, nil
	}

	if file := strings.TrimSpace(flagString(cmd, "jd-file")); file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	if flagString(cmd, "yes") == "true" {
		return "", nil
	}

	_, action, err := jdPrompt.Run()
	if err != nil {
		return "", err
	}

	switch action {
	case PromptContinue:
		return "", nil
	case PromptEnterJD:
		p := promptui.Prompt{
			Label: "Job description",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("job description is empty")
				}
				return nil
			},
		}
		jd, err := p.Run()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(jd), nil
	case PromptAbort:
		return "", errAborted
	default:
		return "", fmt.Errorf("invalid action: %s", action)
	}
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func flagString(cmd *cobra.Command, name string) string {
	f := cmd.Flag(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

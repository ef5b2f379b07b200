package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kirillkom/recruitment-docverify/internal/bootstrap"
	"github.com/kirillkom/recruitment-docverify/internal/config"
	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/observability/logging"
)

// newPipeline is swapped in tests.
var newPipeline = func(cfg config.Config) (*bootstrap.Pipeline, error) {
	return bootstrap.NewPipeline(cfg, prometheus.NewRegistry())
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "verifyctl",
		Short:         "Run document verification against the configured vendors",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), "verifyctl", logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.AddCommand(
		verifyCmd(),
		classifyCmd(),
		extractCmd(),
	)
	return root
}

func readDocument(path string, docType domain.DocumentType) (domain.DocumentInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DocumentInput{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return domain.DocumentInput{}, fmt.Errorf("read %s: file is empty", path)
	}
	return domain.DocumentInput{
		Filename: filepath.Base(path),
		MimeType: detectMimeType(path, data),
		Type:     docType,
		Data:     data,
	}, nil
}

func detectMimeType(path string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		mediaType, _, err := mime.ParseMediaType(byExt)
		if err == nil {
			return mediaType
		}
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mediaType
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

package exportcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	common "github.com/ticketdesk/portal/internal/cli/common"
	"github.com/ticketdesk/portal/pkg/portal"
)

// slogSink routes orchestrator notifications to the default logger.
type slogSink struct{}

func (slogSink) Info(msg string)    { slog.Info(msg) }
func (slogSink) Success(msg string) { slog.Info(msg) }
func (slogSink) Error(msg string)   { slog.Error(msg) }

// New returns the `ticketdesk export` command.
func New() *cobra.Command {
	var cfgFile string
	var baseURL, username, password, domain, format, outDir string
	var interval time.Duration
	var logLevel, logFormat string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a report on the portal and download the artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.SetupLogger(logLevel, logFormat)

			v := viper.New()
			v.SetEnvPrefix("TICKETDESK")
			v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
			v.AutomaticEnv()
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			}
			for key, val := range map[string]string{
				"base_url": baseURL,
				"username": username,
				"password": password,
			} {
				if strings.TrimSpace(val) != "" {
					v.Set(key, val)
				}
			}
			if err := common.ValidateExportConfig(v, true); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}

			f, err := portal.ParseFormat(format)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bus := portal.NewBus()
			auth := portal.NewAuthContext(bus)
			client := portal.NewClient(v.GetString("base_url"), auth)
			ident, err := client.Login(ctx, v.GetString("username"), v.GetString("password"))
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			slog.Info("logged in", "user", ident.Username, "roles", ident.Roles)

			save := func(filename, contentType string, data []byte) error {
				path := filepath.Join(outDir, filename)
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				slog.Info("artifact written", "path", path, "content_type", contentType, "bytes", len(data))
				return nil
			}
			orch := portal.NewExportOrchestrator(client.Reports(domain), slogSink{}, save,
				portal.WithPollInterval(interval),
				portal.WithBaseName(domain+"_report"),
			)
			done, ok := orch.Start(ctx, f)
			if !ok {
				return fmt.Errorf("an export is already in flight")
			}
			select {
			case <-done:
			case <-ctx.Done():
				orch.Stop()
				<-done
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "client config file (YAML with base_url/username/password)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "portal base URL, e.g. http://localhost:8888")
	cmd.Flags().StringVar(&username, "username", "", "portal username")
	cmd.Flags().StringVar(&password, "password", "", "portal password")
	cmd.Flags().StringVar(&domain, "domain", "tickets", "report domain: tickets|users")
	cmd.Flags().StringVar(&format, "format", "xlsx", "artifact format: xlsx|pdf")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory for the artifact")
	cmd.Flags().DurationVar(&interval, "poll-interval", 2*time.Second, "status poll interval")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "log format: console|json")
	return cmd
}

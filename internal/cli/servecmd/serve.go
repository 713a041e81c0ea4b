package servecmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	common "github.com/ticketdesk/portal/internal/cli/common"
	"github.com/ticketdesk/portal/services/portal/app"
)

// New returns the `ticketdesk serve` command.
func New() *cobra.Command {
	var cfgFile string
	var logLevel, logFormat string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ticket portal REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.SetupLogger(logLevel, logFormat)

			// pre-flight with viper so misconfiguration fails with a clear
			// message instead of a panic inside the loader
			v := viper.New()
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			if err := common.ValidateServeConfig(v, false); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}

			return app.Run(cfgFile)
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "f", "etc/portal.yaml", "config file path")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "log format: console|json")
	return cmd
}

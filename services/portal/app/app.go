// Package app boots the portal REST service. It exists so both the goctl
// main and the unified CLI can start the same server.
package app

import (
	"fmt"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"github.com/ticketdesk/portal/services/portal/internal/config"
	"github.com/ticketdesk/portal/services/portal/internal/handler"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
)

// Run loads the config file and serves until the process is stopped.
func Run(cfgFile string) error {
	var c config.Config
	if err := conf.Load(cfgFile, &c); err != nil {
		return fmt.Errorf("load config %s: %w", cfgFile, err)
	}

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting portal at %s:%d...\n", c.Host, c.Port)
	server.Start()
	return nil
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"log"

	"github.com/ticketdesk/portal/services/portal/app"
)

var configFile = flag.String("f", "etc/portal.yaml", "the config file")

func main() {
	flag.Parse()
	if err := app.Run(*configFile); err != nil {
		log.Fatal(err)
	}
}

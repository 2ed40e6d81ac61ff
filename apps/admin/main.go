// The admin command is the ops CLI: backend health checks, list exports and
// session maintenance.
package main

import (
	"log"
	"os"

	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/session"
	rediscache "github.com/adaptivin/adaptivin-admin/storage/cache/redis"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	tokens := &staticTokenSource{}
	client, err := backend.NewClient(conf, tokens, nil)
	errAndDie(err)

	var store session.Store
	if conf.Redis.Addr != "" {
		cache := rediscache.New(conf)
		defer cache.Close()
		store = cache
	}

	cli := commandLine{
		conf:   conf,
		client: client,
		tokens: tokens,
		store:  store,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

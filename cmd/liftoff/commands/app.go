package commands

import (
	"sync/atomic"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/config"
	"github.com/dmitrymomot/liftoff/core/handler"
	"github.com/dmitrymomot/liftoff/core/health"
	"github.com/dmitrymomot/liftoff/core/metrics"
	"github.com/dmitrymomot/liftoff/core/response"
	"github.com/dmitrymomot/liftoff/core/route"
	"github.com/dmitrymomot/liftoff/integration/database/pg"
	"github.com/dmitrymomot/liftoff/integration/database/redis"
)

// visits is managed state shared by the demo handlers.
type visits struct{ n atomic.Int64 }

// source merges the dotenv file, the optional config file and the
// environment, in increasing precedence.
func source() *config.Source {
	s := config.NewSource(config.Dotenv(envFile))
	if cfgFile != "" {
		s = s.Merge(config.RequiredFile(cfgFile))
	}
	return s.Merge(config.Env(config.DefaultPrefix))
}

// build assembles the demo service. Postgres and Redis are only connected
// when LIFTOFF_PG_URL and LIFTOFF_REDIS_URL are set.
func build(opts ...liftoff.Option) *liftoff.Building {
	db, cache := pg.New(), redis.New()
	return liftoff.Custom(source(), opts...).
		Manage(&visits{}).
		Attach(db).
		Attach(cache).
		Attach(health.New(health.WithCheck(db.Ping, cache.Ping))).
		Attach(metrics.New()).
		Mount("/",
			route.Get("/", index, route.WithName("index")),
			route.Get("/hello/{name}", hello, route.WithName("hello")),
			route.Get("/files/{path...}", files, route.WithName("files")),
		).
		Register("/", route.Default(response.DefaultCatcher, "default"))
}

func index(ctx *handler.Context) handler.Response {
	n := handler.MustState[*visits](ctx).n.Add(1)
	return response.JSON(map[string]any{"service": "liftoff", "visits": n})
}

func hello(ctx *handler.Context) handler.Response {
	return response.String("Hello, " + ctx.Param("name") + "!")
}

func files(ctx *handler.Context) handler.Response {
	return response.JSON(map[string]string{"path": ctx.Param("path")})
}

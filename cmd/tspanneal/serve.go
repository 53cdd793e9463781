package main

import (
	"fmt"
	"log"
	"net/http"

	_ "lintang/tspanneal/docs"
	"lintang/tspanneal/pkg/kv"
	"lintang/tspanneal/pkg/server/rest"
	"lintang/tspanneal/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
)

//	@title			tspanneal API
//	@version		1.0
//	@description	traveling salesman tours approximated with simulated annealing

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the annealer over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := appCfg
		overrideString(cmd, "listenaddr", &cfg.Server.ListenAddr)
		overrideString(cmd, "store", &cfg.Run.StoreDir)
		overrideInt(cmd, "max-vertices", &cfg.Server.MaxVertices)

		var (
			kvDB  *kv.KVDB
			store service.RunStore
		)
		if cfg.Run.StoreDir != "" {
			var err error
			kvDB, err = kv.Open(cfg.Run.StoreDir)
			if err != nil {
				log.Fatal(err)
			}
			store = kvDB
		}

		reg := prometheus.NewRegistry()
		m := rest.NewMetrics(reg)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(rest.PromeHttpMiddleware(m))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Mount("/debug", middleware.Profiler())
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL(fmt.Sprintf("http://localhost%s/swagger/doc.json", cfg.Server.ListenAddr)),
		))

		tspSvc := service.NewTSPService(store, cfg.Server.MaxVertices, logger)
		rest.TSPRouter(r, tspSvc, m, cfg.Annealing)

		logger.Info("server started", "addr", cfg.Server.ListenAddr, "store", cfg.Run.StoreDir)
		fatalClosing(kvDB, http.ListenAndServe(cfg.Server.ListenAddr, r))
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("listenaddr", ":5000", "server listen address")
	f.String("store", "", "pebble directory to persist runs in")
	f.Int("max-vertices", 2000, "largest graph accepted per request, 0 removes the limit")
	rootCmd.AddCommand(serveCmd)
}

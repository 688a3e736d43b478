package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/downloader"
	"github.com/airbusgeo/sentinel1-downloader/interface/catalog/earthsearch"
	"github.com/airbusgeo/sentinel1-downloader/interface/provider"
	"github.com/airbusgeo/sentinel1-downloader/service/log"
	"github.com/caarlos0/env/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type envConfig struct {
	StacURL string `env:"STAC_URL"`
	SaveDir string `env:"SAVE_DIR" envDefault:"./downloads"`
}

type config struct {
	Addr       string
	OutDir     string
	StacURL    string
	Collection string
	Limit      int

	WithS3API         bool
	S3Region          string
	S3RequesterPays   bool
	S3AccessKeyId     string
	S3SecretAccessKey string
}

func newAppConfig() (*config, error) {
	envcfg := envConfig{}
	if err := env.Parse(&envcfg); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}
	if envcfg.StacURL == "" {
		envcfg.StacURL = earthsearch.EarthSearchURL
	}

	config := config{}
	flag.StringVar(&config.Addr, "addr", ":8080", "address to listen on")
	flag.StringVar(&config.OutDir, "outdir", envcfg.SaveDir, "directory to store the downloaded assets (default from SAVE_DIR)")
	flag.StringVar(&config.StacURL, "stac-url", envcfg.StacURL, "STAC search endpoint (default from STAC_URL)")
	flag.StringVar(&config.Collection, "collection", earthsearch.CollectionS1GRD, "STAC collection to search")
	flag.IntVar(&config.Limit, "limit", earthsearch.EarthSearchCatalogLimit, "maximum number of candidate scenes fetched from the catalog")
	flag.BoolVar(&config.WithS3API, "with-s3-api", false, "download bucket-style references through the S3 API instead of the public HTTPS endpoint")
	flag.StringVar(&config.S3Region, "s3-region", "", "S3 region of the asset bucket (with-s3-api only)")
	flag.BoolVar(&config.S3RequesterPays, "s3-requester-pays", false, "send requester-pays requests (with-s3-api only)")
	flag.StringVar(&config.S3AccessKeyId, "aws-access-key-id", "", "AWS access key id (with-s3-api only, anonymous if empty)")
	flag.StringVar(&config.S3SecretAccessKey, "aws-secret-access-key", "", "AWS secret access key (with-s3-api only)")
	flag.Parse()

	if config.OutDir == "" {
		return nil, fmt.Errorf("missing outdir config flag")
	}
	return &config, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx); err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return err
	}

	var assetProvider provider.AssetProvider
	if config.WithS3API {
		assetProvider = provider.NewS3Provider(config.S3Region, config.S3RequesterPays, config.S3AccessKeyId, config.S3SecretAccessKey)
	} else {
		assetProvider = provider.NewHTTPSProvider()
	}

	d := downloader.Downloader{
		Catalog:  &earthsearch.Provider{URL: config.StacURL, Collection: config.Collection, Limit: config.Limit},
		Provider: assetProvider,
		OutDir:   config.OutDir,
	}

	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of HTTP requests by path and status code.",
	}, []string{"path", "code"})
	registry.MustRegister(requests)

	r := mux.NewRouter()
	d.AddHandler(r)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	r.Use(countRequests(requests))

	headersOk := handlers.AllowedHeaders([]string{"*"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})

	s := http.Server{
		Addr:    config.Addr,
		Handler: handlers.CORS(originsOk, headersOk, methodsOk)(r),
	}

	log.Logger(ctx).Sugar().Infof("listening on %s (catalog: %s, provider: %s, outdir: %s)",
		config.Addr, config.StacURL, assetProvider.Name(), config.OutDir)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cncl := context.WithTimeout(context.Background(), 30*time.Second)
		defer cncl()
		return s.Shutdown(sctx)
	})
	return g.Wait()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func countRequests(requests *prometheus.CounterVec) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			rec := statusRecorder{ResponseWriter: w, status: 200}
			next.ServeHTTP(&rec, req)
			requests.WithLabelValues(req.URL.Path, strconv.Itoa(rec.status)).Inc()
		})
	}
}

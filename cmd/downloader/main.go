package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/airbusgeo/sentinel1-downloader/catalog"
	"github.com/airbusgeo/sentinel1-downloader/downloader"
	"github.com/airbusgeo/sentinel1-downloader/interface/catalog/earthsearch"
	"github.com/airbusgeo/sentinel1-downloader/interface/provider"
	"github.com/airbusgeo/sentinel1-downloader/service/log"
	"github.com/araddon/dateparse"
	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"
)

type envConfig struct {
	StacURL string `env:"STAC_URL"`
	SaveDir string `env:"SAVE_DIR" envDefault:"./downloads"`
}

type config struct {
	Longitude  float64
	Latitude   float64
	Date       string
	OutDir     string
	DaysMargin int

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
	flag.Float64Var(&config.Longitude, "lon", math.NaN(), "longitude of the point of interest (required)")
	flag.Float64Var(&config.Latitude, "lat", math.NaN(), "latitude of the point of interest (required)")
	flag.StringVar(&config.Date, "date", "", "target date, e.g. 2023-06-01 (required)")
	flag.StringVar(&config.OutDir, "outdir", envcfg.SaveDir, "directory to store the downloaded assets (default from SAVE_DIR)")
	flag.IntVar(&config.DaysMargin, "days-margin", downloader.DefaultDaysMargin, "search ± days-margin days around the target date")
	flag.StringVar(&config.StacURL, "stac-url", envcfg.StacURL, "STAC search endpoint (default from STAC_URL)")
	flag.StringVar(&config.Collection, "collection", earthsearch.CollectionS1GRD, "STAC collection to search")
	flag.IntVar(&config.Limit, "limit", earthsearch.EarthSearchCatalogLimit, "maximum number of candidate scenes fetched from the catalog")
	flag.BoolVar(&config.WithS3API, "with-s3-api", false, "download bucket-style references through the S3 API instead of the public HTTPS endpoint")
	flag.StringVar(&config.S3Region, "s3-region", "", "S3 region of the asset bucket (with-s3-api only)")
	flag.BoolVar(&config.S3RequesterPays, "s3-requester-pays", false, "send requester-pays requests (with-s3-api only)")
	flag.StringVar(&config.S3AccessKeyId, "aws-access-key-id", "", "AWS access key id (with-s3-api only, anonymous if empty)")
	flag.StringVar(&config.S3SecretAccessKey, "aws-secret-access-key", "", "AWS secret access key (with-s3-api only)")
	flag.Parse()

	if math.IsNaN(config.Longitude) || math.IsNaN(config.Latitude) {
		return nil, fmt.Errorf("missing lon/lat config flags")
	}
	if config.Date == "" {
		return nil, fmt.Errorf("missing date config flag")
	}
	date, err := dateparse.ParseIn(config.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("unparsable date %q: %w", config.Date, err)
	}
	config.Date = date.UTC().Format("2006-01-02")
	return &config, nil
}

func main() {
	ctx := context.Background()
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
	log.Logger(ctx).Sugar().Debugf("asset provider: %s", assetProvider.Name())

	d := downloader.Downloader{
		Catalog:  &earthsearch.Provider{URL: config.StacURL, Collection: config.Collection, Limit: config.Limit},
		Provider: assetProvider,
		OutDir:   config.OutDir,
	}

	outcome, err := d.Retrieve(ctx, config.Longitude, config.Latitude, config.Date, config.DaysMargin)
	if err != nil {
		var notFound catalog.ErrNoScenesFound
		if errors.As(err, &notFound) {
			fmt.Println(notFound.Error())
			return nil
		}
		return err
	}
	fmt.Println(outcome.Summary())
	return nil
}

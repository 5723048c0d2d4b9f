// Copyright © 2021 Luther Systems, Ltd. All right reserved.

// Command timewarp serves the bucketing engine's JSON HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Embed tzdata so IANA zone lookups (time.LoadLocation) work even on
	// hosts without a system timezone database.
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"github.com/luthersystems/timewarp/httpapi"
	"github.com/luthersystems/timewarp/midware"
	"github.com/luthersystems/timewarp/notify"
	"github.com/luthersystems/timewarp/optrace"
	"github.com/luthersystems/timewarp/reqarchive"
	"github.com/luthersystems/timewarp/resultstore"
	"github.com/luthersystems/timewarp/resultstore/azblob"
	"github.com/luthersystems/timewarp/resultstore/s3"
	"github.com/luthersystems/timewarp/static"
)

const serviceName = "timewarp"

var (
	addr = flag.String("addr", ":8080", "address to listen on")

	otlpEndpoint = flag.String("otlp-endpoint", "", "OTLP gRPC trace exporter endpoint (disabled if empty)")

	resultBackend    = flag.String("result-backend", "", `result persistence backend: "s3", "azblob", or "" to disable`)
	resultBucket     = flag.String("result-bucket", "", "S3 bucket name, when -result-backend=s3")
	resultPrefix     = flag.String("result-prefix", "timewarp", "key prefix for persisted results")
	resultAWSRegion  = flag.String("result-aws-region", "us-east-1", "AWS region, when -result-backend=s3")
	resultAzAccount  = flag.String("result-az-account", "", "Azure storage account name, when -result-backend=azblob")
	resultAzContainer = flag.String("result-az-container", "", "Azure blob container name, when -result-backend=azblob")

	archiveBucket = flag.String("archive-bucket", "", "S3 bucket for request archival (disabled if empty)")
	archivePrefix = flag.String("archive-prefix", "timewarp-requests", "key prefix for archived requests")
	archiveRegion = flag.String("archive-aws-region", "us-east-1", "AWS region for request archival")

	sesRegion = flag.String("ses-region", "", "AWS region for SES completion emails (disabled if empty)")
	sesSender = flag.String("ses-sender", "", "From address for SES completion emails")
)

func main() {
	flag.Parse()

	logBase := logrus.NewEntry(logrus.StandardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []httpapi.Option

	if *otlpEndpoint != "" {
		tr, err := optrace.New(ctx, serviceName, optrace.WithOTLPExporter(*otlpEndpoint))
		if err != nil {
			log.Fatalf("init tracer: %v", err)
		}
		tr.SetGlobalTracer()
		opts = append(opts, httpapi.WithTracer(tr))
		defer func() {
			if err := tr.Shutdown(context.Background()); err != nil {
				logBase.WithError(err).Error("shut down tracer")
			}
		}()
	}

	if rs, err := resultStoreFromFlags(); err != nil {
		log.Fatalf("init result store: %v", err)
	} else if rs != nil {
		opts = append(opts, httpapi.WithResultStore(rs))
	}

	if *sesRegion != "" && *sesSender != "" {
		mailer, err := notify.NewSES(*sesRegion, *sesSender)
		if err != nil {
			log.Fatalf("init mailer: %v", err)
		}
		opts = append(opts, httpapi.WithMailer(mailer))
	}

	srv := httpapi.NewServer(logBase, opts...)
	handler := withArchival(srv.Routes())
	handler = midware.ServerResponseHeader(midware.ServerFixed(serviceName, "")).Wrap(handler)

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logBase.WithField("addr", *addr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	waitForShutdown(ctx, httpServer, logBase)
}

func resultStoreFromFlags() (resultstore.ResultStore, error) {
	switch *resultBackend {
	case "":
		return nil, nil
	case "s3":
		if *resultBucket == "" {
			return nil, fmt.Errorf("-result-bucket is required for -result-backend=s3")
		}
		return s3.New(*resultAWSRegion, *resultBucket, *resultPrefix)
	case "azblob":
		accountKey := os.Getenv("TIMEWARP_AZURE_STORAGE_KEY")
		if *resultAzAccount == "" || *resultAzContainer == "" || accountKey == "" {
			return nil, fmt.Errorf("-result-az-account, -result-az-container, and $TIMEWARP_AZURE_STORAGE_KEY are required for -result-backend=azblob")
		}
		return azblob.New(*resultPrefix, *resultAzAccount, *resultAzContainer, accountKey)
	default:
		return nil, fmt.Errorf("unrecognized -result-backend: %q", *resultBackend)
	}
}

func withArchival(h http.Handler) http.Handler {
	if *archiveBucket == "" {
		return h
	}
	archiver, err := reqarchive.NewS3Archiver(*archiveRegion, *archiveBucket, *archivePrefix,
		reqarchive.WithIgnoredPath("/metrics"),
		reqarchive.WithIgnoredPath(static.OpenAPIPath),
		reqarchive.WithIgnoredPath(static.PublicPathPrefix),
	)
	if err != nil {
		log.Fatalf("init request archiver: %v", err)
	}
	return archiver.Wrap(h)
}

func waitForShutdown(ctx context.Context, srv *http.Server, logBase *logrus.Entry) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	logBase.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logBase.WithError(err).Error("graceful shutdown failed")
	}
}

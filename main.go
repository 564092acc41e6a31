/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"

	"github.com/google/tabula/config"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/server"
	"github.com/google/tabula/core/tables"
	"github.com/google/tabula/datasources"
	"github.com/google/tabula/demo"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	demoMode := flag.Bool("demo", false, "serve the sample tables from an in-memory collection service under /mock/")
	addr := flag.String("addr", "", "listen address, overrides the configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger.InitLogger(cfg.Log)

	mux := http.NewServeMux()

	var configs []*tables.Config
	switch {
	case *demoMode:
		api := demo.NewMockAPI()
		demo.Seed(api)
		mux.Handle("/mock/", http.StripPrefix("/mock", api))
		configs = demo.Configs(localURL(cfg.Server.Addr)+"/mock", nil)
	case len(cfg.Tables) == 0:
		logger.Log.Info("No tables configured, serving the sample tables")
		configs = demo.Configs(demo.RemoteBaseURL, nil)
	default:
		configs, err = cfg.TableConfigs()
		if err != nil {
			logger.Log.Fatalf("Invalid table configuration: %v", err)
		}
	}

	catalog := tables.NewCatalog()
	sources := datasources.NewManager()
	client := &http.Client{Timeout: cfg.Client.Timeout}
	for _, tc := range configs {
		for _, problem := range tc.Validate() {
			logger.Log.WithField("table", tc.Name).Warnf("Configuration problem: %v", problem)
		}
		if err := catalog.Add(tc); err != nil {
			logger.Log.Fatalf("Failed to add table: %v", err)
		}
		sources.Register(tc.Name, datasources.NewHTTPSource(tc.APIURL,
			datasources.WithHTTPClient(client),
			datasources.WithRateLimit(cfg.Client.Rate, cfg.Client.Burst)))
		logger.Log.WithFields(logrus.Fields{"table": tc.Name, "api": tc.APIURL}).Info("Table registered")
	}

	store := tables.NewStore(cfg.Server.MaxDocuments, cfg.Server.DocumentTTL)
	srv, err := server.NewServer(catalog, sources, store)
	if err != nil {
		logger.Log.Fatalf("Failed to create server: %v", err)
	}
	srv.SetLanding(cfg.Landing.Title, cfg.Landing.Subtitle)
	srv.Register(mux)

	timeouts := server.TimeoutConfig{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Read:       cfg.Server.ReadTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
		Shutdown:   cfg.Server.ShutdownTimeout,
	}
	httpServer := server.NewHTTPServer(cfg.Server.Addr, mux, timeouts)
	if err := server.RunServerWithShutdown(context.Background(), httpServer, "tabula", timeouts); err != nil {
		os.Exit(1)
	}
}

// localURL is the base URL the server itself answers on.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

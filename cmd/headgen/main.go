// Command headgen generates synthetic head-mesh datasets from a bilinear
// morphable model.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LeCongThuong/facescape/internal/adapters/driven/config/file"
	"github.com/LeCongThuong/facescape/internal/adapters/driven/manifest"
	"github.com/LeCongThuong/facescape/internal/adapters/driven/material/filesystem"
	"github.com/LeCongThuong/facescape/internal/adapters/driven/mesh/obj"
	"github.com/LeCongThuong/facescape/internal/adapters/driven/model/bilinear"
	"github.com/LeCongThuong/facescape/internal/adapters/driven/storage/sqlite"
	"github.com/LeCongThuong/facescape/internal/adapters/driven/upload/objectstore"
	"github.com/LeCongThuong/facescape/internal/adapters/driving/cli"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/core/services"
	"github.com/LeCongThuong/facescape/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires adapters into services for the given config directory.
func bootstrap(configDir string) (cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("loading settings: %w", err)
	}

	var closers []func() error

	// Run ledger is optional; generation works without it.
	var runStore driven.RunStore
	if settings.Ledger.Enabled {
		dataDir := ""
		if configDir != "" {
			dataDir = filepath.Join(configDir, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			logger.Warn("Run ledger unavailable: %v", err)
		} else {
			runStore = store
			closers = append(closers, store.Close)
		}
	}

	var sink driven.ArtifactSink
	if settings.Upload.IsConfigured() {
		s, err := objectstore.New(context.Background(), settings.Upload)
		if err != nil {
			logger.Warn("Upload target unavailable: %v", err)
		} else {
			sink = s
		}
	}

	loader := bilinear.NewLoader()
	catalog := filesystem.NewCatalog()

	generator := services.NewGenerator(
		loader,
		catalog,
		obj.NewWriter(),
		filesystem.NewWriter(),
		manifest.NewWriter(),
		runStore,
		sink,
	)

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Close failed: %v", err)
			}
		}
	}

	return cli.Services{
		Generator: generator,
		Inspector: services.NewModelInspector(loader),
		Materials: services.NewMaterialService(catalog),
		Runs:      services.NewRunService(runStore),
		Settings:  settingsService,
	}, cleanup, nil
}

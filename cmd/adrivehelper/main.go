// Package main provides the entry point for the TYSS Alipan authorization helper.
// The helper obtains an Alipan authorization code through the browser and writes it
// to drive.json for TYSS to pick up from the SD card.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/tyss-project/adrivehelper/internal/buildinfo"
	"github.com/tyss-project/adrivehelper/internal/cmd"
	"github.com/tyss-project/adrivehelper/internal/config"
	"github.com/tyss-project/adrivehelper/internal/logging"
	"github.com/tyss-project/adrivehelper/internal/util"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	fmt.Printf("TYSS Alipan helper Version: %s, Commit: %s, BuiltAt: %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)

	base, err := util.BaseDir()
	if err != nil {
		log.Errorf("failed to resolve the executable directory: %v", err)
		os.Exit(1)
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(base, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}
	// WRITABLE_PATH may have come from .env.
	if relocated, errBase := util.BaseDir(); errBase == nil {
		base = relocated
	}

	cfg, err := config.LoadConfigOptional(filepath.Join(base, config.DefaultConfigFileName), true)
	if err != nil {
		log.Warnf("failed to load %s, using defaults: %v", config.DefaultConfigFileName, err)
		cfg = config.Default()
	}
	if value, ok := os.LookupEnv("ADRIVEHELPER_DEBUG"); ok {
		if debug, errParse := strconv.ParseBool(strings.TrimSpace(value)); errParse == nil && debug {
			cfg.Debug = true
		}
	}

	if errLog := logging.ConfigureLogOutput(cfg); errLog != nil {
		log.Warnf("failed to configure log output: %v", errLog)
	}
	util.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.DoAlipanLogin(ctx, cfg, nil)
	stop()

	logging.CloseLogOutputs()
	os.Exit(code)
}

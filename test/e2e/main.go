package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/test/e2e/infra"
)

type configuration struct {
	InfraMode   string // "inprocess" or "external"
	ExecutorURL string
	SecretFile  string
}

var (
	cfg          configuration
	infraManager infra.InfraManager
)

func (c configuration) Validate() error {
	switch c.InfraMode {
	case "inprocess":
	case "external":
		if c.ExecutorURL == "" {
			return fmt.Errorf("executor-url is required in external mode")
		}
	default:
		return fmt.Errorf("invalid infra-mode %q: must be 'inprocess' or 'external'", c.InfraMode)
	}
	return nil
}

func main() {
	flag.StringVar(&cfg.InfraMode, "infra-mode", "inprocess", "Infrastructure mode: 'inprocess' or 'external'")
	flag.StringVar(&cfg.ExecutorURL, "executor-url", "", "Executor base URL (external mode)")
	flag.StringVar(&cfg.SecretFile, "secret-file", "", "Token signing secret of the executor (external mode)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	cleanup := func() error { return nil }
	switch cfg.InfraMode {
	case "inprocess":
		im, err := infra.NewInProcessInfraManager()
		if err != nil {
			log.Fatalf("failed to create in-process infra manager: %v", err)
		}
		cleanup = im.Cleanup
		infraManager = im
	case "external":
		infraManager = infra.NewExternalInfraManager(cfg.ExecutorURL, cfg.SecretFile)
	}

	RegisterFailHandler(Fail)
	passed := RunSpecs(&testing.T{}, "E2E Suite")
	if err := cleanup(); err != nil {
		zap.S().Warnw("failed to clean up", "error", err)
	}
	if !passed {
		os.Exit(1)
	}
}

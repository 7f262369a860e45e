/*
Package main provides end-to-end tests for the task executor.

# Package Structure

	test/e2e/
	├── main.go           Entry point: flags, config, InfraManager setup, Ginkgo runner
	├── tests.go          Ginkgo test specs (tasks, schedules, batches, queue, auth)
	├── doc.go            This file
	├── infra/            Executor lifecycle
	│   ├── infra.go      InfraManager interface + ExecutorConfig
	│   ├── inprocess.go  InProcessInfraManager (executor inside the test binary)
	│   └── external.go   ExternalInfraManager (executor managed elsewhere)
	└── service/
	    └── service.go    ExecutorSvc: HTTP client for /api/v1 with bearer token

# InfraManager

	type InfraManager interface {
	    StartExecutor(cfg) (baseURL, error)
	    StopExecutor() error
	    GenerateToken(subject) (string, error)
	}

Two implementations:
  - InProcessInfraManager builds the whole executor (journal file, pool,
    HTTP API) on a free port in the test process. Default.
  - ExternalInfraManager targets -executor-url and signs tokens with
    -secret-file. Specs that need a specific pool configuration are skipped.

Selected via the -infra-mode flag ("inprocess" or "external").

# Running

	go run ./test/e2e
	go run ./test/e2e -infra-mode external -executor-url http://localhost:8000 -secret-file ./secret
*/
package main

package infra

// InfraManager abstracts the executor lifecycle for e2e tests.
// In-process: the executor runs inside the test binary.
// External: the executor is started elsewhere; only its URL and secret are known.
type InfraManager interface {
	StartExecutor(cfg ExecutorConfig) (string, error)
	StopExecutor() error
	GenerateToken(subject string) (string, error)
}

// ExecutorConfig holds configuration for starting an executor instance.
// External managers ignore it.
type ExecutorConfig struct {
	PoolSize      int
	QueueCapacity int
	OnFull        string // "block" or "reject"
	AuthEnabled   bool
}

const TokenSubject = "e2e"

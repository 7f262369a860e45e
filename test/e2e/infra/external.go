package infra

import (
	"time"

	"github.com/kubev2v/task-executor/internal/server"
)

// ExternalInfraManager implements InfraManager for an executor managed
// outside the test run. Tokens are signed with the executor's secret file.
type ExternalInfraManager struct {
	url        string
	secretFile string
}

func NewExternalInfraManager(url, secretFile string) *ExternalInfraManager {
	return &ExternalInfraManager{url: url, secretFile: secretFile}
}

func (e *ExternalInfraManager) StartExecutor(_ ExecutorConfig) (string, error) {
	return e.url, nil
}

func (e *ExternalInfraManager) StopExecutor() error { return nil }

func (e *ExternalInfraManager) GenerateToken(subject string) (string, error) {
	if e.secretFile == "" {
		return "", nil
	}
	auth, err := server.NewAuthenticatorFromFile(e.secretFile)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(subject, time.Hour)
}

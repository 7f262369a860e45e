package infra

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/internal/app"
	"github.com/kubev2v/task-executor/internal/config"
	"github.com/kubev2v/task-executor/internal/server"
)

// InProcessInfraManager runs the executor in the test process on a free port.
type InProcessInfraManager struct {
	dir    string
	secret string
	cancel context.CancelFunc
	done   chan error
}

func NewInProcessInfraManager() (*InProcessInfraManager, error) {
	dir, err := os.MkdirTemp("", "executor-e2e-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	return &InProcessInfraManager{dir: dir, secret: uuid.NewString()}, nil
}

func (m *InProcessInfraManager) StartExecutor(ec ExecutorConfig) (string, error) {
	if m.cancel != nil {
		return "", errors.New("executor already started")
	}

	port, err := freePort()
	if err != nil {
		return "", err
	}

	secretFile := filepath.Join(m.dir, "secret")
	if err := os.WriteFile(secretFile, []byte(m.secret), 0o600); err != nil {
		return "", fmt.Errorf("writing secret: %w", err)
	}

	cfg := config.NewConfigurationWithOptionsAndDefaults()
	cfg.Server.HTTPPort = port
	cfg.Store.Path = filepath.Join(m.dir, uuid.NewString()+".duckdb")
	cfg.Scheduler.ShutdownTimeout = 2 * time.Second
	cfg.Authentication.Enabled = ec.AuthEnabled
	cfg.Authentication.SecretFilePath = secretFile
	if ec.PoolSize > 0 {
		cfg.Scheduler.PoolSize = ec.PoolSize
	}
	if ec.QueueCapacity > 0 {
		cfg.Scheduler.QueueCapacity = ec.QueueCapacity
	}
	if ec.OnFull != "" {
		cfg.Scheduler.OnFull = ec.OnFull
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan error, 1)
	go func() {
		m.done <- a.Run(ctx)
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d", port)
	zap.S().Infow("executor started", "url", url, "auth", ec.AuthEnabled)
	return url, nil
}

func (m *InProcessInfraManager) StopExecutor() error {
	if m.cancel == nil {
		return nil
	}
	m.cancel()
	err := <-m.done
	m.cancel = nil
	return err
}

func (m *InProcessInfraManager) GenerateToken(subject string) (string, error) {
	auth, err := server.NewAuthenticator(m.secret)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(subject, time.Hour)
}

// Cleanup removes the temp directory holding journals and secrets.
func (m *InProcessInfraManager) Cleanup() error {
	return os.RemoveAll(m.dir)
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding a free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

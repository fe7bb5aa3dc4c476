// Package consul provides an advisory lock over Consul sessions. Catalogs
// and their persisted stores are single-writer; processes sharing one
// store serialize Update and Save behind this lock.
package consul

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/consul/api"
)

// LockConfig contains configuration options for the Consul lock.
type LockConfig struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string

	// Token for Consul ACL authentication (optional)
	Token string

	// Datacenter to use (optional)
	Datacenter string

	// Key the lock is held under (default: "catalog/lock")
	Key string
}

// AdvisoryLock wraps a Consul session lock around a shared catalog store.
type AdvisoryLock struct {
	mu sync.Mutex

	client *api.Client
	lock   *api.Lock
	config *LockConfig
	held   bool
}

func NewAdvisoryLock(config *LockConfig) (*AdvisoryLock, error) {
	if config == nil {
		config = &LockConfig{}
	}

	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}

	if config.Key == "" {
		config.Key = "catalog/lock"
	}

	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	if config.Token != "" {
		clientConfig.Token = config.Token
	}
	if config.Datacenter != "" {
		clientConfig.Datacenter = config.Datacenter
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	lock, err := client.LockKey(config.Key)
	if err != nil {
		return nil, err
	}

	return &AdvisoryLock{
		client: client,
		lock:   lock,
		config: config,
	}, nil
}

// Acquire blocks until the lock is held or the context ends.
func (al *AdvisoryLock) Acquire(ctx context.Context) error {
	al.mu.Lock()
	defer al.mu.Unlock()

	if al.held {
		return fmt.Errorf("lock %s already held", al.config.Key)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			close(stop)
		case <-done:
		}
	}()

	leader, err := al.lock.Lock(stop)
	if err != nil {
		return err
	}
	if leader == nil {
		return fmt.Errorf("lock %s not acquired: %w", al.config.Key, ctx.Err())
	}

	al.held = true
	return nil
}

// Release gives the lock back.
func (al *AdvisoryLock) Release() error {
	al.mu.Lock()
	defer al.mu.Unlock()

	if !al.held {
		return nil
	}

	al.held = false
	return al.lock.Unlock()
}

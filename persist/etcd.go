package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/plantfabric/assetkit/tree"
)

// ErrSnapshotNotFound is returned when no snapshot exists under a name.
var ErrSnapshotNotFound = errors.New("persist: snapshot not found")

// EtcdOptions configures the etcd-backed snapshot store.
type EtcdOptions struct {
	// Endpoints lists the etcd cluster endpoints. Required.
	Endpoints []string

	// Namespace prefixes every key. Defaults to "assetkit".
	Namespace string

	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration
}

// EtcdStore keeps named snapshots in an etcd cluster for hosts that
// share one registry between processes. Snapshots are stored in the
// same YAML encoding Save produces, one key per name, and repaired on
// every load.
//
// Thread-safety: all methods are safe for concurrent use.
type EtcdStore struct {
	client    *clientv3.Client
	namespace string
}

// NewEtcdStore connects to the cluster and verifies connectivity.
// Close must be called when the store is no longer needed.
func NewEtcdStore(opts EtcdOptions) (*EtcdStore, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("persist: etcd endpoints cannot be empty")
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "assetkit"
	}
	dialTimeout := opts.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("persist: failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if _, err := cli.Get(ctx, "health-check"); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("persist: etcd health check failed: %w", err)
	}

	return &EtcdStore{client: cli, namespace: namespace}, nil
}

// key builds the storage key of a named snapshot.
func (e *EtcdStore) key(name string) string {
	return e.namespace + "/snapshots/" + name
}

// Save serializes the snapshot and writes it under the name.
func (e *EtcdStore) Save(ctx context.Context, name string, s tree.Snapshot) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("persist: snapshot name cannot be blank")
	}

	var buf bytes.Buffer
	if err := Save(&buf, s); err != nil {
		return err
	}
	if _, err := e.client.Put(ctx, e.key(name), buf.String()); err != nil {
		return fmt.Errorf("persist: failed to write snapshot %q: %w", name, err)
	}
	return nil
}

// Load reads the named snapshot, repairing it before returning.
func (e *EtcdStore) Load(ctx context.Context, name string) (tree.Snapshot, error) {
	resp, err := e.client.Get(ctx, e.key(name))
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("persist: failed to read snapshot %q: %w", name, err)
	}
	if len(resp.Kvs) == 0 {
		return tree.Snapshot{}, fmt.Errorf("snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	return Load(bytes.NewReader(resp.Kvs[0].Value))
}

// Delete removes the named snapshot. Absent names are a no-op.
func (e *EtcdStore) Delete(ctx context.Context, name string) error {
	if _, err := e.client.Delete(ctx, e.key(name)); err != nil {
		return fmt.Errorf("persist: failed to delete snapshot %q: %w", name, err)
	}
	return nil
}

// List returns the names of all stored snapshots.
func (e *EtcdStore) List(ctx context.Context) ([]string, error) {
	prefix := e.namespace + "/snapshots/"
	resp, err := e.client.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, fmt.Errorf("persist: failed to list snapshots: %w", err)
	}

	names := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		names = append(names, strings.TrimPrefix(string(kv.Key), prefix))
	}
	return names, nil
}

// Close releases the etcd connection.
func (e *EtcdStore) Close() error {
	return e.client.Close()
}

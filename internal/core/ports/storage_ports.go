package ports

import "context"

//go:generate mockgen -source=storage_ports.go -destination=mocks/mock_storage_ports.go -package=mocks

// KeyValueStore is the durable local storage medium. Get reports found=false
// for a missing key rather than an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

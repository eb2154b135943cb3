package keystore

import (
	"context"

	"github.com/finmsg/finmsg/config"
	infraValkey "github.com/finmsg/finmsg/infrastructure/valkey"
)

type valkeyStore struct {
	client *infraValkey.Client
}

// NewValkeyStore adapts the shared valkey client to the blob-store
// interface. Keys are namespaced under the configured prefix.
func NewValkeyStore(client *infraValkey.Client) IKeyValueStore {
	return &valkeyStore{client: client}
}

func (s *valkeyStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.RequestTimeout)
}

func (s *valkeyStore) Get(key string) ([]byte, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.GetBlob(ctx, s.client.Key("profile", key))
}

func (s *valkeyStore) Set(key string, value []byte) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.SetBlob(ctx, s.client.Key("profile", key), value)
}

func (s *valkeyStore) Delete(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.DeleteBlob(ctx, s.client.Key("profile", key))
}

func (s *valkeyStore) Close() error {
	s.client.Close()
	return nil
}

// internal/models/backend.go
package models

// StoreBackend names the data store serving job queries.
type StoreBackend string

const (
	BackendPostgres      StoreBackend = "postgres"
	BackendElasticsearch StoreBackend = "elasticsearch"
	BackendMemory        StoreBackend = "memory"
)

func (b StoreBackend) String() string {
	return string(b)
}

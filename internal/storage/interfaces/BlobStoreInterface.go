package interfaces

// BlobStoreInterface is an opaque per-profile key-value store.
// Load reports ok=false for a missing key.
type BlobStoreInterface interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Exists(key string) bool
	Delete(key string) error
}

// Package cloudwriter abstracts object-store uploads so the parquet output
// can target cloud storage without knowing which provider backs it.
package cloudwriter

// CloudWriter buffers a single object. Data only reaches the store on Close;
// partial writes are never visible remotely.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

// CloudWriterFactory creates writers bound to one provider and region.
type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// Package s3store provides a filekeep.BlobStore on S3 compatible object
// storage (AWS S3, MinIO, Garage and similar) using aws-sdk-go-v2.
//
// Uploads stream through the SDK upload manager, so bodies of unknown length
// never touch local disk and large ones go up in parts.
package s3store

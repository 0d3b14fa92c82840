// Package filekeep implements an authenticated file management service:
// users upload files, list and search their own file metadata, download files
// and delete them. Administrators, identified by an email allow-list, can list
// and download every user's files.
//
// # Key Components
//
//   - FileService: orchestrates uploads, listings, downloads and deletions
//   - AccessPolicy: owner and admin rules for every operation
//   - FileValidator: filename and extension allow-list checks
//   - ApplyQuery: in-memory filtering and sorting of scanned records
//   - MetadataStore: record persistence (SQLite, PostgreSQL, DynamoDB)
//   - BlobStore: content persistence (local filesystem, S3)
//   - TokenVerifier: bearer credential verification (JWKS, HMAC)
//
// # Errors
//
// Every error returned by FileService wraps one of the package sentinels.
// KindOf classifies an error so the transport can map it to a status code.
//
// # Example Usage
//
//	svc, err := filekeep.NewFileService(meta, blobs, filekeep.ServiceConfig{
//	    Policy:    filekeep.NewAccessPolicy([]string{"admin@example.com"}),
//	    Validator: filekeep.NewFileValidator(nil),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := svc.Upload(ctx, principal, filekeep.UploadInput{
//	    Filename:    "notes.txt",
//	    ContentType: "text/plain",
//	    Content:     r,
//	})
//
// Listing scans the metadata store and filters in memory, so it is bounded by
// the number of records a single principal can see.
package filekeep

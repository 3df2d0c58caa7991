// Package attachment turns declarative email attachment references into bytes.
//
// An attachment carries a filename and either inline base64 Content or a URI
// to download. Resolution is content-first: when Content is present it is
// decoded and the URI is never fetched. URIs are fetched through a
// scheme-specific Fetcher within the configured download timeout:
//
//   - http and https through HTTPFetcher, following redirects
//   - s3://bucket/key through S3Fetcher
//
// # Errors
//
// A blank filename or a missing content source fails with
// notification.ErrInvalidArgument before any network call; invalid base64
// fails with notification.ErrFormat; download failures, non-2xx responses and
// timeouts fail with notification.ErrTransport.
package attachment

// Package s3 stores route databases in Amazon S3.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket",
//	    s3.WithPrefix("routes/"),
//	)
//
// Reads are ranged GETs, listings are paginated, and writes stream
// through the SDK's multipart uploader with CRC32C checksums.
package s3

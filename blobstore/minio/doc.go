// Package minio stores route databases on MinIO and other S3-compatible
// servers through the MinIO client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "antnav", "routes/")
//	err = routedb.Save(ctx, store, "garden", snapshots)
package minio

// Package upload implements the media upload route.
//
// A POST carrying a single multipart field named "file" is streamed to a
// temporary file. The temporary path is handed to a MediaStore, which
// forwards the bytes to the storage provider and returns a public URL. The
// temporary file is removed once the store returns.
//
//	store, err := upload.NewS3StoreFromConfig(ctx, upload.S3Config{Bucket: "lexmart-media"})
//	if err != nil {
//	    return err
//	}
//	r.Post("/api/upload", upload.Handler(store, upload.Config{}).ServeHTTP)
//
// On success the route answers 200 {"imageUrl": "..."}. Every failure,
// including a request without a file, answers 500 {"error": "..."}.
// There is no retry and no type validation beyond the body cap.
package upload

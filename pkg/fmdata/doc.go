// Package fmdata defines the public types for the FileMaker Data API
// client: the Client interface, configuration, typed errors, and the
// Record/Foundset data model.
//
// Construct clients with the fmclient package:
//
//	client, err := fmclient.New(&fmdata.Config{
//		Host:     "https://fms.example.com",
//		Database: "Contacts",
//		Layout:   "contacts_web",
//		Username: "api",
//		Password: os.Getenv("FMDATA_PASSWORD"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := client.Login(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer client.Logout(ctx)
//
//	record, err := client.Records().Get(ctx, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_ = record.SetField("name", "John")
//	if err := record.Commit(ctx); err != nil {
//		if fmdata.IsConflict(err) {
//			// someone else edited the record; reload and retry
//		}
//	}
//
// Field reads and writes are local; Commit sends only the dirty
// fields together with the record's modification id, so concurrent
// edits surface as a conflict instead of a silent overwrite.
package fmdata

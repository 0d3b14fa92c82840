// Package clientcli provides a client library for interacting with filekeep servers.
//
// It supports upload, list, download, and delete operations authenticated with a bearer token.
// Saved profiles keep one endpoint and token per server.
//
// # Basic Usage
//
// Create a client and upload a file:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:5708",
//		Token:    os.Getenv("FILEKEEP_TOKEN"),
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./report.pdf",
//	})
//
// # Profiles
//
// Saved profiles pair an endpoint with a bearer token:
//
//	saved, err := clientcli.LoadProfiles(clientcli.DefaultProfilesPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, profile, err := saved.Resolve("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := profile.Config()
//	client, err := clientcli.New(&cfg)
//
// InspectToken reads the subject and expiry of a JWT without verifying it,
// and Client.CheckToken asks the server whether it accepts the token.
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, results)
package clientcli

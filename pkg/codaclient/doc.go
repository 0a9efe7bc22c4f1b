// Package codaclient provides the primary entry point for constructing a
// Coda API client that implements the coda.Client interface.
//
// It normalizes configuration and wires the HTTP transport and bearer-token
// authentication under the endpoint interfaces defined in the coda package.
//
// Quick start
//
//	ctx := context.Background()
//
//	cli, err := codaclient.New(ctx, &coda.Config{APIToken: os.Getenv("CODA_API_TOKEN")})
//	if err != nil { log.Fatal(err) }
//
//	docs, err := cli.Docs().List(ctx, coda.NewListOptions().WithBoolFilter("is_owner", true))
//	if err != nil { log.Fatal(err) }
//
//	for doc := range docs.Resources() {
//	  fmt.Println(doc.ID())
//	}
//
// # Base URL
//
// BaseURL defaults to https://coda.io/apis/v1. A value without a scheme gets
// https:// prepended; trailing slashes are dropped. Continuation links
// returned by the service are only followed when they point under this URL.
package codaclient

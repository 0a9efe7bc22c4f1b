// Package coda provides types, interfaces, and helpers for working with the
// Coda Docs REST API.
//
// # Overview
//
// Every object the service returns carries a "type" discriminator. The
// decoder (DecodeResource, DecodeList) dispatches on it and produces one of a
// closed set of resource variants: Doc, Section, Folder, Table, Column, Row,
// Formula, Control, User and APILink. Variants keep the JSON object they were
// decoded from and read fields on demand; nothing is copied into struct
// fields. A resource also remembers the Client and the Doc it came from so it
// can reach its children without the caller passing them again.
//
// A concrete implementation of the Client interface is provided by the
// codaclient package, which wires configuration, transport and
// authentication.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/coda-client/pkg/coda"
//	  "github.com/fivetwenty-io/coda-client/pkg/codaclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := codaclient.New(ctx, &coda.Config{APIToken: "..."})
//	  if err != nil { log.Fatal(err) }
//
//	  doc, err := cli.Docs().Get(ctx, "AbCDeFGH")
//	  if err != nil { log.Fatal(err) }
//
//	  tables, err := doc.Tables()
//	  if err != nil { log.Fatal(err) }
//
//	  page, err := tables.List(ctx, coda.NewListOptions().WithLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Pagination
//
// List calls return a *Page. A page is an immutable, ordered list of
// resources plus the server's continuation link. FetchNextPage issues one new
// request and returns a new page:
//
//	for {
//	  for _, res := range page.All() {
//	    _ = res
//	  }
//	  if !page.HasNextPage() { break }
//	  page, err = page.FetchNextPage(ctx)
//	  if err != nil { return err }
//	}
//
// PageIterator walks the same pages one resource at a time.
//
// # Field names
//
// Accessors take snake_case names and translate them with WireKey, so
// Field("browser_link") reads the "browserLink" key. List filters are
// translated the same way.
//
// # Errors
//
// Non-2xx responses surface as *RequestFailedError carrying the status and
// body. IsNotFound, IsUnauthorized and IsForbidden branch on the status.
// Decoding failures wrap ErrMalformedResponse or return an
// *UnknownResourceTypeError.
package coda

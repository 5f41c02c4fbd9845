// Package itm provides a native Go client for the Proofpoint ITM
// (Insider Threat Management) SaaS REST API.
//
// # Features
//
//   - Service-based architecture covering the depot, ruler, registry,
//     notification and activity APIs
//   - OAuth2 client-credentials authentication with automatic token
//     refresh
//   - Modern Go 1.25+ iterators for offset pagination
//   - Typed errors for precise error handling
//   - Functional options for flexible configuration
//
// # Quick Start
//
//	client, err := itm.NewClient(
//	    itm.WithTenantID("mytenant"),
//	    itm.WithClientCredentials(clientID, clientSecret),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List endpoints seen in the last week
//	endpoints, err := client.Endpoints.Recent(ctx, &itm.EndpointQuery{
//	    Kind: itm.KindAgentSaaS,
//	    Days: 7,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ep := range endpoints {
//	    fmt.Println(ep.Child("endpoint").Str("hostname"))
//	}
//
// # Error Handling
//
// The package uses typed errors that can be inspected with errors.As:
//
//	rule, err := client.Rules.Get(ctx, "invalid-id")
//	if err != nil {
//	    var notFound *itm.NotFoundError
//	    if errors.As(err, &notFound) {
//	        // Handle not found
//	    }
//	}
//
// # Pagination
//
// Use iterators for automatic pagination:
//
//	// Iterate over all registered endpoints
//	for ep, err := range client.Endpoints.All(ctx) {
//	    // ...
//	}
//
//	// Collect all results into a slice
//	endpoints, err := itm.Collect(client.Endpoints.All(ctx))
//
//	// Or use manual pagination
//	page, err := client.Endpoints.ListPage(ctx, &itm.PageOptions{
//	    Offset: 0,
//	    Limit:  100,
//	})
//
// # Dry Runs
//
// Write methods accept WithDryRun, which skips the HTTP call and
// returns a synthetic record with a generated id. Useful for rehearsing
// bulk changes such as tenant migrations:
//
//	created, err := client.Tags.Create(ctx, tag, itm.WithDryRun())
package itm

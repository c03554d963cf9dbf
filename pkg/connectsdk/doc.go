// Package connectsdk is the Go client for the Patchbay integration
// platform. It mirrors the platform's HTTP surface one method per route and
// shares the request/response types with the server handlers, so the wire
// contract lives in exactly one place.
//
// Basic usage:
//
//	client := connectsdk.NewSDKClient("http://localhost:8080")
//
//	// Browse the connector catalog
//	connectors, err := client.ListConnectors(ctx)
//
//	// Create a connection and start the OAuth dance
//	conn, err := client.CreateConnection(ctx, connectsdk.CreateConnectionRequest{
//	    Connector: "github",
//	    OwnerID:   "acct_42",
//	})
//	grant, err := client.Authorize(ctx, connectsdk.AuthorizeRequest{
//	    ConnectionID: conn.ID,
//	    Connector:    "github",
//	    RedirectURI:  "https://app.example.com/oauth/callback",
//	})
//	// send the user to grant.AuthorizationURL ...
//
//	// Execute a declarative endpoint through the proxy
//	resp, err := client.Execute(ctx, connectsdk.ExecuteRequest{
//	    ConnectionID: conn.ID,
//	    Connector:    "github",
//	    Endpoint:     "list_repos",
//	    Params:       map[string]any{"per_page": 10},
//	})
//
// Errors returned by the platform are *APIError values carrying the HTTP
// status and the platform's error code, so callers can switch on them with
// errors.As.
package connectsdk

// Package beaglesecurity provides a Go client SDK for the Beagle Security
// REST API, an automated penetration testing platform.
//
// The SDK covers the full v3 API surface: projects, applications, test
// lifecycle control, results and reports, webhooks and result metrics.
// All requests share one transport with bearer authentication, retries
// with exponential backoff and typed errors.
//
// Basic usage:
//
//	client, err := beaglesecurity.New("your-api-token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Start a test
//	app := client.Application("application-token")
//	test, err := app.StartTest(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Wait for it to finish
//	status, err := test.WaitForCompletion(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Finished:", status.Status)
package beaglesecurity

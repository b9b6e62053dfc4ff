// Package gmail implements the scanner.Mailbox contract on top of the
// Gmail API.
//
// The Gmail v1 API has no bulk mutation endpoint for the operations the
// assistant needs, so the batch methods fan the per-message calls out over
// a bounded pool of workers and report a per-message outcome for each ID.
//
// Example usage:
//
//	ctx := context.Background()
//	httpClient, err := cfg.HTTPClient(ctx, cred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := gmail.NewClient(ctx, httpClient)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ids, _, err := client.ListMessages(ctx, "category:promotions", 50, "")
package gmail

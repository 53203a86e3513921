// Package transcripts embeds transcript search in a Go program: the query
// language, the full-text engine with relational fallback, and reindexing,
// without running the HTTP service.
//
//	client, _ := transcripts.New(ctx,
//	    transcripts.WithRedis("localhost:6379", ""),
//	    transcripts.WithPostgres("postgres://localhost/hansard"),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, `(预算 OR 财政) AND committee:财经委员会 -临时`,
//	    transcripts.WithDateRange("2024-01-01", ""),
//	    transcripts.WithLimit(20),
//	)
//	for _, hit := range res.Hits {
//	    fmt.Println(hit.Date, hit.Title, hit.Excerpt)
//	}
//
// Without an engine option every search is answered by the relational store.
package transcripts

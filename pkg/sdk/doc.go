// Package prodex provides a Go client for the prodex product search engine.
//
// Products are stored as hashes in Valkey or Redis. Searches fetch candidates,
// filter them, score relevance from field matches and business signals, then
// sort and paginate.
//
// # Store-backed search
//
//	client, _ := prodex.New(ctx, prodex.WithValkey("localhost:6379", ""))
//	defer client.Close()
//	results, summary := client.Load(ctx, items)
//	res, _ := client.Query().
//	    Text("wireless mouse").
//	    Categories("Electronics").
//	    ActiveOnly().
//	    Facets("category").
//	    Page(1, 20).
//	    Do(ctx)
//
// # In-memory search
//
//	products, _ := prodex.Products(items...)
//	q := prodex.NewQuery().Fuzzy("name", "mose", 1).Build()
//	res, _ := prodex.Search(ctx, &q, products)
package prodex

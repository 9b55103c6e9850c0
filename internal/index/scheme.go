package index

var (
	bArticles = []byte("articles") // id(8) -> article json
	bOrder    = []byte("order")    // position(8) -> id(8)
	bState    = []byte("state")    // key -> value

	kFetchedAt   = []byte("fetched_at")
	kFingerprint = []byte("fingerprint")
	kSource      = []byte("source")
)

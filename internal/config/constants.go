package config

// Default connection targets
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./catalog-export.db"

	// DefaultSolrURL is the default Solr server address
	DefaultSolrURL = "http://localhost:8983/solr"
)

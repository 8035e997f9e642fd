package store

// Schema creates the usage table: one row per calendar month.
const Schema = `
CREATE TABLE IF NOT EXISTS brand_api_usage (
	month TEXT PRIMARY KEY,
	count INTEGER NOT NULL
);
`

package sqlitestore

var createRecordLogTableSQL = `
CREATE TABLE IF NOT EXISTS flowcanvas_record_log (
	id TEXT,
	rev INTEGER,
	committed_at_unix_milli INTEGER,
	workflow JSONB,
	PRIMARY KEY (id, rev)
);`

var createRecordLatestTableSQL = `
CREATE TABLE IF NOT EXISTS flowcanvas_record_latest (
	id TEXT,
	rev INTEGER,
	PRIMARY KEY (id)
);`

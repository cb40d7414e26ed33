package pgstore

type Migration struct {
	Desc string
	SQL  string
}

var Migrations = []Migration{
	{
		Desc: "create flowcanvas_latest_records table",
		SQL: `
CREATE TABLE IF NOT EXISTS flowcanvas_latest_records (
	id TEXT NOT NULL,
	rev bigint NOT NULL,
	PRIMARY KEY (id)
);`,
	},
	{
		Desc: "create flowcanvas_records table",
		SQL: `
CREATE TABLE IF NOT EXISTS flowcanvas_records (
	id TEXT NOT NULL,
	rev bigint NOT NULL,
	committed_at_unix_milli bigint NOT NULL,
	workflow JSONB NOT NULL,
	PRIMARY KEY (id, rev)
);`,
	},
}

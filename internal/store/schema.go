package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS templates (
    name                 TEXT PRIMARY KEY,
    format               TEXT NOT NULL,
    source               BLOB NOT NULL,
    group_count          INTEGER NOT NULL,
    item_count           INTEGER NOT NULL,
    budget_limit         TEXT,
    total                TEXT NOT NULL,
    imported_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS template_groups (
    template_name        TEXT NOT NULL REFERENCES templates(name) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    group_id             TEXT NOT NULL,
    group_name           TEXT NOT NULL,
    keyed                INTEGER NOT NULL DEFAULT 0,
    item_count           INTEGER NOT NULL,
    subtotal             TEXT NOT NULL,
    PRIMARY KEY (template_name, position)
);

CREATE INDEX IF NOT EXISTS idx_templates_imported ON templates(imported_at);
`

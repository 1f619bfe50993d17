package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- URLs seen across all runs
CREATE TABLE IF NOT EXISTS urls (
    url_id INTEGER PRIMARY KEY AUTOINCREMENT,
    original_url TEXT NOT NULL UNIQUE,
    domain TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_urls_domain ON urls(domain);

-- One row per pipeline run
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    input_path TEXT NOT NULL,
    output_path TEXT,
    url_count INTEGER DEFAULT 0,
    ok_count INTEGER DEFAULT 0,
    too_short_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    duplicate_count INTEGER DEFAULT 0,

    -- Top keywords as JSON array: ["word:count", ...]
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Enriched records of a run, in output order
CREATE TABLE IF NOT EXISTS records (
    record_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    url_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    code TEXT,
    status TEXT NOT NULL,             -- ok, too_short, scrape_failed
    title TEXT,
    text TEXT,
    content_hash TEXT,
    language TEXT,
    char_count INTEGER,
    word_count INTEGER,
    publication_date TEXT,            -- DD-MM-YYYY
    dates_mentioned TEXT,             -- ';'-joined lists
    locations TEXT,
    organisations TEXT,
    animals TEXT,
    diseases TEXT,
    source_nlp TEXT,
    sentiment REAL,
    summary_50 TEXT,
    summary_100 TEXT,
    summary_150 TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    FOREIGN KEY (url_id) REFERENCES urls(url_id),
    UNIQUE(run_id, url_id)
);

CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id, position);
CREATE INDEX IF NOT EXISTS idx_records_status ON records(status);
CREATE INDEX IF NOT EXISTS idx_records_content_hash ON records(content_hash);
`

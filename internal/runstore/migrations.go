package runstore

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    text TEXT,
    image_path TEXT NOT NULL,
    audio_path TEXT,
    preprocess TEXT NOT NULL,
    size INTEGER NOT NULL,
    batch_size INTEGER NOT NULL,
    enhancer TEXT NOT NULL,
    status TEXT NOT NULL,
    video_path TEXT,
    error_message TEXT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

package store

// Schema migrations applied in order on startup. Statements are idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS category (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(30) NOT NULL,
		slug VARCHAR(30) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS team_info (
		id BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES category(id),
		name VARCHAR(30) NOT NULL,
		slug VARCHAR(30) NOT NULL,
		dress_color VARCHAR(20),
		dress_color_secondary VARCHAR(20)
	)`,

	`CREATE TABLE IF NOT EXISTS player (
		id BIGSERIAL PRIMARY KEY,
		team_info_id BIGINT NOT NULL REFERENCES team_info(id),
		name VARCHAR(50) NOT NULL,
		surname VARCHAR(50) NOT NULL,
		number INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS match (
		id BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES category(id),
		home_team_id BIGINT NOT NULL REFERENCES team_info(id),
		away_team_id BIGINT NOT NULL REFERENCES team_info(id),
		score_home INTEGER,
		score_away INTEGER,
		confirmed TIMESTAMPTZ,
		confirmed_as INTEGER,
		online_state VARCHAR(16),
		first_half_start TIMESTAMPTZ,
		second_half_start TIMESTAMPTZ,
		facebook_video_id TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS match_event (
		id BIGSERIAL PRIMARY KEY,
		match_id BIGINT NOT NULL REFERENCES match(id),
		score_home INTEGER,
		score_away INTEGER,
		message TEXT,
		type VARCHAR(16) NOT NULL,
		half_index INTEGER NOT NULL,
		time_offset INTEGER NOT NULL,
		player_id BIGINT REFERENCES player(id),
		team_info_id BIGINT REFERENCES team_info(id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_match_event_timeline
		ON match_event (match_id, half_index, time_offset, id)`,

	`CREATE INDEX IF NOT EXISTS idx_match_online_state ON match (online_state)`,
}

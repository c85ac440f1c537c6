package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/litovel-minicup/matchlive/internal/domain"
)

// PostgresStore persists matches and timelines in PostgreSQL. The transition
// commit runs as one transaction with a guarded UPDATE, so of two racing
// writers only the first advances the state and the loser is rejected
// without writing an event.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL, verifies the connection and applies
// the schema migrations.
func OpenPostgres(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing connection pool. Migrations are not run.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const matchColumns = `id, category_id, home_team_id, away_team_id, score_home, score_away,
	confirmed, confirmed_as, COALESCE(online_state, ''), first_half_start, second_half_start, facebook_video_id`

// GetMatch fetches the latest persisted record for a match.
func (s *PostgresStore) GetMatch(ctx context.Context, id int64) (domain.Match, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM match WHERE id = $1`, id)
	return scanMatch(row, id)
}

// GetMatchDetail fetches a match hydrated with its team and category records.
func (s *PostgresStore) GetMatchDetail(ctx context.Context, id int64) (domain.MatchDetail, error) {
	row := s.db.QueryRowContext(ctx, detailQuery+` WHERE m.id = $1`, id)
	d, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MatchDetail{}, fmt.Errorf("match %d: %w", id, domain.ErrMatchNotFound)
		}
		return domain.MatchDetail{}, err
	}
	return d, nil
}

// ListMatchDetails returns all matches hydrated for serialization.
func (s *PostgresStore) ListMatchDetails(ctx context.Context) ([]domain.MatchDetail, error) {
	rows, err := s.db.QueryContext(ctx, detailQuery+` ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateOnlineState persists only the online_state field of a match.
func (s *PostgresStore) UpdateOnlineState(ctx context.Context, id int64, state domain.MatchState) error {
	res, err := s.db.ExecContext(ctx, `UPDATE match SET online_state = $1 WHERE id = $2`, string(state), id)
	if err != nil {
		return fmt.Errorf("update online_state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("match %d: %w", id, domain.ErrMatchNotFound)
	}
	return nil
}

// InsertEvent appends an event to a match timeline.
func (s *PostgresStore) InsertEvent(ctx context.Context, ev *domain.MatchEvent) error {
	return insertEvent(ctx, s.db, ev)
}

type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertEvent(ctx context.Context, q execQuerier, ev *domain.MatchEvent) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO match_event (match_id, score_home, score_away, message, type, half_index, time_offset, player_id, team_info_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		ev.MatchID, nullInt(ev.ScoreHome), nullInt(ev.ScoreAway), nullStr(ev.Message),
		string(ev.Type), ev.HalfIndex, ev.TimeOffset, nullInt64(ev.PlayerID), nullInt64(ev.TeamID),
	).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns the ordered timeline with players hydrated.
func (s *PostgresStore) ListEvents(ctx context.Context, matchID int64) ([]domain.TimelineEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.match_id, e.score_home, e.score_away, e.message, e.type, e.half_index, e.time_offset,
			e.player_id, e.team_info_id,
			p.id, p.team_info_id, p.name, p.surname, p.number
		FROM match_event e
		LEFT JOIN player p ON p.id = e.player_id
		WHERE e.match_id = $1
		ORDER BY e.half_index, e.time_offset, e.id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var (
			ev                       domain.MatchEvent
			scoreHome, scoreAway     sql.NullInt64
			message, evType          sql.NullString
			playerRef, teamRef       sql.NullInt64
			pID, pTeamID, pNumber    sql.NullInt64
			pName, pSurname          sql.NullString
		)
		err := rows.Scan(&ev.ID, &ev.MatchID, &scoreHome, &scoreAway, &message, &evType,
			&ev.HalfIndex, &ev.TimeOffset, &playerRef, &teamRef,
			&pID, &pTeamID, &pName, &pSurname, &pNumber)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.ScoreHome = intPtr(scoreHome)
		ev.ScoreAway = intPtr(scoreAway)
		ev.Message = strPtr(message)
		ev.Type = domain.EventType(evType.String)
		ev.PlayerID = int64Ptr(playerRef)
		ev.TeamID = int64Ptr(teamRef)

		te := domain.TimelineEvent{Event: ev}
		if pID.Valid {
			te.Player = &domain.Player{
				ID:      pID.Int64,
				TeamID:  pTeamID.Int64,
				Name:    pName.String,
				Surname: pSurname.String,
				Number:  int(pNumber.Int64),
			}
		}
		out = append(out, te)
	}
	return out, rows.Err()
}

// GetPlayer fetches a roster record.
func (s *PostgresStore) GetPlayer(ctx context.Context, id int64) (domain.Player, error) {
	var p domain.Player
	err := s.db.QueryRowContext(ctx,
		`SELECT id, team_info_id, name, surname, number FROM player WHERE id = $1`, id).
		Scan(&p.ID, &p.TeamID, &p.Name, &p.Surname, &p.Number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Player{}, fmt.Errorf("player %d: %w", id, domain.ErrPlayerNotFound)
		}
		return domain.Player{}, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

// CommitTransition advances the match and appends the synthesized event in
// one transaction. The UPDATE is guarded on the raw stored state, so a match
// advanced by a concurrent writer since the caller's re-read rejects with
// domain.ErrIllegalTransition.
func (s *PostgresStore) CommitTransition(ctx context.Context, matchID int64, prev, next domain.MatchState, ev *domain.MatchEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE match SET online_state = $1 WHERE id = $2 AND COALESCE(online_state, '') = $3`,
		string(next), matchID, string(prev))
	if err != nil {
		return fmt.Errorf("update online_state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM match WHERE id = $1)`, matchID).Scan(&exists); err != nil {
			return fmt.Errorf("check match: %w", err)
		}
		if !exists {
			return fmt.Errorf("match %d: %w", matchID, domain.ErrMatchNotFound)
		}
		return fmt.Errorf("match %d advanced concurrently: %w", matchID, domain.ErrIllegalTransition)
	}

	if ev.Type == domain.EventStart {
		column := "first_half_start"
		if ev.HalfIndex == domain.HalfIndexSecond {
			column = "second_half_start"
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE match SET `+column+` = COALESCE(`+column+`, NOW()) WHERE id = $1`, matchID)
		if err != nil {
			return fmt.Errorf("stamp half start: %w", err)
		}
	}

	if err := insertEvent(ctx, tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const detailQuery = `
	SELECT m.id, m.category_id, m.home_team_id, m.away_team_id, m.score_home, m.score_away,
		m.confirmed, m.confirmed_as, COALESCE(m.online_state, ''), m.first_half_start, m.second_half_start, m.facebook_video_id,
		h.id, h.category_id, h.name, h.slug, COALESCE(h.dress_color, ''), COALESCE(h.dress_color_secondary, ''),
		a.id, a.category_id, a.name, a.slug, COALESCE(a.dress_color, ''), COALESCE(a.dress_color_secondary, ''),
		c.id, c.name, c.slug
	FROM match m
	JOIN team_info h ON h.id = m.home_team_id
	JOIN team_info a ON a.id = m.away_team_id
	JOIN category c ON c.id = m.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner, id int64) (domain.Match, error) {
	var (
		m                    domain.Match
		scoreHome, scoreAway sql.NullInt64
		confirmed            sql.NullTime
		confirmedAs          sql.NullInt64
		onlineState          string
		firstHalf, secondHalf sql.NullTime
		videoID              sql.NullString
	)
	err := row.Scan(&m.ID, &m.CategoryID, &m.HomeTeamID, &m.AwayTeamID, &scoreHome, &scoreAway,
		&confirmed, &confirmedAs, &onlineState, &firstHalf, &secondHalf, &videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Match{}, fmt.Errorf("match %d: %w", id, domain.ErrMatchNotFound)
		}
		return domain.Match{}, fmt.Errorf("scan match: %w", err)
	}
	m.ScoreHome = intPtr(scoreHome)
	m.ScoreAway = intPtr(scoreAway)
	m.Confirmed = timePtr(confirmed)
	m.ConfirmedAs = intPtr(confirmedAs)
	m.OnlineState = domain.MatchState(onlineState)
	m.FirstHalfStart = timePtr(firstHalf)
	m.SecondHalfStart = timePtr(secondHalf)
	m.FacebookVideoID = strPtr(videoID)
	return m, nil
}

func scanDetail(row rowScanner) (domain.MatchDetail, error) {
	var (
		d                    domain.MatchDetail
		scoreHome, scoreAway sql.NullInt64
		confirmed            sql.NullTime
		confirmedAs          sql.NullInt64
		onlineState          string
		firstHalf, secondHalf sql.NullTime
		videoID              sql.NullString
	)
	err := row.Scan(
		&d.Match.ID, &d.Match.CategoryID, &d.Match.HomeTeamID, &d.Match.AwayTeamID, &scoreHome, &scoreAway,
		&confirmed, &confirmedAs, &onlineState, &firstHalf, &secondHalf, &videoID,
		&d.HomeTeam.ID, &d.HomeTeam.CategoryID, &d.HomeTeam.Name, &d.HomeTeam.Slug, &d.HomeTeam.DressColor, &d.HomeTeam.DressColorSecondary,
		&d.AwayTeam.ID, &d.AwayTeam.CategoryID, &d.AwayTeam.Name, &d.AwayTeam.Slug, &d.AwayTeam.DressColor, &d.AwayTeam.DressColorSecondary,
		&d.Category.ID, &d.Category.Name, &d.Category.Slug,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MatchDetail{}, err
		}
		return domain.MatchDetail{}, fmt.Errorf("scan match detail: %w", err)
	}
	d.Match.ScoreHome = intPtr(scoreHome)
	d.Match.ScoreAway = intPtr(scoreAway)
	d.Match.Confirmed = timePtr(confirmed)
	d.Match.ConfirmedAs = intPtr(confirmedAs)
	d.Match.OnlineState = domain.MatchState(onlineState)
	d.Match.FirstHalfStart = timePtr(firstHalf)
	d.Match.SecondHalfStart = timePtr(secondHalf)
	d.Match.FacebookVideoID = strPtr(videoID)
	return d, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullStr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

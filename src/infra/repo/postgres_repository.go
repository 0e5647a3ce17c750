package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
	"thethird/src/infra/db"
)

// PostgresRepository implements VotingRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ ports.VotingRepository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a repository backed by Postgres.
func NewPostgresRepository(pg *db.Postgres, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool: pg.Pool,
		log:  log.With("component", "postgres_repository"),
	}
}

func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// withTx runs fn in a transaction, committing on success.
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Teams & players

const playerColumns = `id, team_id, display_name, role, created_at`

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(&p.ID, &p.TeamID, &p.DisplayName, &p.Role, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) CreateTeam(ctx context.Context, name, managerName string) (*domain.Team, *domain.Player, error) {
	var team domain.Team
	var manager *domain.Player
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		const insertTeam = `
			INSERT INTO teams (id, name)
			VALUES ($1, $2)
			RETURNING id, name, created_at
		`
		if err := tx.QueryRow(ctx, insertTeam, uuid.New(), name).Scan(&team.ID, &team.Name, &team.CreatedAt); err != nil {
			return fmt.Errorf("insert team: %w", err)
		}

		var err error
		manager, err = insertPlayer(ctx, tx, team.ID, managerName, domain.RoleManager)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &team, manager, nil
}

func (r *PostgresRepository) GetTeam(ctx context.Context, teamID uuid.UUID) (*domain.Team, error) {
	const q = `SELECT id, name, created_at FROM teams WHERE id = $1`
	var t domain.Team
	if err := r.pool.QueryRow(ctx, q, teamID).Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("team")
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) CreatePlayer(ctx context.Context, teamID uuid.UUID, displayName string, role domain.Role) (*domain.Player, error) {
	return insertPlayer(ctx, r.pool, teamID, displayName, role)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertPlayer(ctx context.Context, q querier, teamID uuid.UUID, displayName string, role domain.Role) (*domain.Player, error) {
	const insert = `
		INSERT INTO players (id, team_id, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + playerColumns
	p, err := scanPlayer(q.QueryRow(ctx, insert, uuid.New(), teamID, displayName, role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError("display name already taken")
		}
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetPlayer(ctx context.Context, playerID uuid.UUID) (*domain.Player, error) {
	const q = `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	p, err := scanPlayer(r.pool.QueryRow(ctx, q, playerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("player")
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListPlayers(ctx context.Context, teamID uuid.UUID) ([]domain.Player, error) {
	const q = `
		SELECT ` + playerColumns + `
		FROM players
		WHERE team_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, q, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// Matches & sessions

const sessionColumns = `id, team_id, match_id, status, reader_id, opened_at, reading_at, completed_at`

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	if err := row.Scan(&s.ID, &s.TeamID, &s.MatchID, &s.Status, &s.ReaderID, &s.OpenedAt, &s.ReadingAt, &s.CompletedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) CreateMatchSession(ctx context.Context, teamID uuid.UUID, opponent string, playedAt time.Time) (*domain.Match, *domain.Session, error) {
	var match domain.Match
	var session *domain.Session
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		const insertMatch = `
			INSERT INTO matches (id, team_id, opponent, played_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, team_id, opponent, played_at, created_at
		`
		if err := tx.QueryRow(ctx, insertMatch, uuid.New(), teamID, opponent, playedAt).Scan(
			&match.ID, &match.TeamID, &match.Opponent, &match.PlayedAt, &match.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}

		const insertSession = `
			INSERT INTO sessions (id, team_id, match_id, status)
			VALUES ($1, $2, $3, 'OPEN')
			RETURNING ` + sessionColumns
		var err error
		session, err = scanSession(tx.QueryRow(ctx, insertSession, uuid.New(), teamID, match.ID))
		if err != nil {
			if isUniqueViolation(err) {
				return domain.NewConflictError("team already has a session in progress")
			}
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &match, session, nil
}

func (r *PostgresRepository) GetMatch(ctx context.Context, matchID uuid.UUID) (*domain.Match, error) {
	const q = `SELECT id, team_id, opponent, played_at, created_at FROM matches WHERE id = $1`
	var m domain.Match
	if err := r.pool.QueryRow(ctx, q, matchID).Scan(&m.ID, &m.TeamID, &m.Opponent, &m.PlayedAt, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("match")
		}
		return nil, fmt.Errorf("get match: %w", err)
	}
	return &m, nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	s, err := scanSession(r.pool.QueryRow(ctx, q, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("session")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, teamID uuid.UUID, filter ports.SessionFilter) ([]domain.Session, error) {
	const q = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE team_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY opened_at DESC, id DESC
	`
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	return r.listSessions(ctx, q, teamID, status)
}

func (r *PostgresRepository) listSessions(ctx context.Context, q string, args ...any) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *PostgresRepository) TransitionSession(ctx context.Context, sessionID uuid.UUID, from, to domain.SessionStatus, at time.Time) (*domain.Session, error) {
	const q = `
		UPDATE sessions
		SET status = $3,
		    reading_at = CASE WHEN $3 = 'READING' THEN $4 ELSE reading_at END,
		    completed_at = CASE WHEN $3 = 'COMPLETED' THEN $4 ELSE completed_at END
		WHERE id = $1 AND status = $2
		RETURNING ` + sessionColumns
	s, err := scanSession(r.pool.QueryRow(ctx, q, sessionID, from, to, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetSession(ctx, sessionID); getErr != nil {
				return nil, getErr
			}
			return nil, domain.NewConflictError(fmt.Sprintf("session is no longer %s", from))
		}
		return nil, fmt.Errorf("transition session: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) SetSessionReader(ctx context.Context, sessionID, readerID uuid.UUID) (*domain.Session, error) {
	const q = `
		UPDATE sessions
		SET reader_id = $2
		WHERE id = $1
		RETURNING ` + sessionColumns
	s, err := scanSession(r.pool.QueryRow(ctx, q, sessionID, readerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("session")
		}
		return nil, fmt.Errorf("set session reader: %w", err)
	}
	return s, nil
}

// Votes

const voteColumns = `id, session_id, voter_id, top_player_id, top_comment, flop_player_id, flop_comment,
	predicted_top_id, predicted_flop_id, best_action_player_id, worst_action_player_id, created_at`

func scanVote(row pgx.Row) (*domain.Vote, error) {
	var v domain.Vote
	if err := row.Scan(
		&v.ID, &v.SessionID, &v.VoterID,
		&v.TopPlayerID, &v.TopComment, &v.FlopPlayerID, &v.FlopComment,
		&v.PredictedTopID, &v.PredictedFlopID, &v.BestActionPlayerID, &v.WorstActionPlayerID,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresRepository) CreateVote(ctx context.Context, vote domain.Vote) (*domain.Vote, error) {
	const q = `
		INSERT INTO votes (id, session_id, voter_id, top_player_id, top_comment, flop_player_id, flop_comment,
			predicted_top_id, predicted_flop_id, best_action_player_id, worst_action_player_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + voteColumns
	v, err := scanVote(r.pool.QueryRow(ctx, q,
		uuid.New(), vote.SessionID, vote.VoterID,
		vote.TopPlayerID, vote.TopComment, vote.FlopPlayerID, vote.FlopComment,
		vote.PredictedTopID, vote.PredictedFlopID, vote.BestActionPlayerID, vote.WorstActionPlayerID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Debug("vote rejected by constraint", "constraint", constraintName(err))
			return nil, domain.NewConflictError("player already voted in this session")
		}
		return nil, fmt.Errorf("insert vote: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) ListVotes(ctx context.Context, sessionID uuid.UUID) ([]domain.Vote, error) {
	const q = `
		SELECT ` + voteColumns + `
		FROM votes
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, *v)
	}
	return votes, rows.Err()
}

func (r *PostgresRepository) ListCompletedSessionVotes(ctx context.Context, teamID uuid.UUID) ([]ports.SessionVotes, error) {
	const sessionsQ = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE team_id = $1 AND status = 'COMPLETED'
		ORDER BY opened_at ASC, id ASC
	`
	sessions, err := r.listSessions(ctx, sessionsQ, teamID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return []ports.SessionVotes{}, nil
	}

	const votesQ = `
		SELECT v.id, v.session_id, v.voter_id, v.top_player_id, v.top_comment, v.flop_player_id, v.flop_comment,
			v.predicted_top_id, v.predicted_flop_id, v.best_action_player_id, v.worst_action_player_id, v.created_at
		FROM votes v
		JOIN sessions s ON s.id = v.session_id
		WHERE s.team_id = $1 AND s.status = 'COMPLETED'
		ORDER BY v.created_at ASC, v.id ASC
	`
	rows, err := r.pool.Query(ctx, votesQ, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team votes: %w", err)
	}
	defer rows.Close()

	bySession := make(map[uuid.UUID][]domain.Vote, len(sessions))
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		bySession[v.SessionID] = append(bySession[v.SessionID], *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ports.SessionVotes, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ports.SessionVotes{Session: s, Votes: bySession[s.ID]})
	}
	return out, nil
}

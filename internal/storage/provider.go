package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ashita-ai/geoscore/internal/model"
)

// PostgresProvider fetches the full ranking snapshot from Postgres. It
// exports one logical snapshot via pg_export_snapshot() and has every
// concurrent fetch connection import it with SET TRANSACTION SNAPSHOT, so
// spaces, users, votes, and entities+perspectives are all read as of the
// same instant even though they're fetched over separate pooled
// connections.
type PostgresProvider struct {
	db *DB
}

// NewPostgresProvider returns a PostgresProvider reading through db.
func NewPostgresProvider(db *DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// FetchAll implements the snapshot side of the data provider contract: the
// ranking core consumes exactly the four collections this returns.
func (p *PostgresProvider) FetchAll(ctx context.Context) (model.Snapshot, error) {
	exportTx, err := p.db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("storage: begin snapshot export tx: %w", err)
	}
	defer func() { _ = exportTx.Rollback(ctx) }()

	var snapshotID string
	if err := exportTx.QueryRow(ctx, "SELECT pg_export_snapshot()").Scan(&snapshotID); err != nil {
		return model.Snapshot{}, fmt.Errorf("storage: export snapshot: %w", err)
	}

	var (
		spaces   []model.Space
		users    []model.User
		votes    []model.Vote
		entities []model.Entity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spaces, err = p.fetchSpaces(gctx, snapshotID)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = p.fetchUsers(gctx, snapshotID)
		return err
	})
	g.Go(func() error {
		var err error
		votes, err = p.fetchVotes(gctx, snapshotID)
		return err
	})
	g.Go(func() error {
		var err error
		entities, err = p.fetchEntitiesWithPerspectives(gctx, snapshotID)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{Entities: entities, Votes: votes, Users: users, Spaces: spaces}, nil
}

// withSnapshot runs fn inside a fresh read-only transaction imported into
// snapshotID, on its own pooled connection. Each collection fetch gets its
// own connection so the four fetches can run concurrently.
func (p *PostgresProvider) withSnapshot(ctx context.Context, snapshotID string, fn func(tx pgx.Tx) error) error {
	conn, err := p.db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("storage: acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SET TRANSACTION SNAPSHOT '"+snapshotID+"'"); err != nil {
		return fmt.Errorf("storage: import snapshot: %w", err)
	}

	return fn(tx)
}

func (p *PostgresProvider) fetchSpaces(ctx context.Context, snapshotID string) ([]model.Space, error) {
	var spaces []model.Space
	err := p.withSnapshot(ctx, snapshotID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id, created_at, parent_space_id FROM spaces`)
		if err != nil {
			return fmt.Errorf("storage: query spaces: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s model.Space
			if err := rows.Scan(&s.ID, &s.CreatedAt, &s.ParentSpaceID); err != nil {
				return fmt.Errorf("storage: scan space: %w", err)
			}
			spaces = append(spaces, s)
		}
		return rows.Err()
	})
	return spaces, err
}

func (p *PostgresProvider) fetchUsers(ctx context.Context, snapshotID string) ([]model.User, error) {
	var users []model.User
	err := p.withSnapshot(ctx, snapshotID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT user_id, space_id, role FROM user_space_roles`)
		if err != nil {
			return fmt.Errorf("storage: query user_space_roles: %w", err)
		}
		defer rows.Close()

		byID := make(map[string]*model.User)
		for rows.Next() {
			var userID, spaceID, role string
			if err := rows.Scan(&userID, &spaceID, &role); err != nil {
				return fmt.Errorf("storage: scan user_space_role: %w", err)
			}
			u, ok := byID[userID]
			if !ok {
				u = &model.User{
					ID:           userID,
					MemberSpaces: make(map[string]struct{}),
					EditorSpaces: make(map[string]struct{}),
				}
				byID[userID] = u
			}
			switch role {
			case "editor":
				u.EditorSpaces[spaceID] = struct{}{}
			default:
				u.MemberSpaces[spaceID] = struct{}{}
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}
		for _, u := range byID {
			users = append(users, *u)
		}
		return nil
	})
	return users, err
}

func (p *PostgresProvider) fetchVotes(ctx context.Context, snapshotID string) ([]model.Vote, error) {
	var votes []model.Vote
	err := p.withSnapshot(ctx, snapshotID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT user_id, entity_id, space_id, vote_type, cast_at FROM votes`)
		if err != nil {
			return fmt.Errorf("storage: query votes: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var v model.Vote
			var voteType int
			if err := rows.Scan(&v.UserID, &v.EntityID, &v.SpaceID, &voteType, &v.Timestamp); err != nil {
				return fmt.Errorf("storage: scan vote: %w", err)
			}
			v.VoteType = model.VoteType(voteType)
			if !v.VoteType.Valid() {
				continue // DataInconsistency: drop malformed polarity rather than fail the run
			}
			v.Weight = 1.0
			votes = append(votes, v)
		}
		return rows.Err()
	})
	return votes, err
}

func (p *PostgresProvider) fetchEntitiesWithPerspectives(ctx context.Context, snapshotID string) ([]model.Entity, error) {
	var entities []model.Entity
	err := p.withSnapshot(ctx, snapshotID, func(tx pgx.Tx) error {
		entityRows, err := tx.Query(ctx, `SELECT id, created_at, version FROM entities`)
		if err != nil {
			return fmt.Errorf("storage: query entities: %w", err)
		}
		byID := make(map[string]*model.Entity)
		order := make([]string, 0)
		for entityRows.Next() {
			var e model.Entity
			if err := entityRows.Scan(&e.ID, &e.CreatedAt, &e.Version); err != nil {
				entityRows.Close()
				return fmt.Errorf("storage: scan entity: %w", err)
			}
			byID[e.ID] = &e
			order = append(order, e.ID)
		}
		if err := entityRows.Err(); err != nil {
			entityRows.Close()
			return err
		}
		entityRows.Close()

		perspectiveRows, err := tx.Query(ctx, `SELECT id, entity_id, space_id, created_at, version FROM perspectives`)
		if err != nil {
			return fmt.Errorf("storage: query perspectives: %w", err)
		}
		defer perspectiveRows.Close()
		for perspectiveRows.Next() {
			var p model.Perspective
			if err := perspectiveRows.Scan(&p.ID, &p.EntityID, &p.SpaceID, &p.CreatedAt, &p.Version); err != nil {
				return fmt.Errorf("storage: scan perspective: %w", err)
			}
			e, ok := byID[p.EntityID]
			if !ok {
				continue // DataInconsistency: perspective referencing a missing entity is skipped
			}
			e.Perspectives = append(e.Perspectives, p)
		}
		if err := perspectiveRows.Err(); err != nil {
			return err
		}

		entities = make([]model.Entity, 0, len(order))
		for _, id := range order {
			entities = append(entities, *byID[id])
		}
		return nil
	})
	return entities, err
}

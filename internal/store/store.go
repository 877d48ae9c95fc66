// Package store persists emotive ledger records in SQLite. Every write that
// spans more than one row runs in a transaction, and every update of a
// mutable record is guarded by its revision counter: a stale revision leaves
// the row untouched and surfaces ErrRevisionConflict.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/reputation"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS registry (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	authority     TEXT NOT NULL,
	total_records INTEGER NOT NULL,
	last_update   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	session_id           BLOB PRIMARY KEY,
	creator              TEXT NOT NULL,
	start_time           INTEGER NOT NULL,
	vector               BLOB NOT NULL,
	params               BLOB,
	interaction_count    INTEGER NOT NULL,
	compressed_state     BLOB NOT NULL,
	bridge_chain         TEXT,
	bridge_contract      TEXT,
	bridge_status        INTEGER NOT NULL DEFAULT 0,
	bridge_time          INTEGER NOT NULL DEFAULT 0,
	bridge_hash          BLOB,
	reputation           REAL NOT NULL,
	complexity           REAL NOT NULL,
	creativity_index     REAL NOT NULL,
	community_engagement INTEGER NOT NULL,
	last_updated         INTEGER NOT NULL,
	revision             INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS performance_log (
	performance_id TEXT PRIMARY KEY,
	session_id     BLOB NOT NULL,
	ts             INTEGER NOT NULL,
	vector         BLOB NOT NULL,
	params         BLOB,
	intensity      REAL NOT NULL,
	impact         REAL NOT NULL,
	boost          REAL NOT NULL,
	quality        REAL NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE TABLE IF NOT EXISTS trajectories (
	session_id   BLOB PRIMARY KEY,
	history      BLOB NOT NULL,
	predicted    BLOB NOT NULL,
	complexity   REAL NOT NULL,
	update_count INTEGER NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE TABLE IF NOT EXISTS reputations (
	creator            TEXT PRIMARY KEY,
	score              REAL NOT NULL,
	total_interactions INTEGER NOT NULL,
	total_sessions     INTEGER NOT NULL,
	creativity_score   REAL NOT NULL,
	consistency        REAL NOT NULL,
	community_rank     INTEGER NOT NULL,
	last_updated       INTEGER NOT NULL,
	revision           INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS collections (
	collection_id TEXT PRIMARY KEY,
	authority     TEXT NOT NULL,
	name          TEXT NOT NULL,
	symbol        TEXT NOT NULL,
	uri           TEXT NOT NULL,
	total_supply  INTEGER NOT NULL,
	revision      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assets (
	asset_id      TEXT PRIMARY KEY,
	collection_id TEXT NOT NULL,
	owner         TEXT NOT NULL,
	fingerprint   BLOB NOT NULL,
	signature     BLOB NOT NULL,
	ai_confidence REAL NOT NULL,
	emotion       BLOB NOT NULL,
	uri           TEXT NOT NULL,
	generation    INTEGER NOT NULL,
	minted_at     INTEGER NOT NULL,
	last_updated  INTEGER NOT NULL,
	revision      INTEGER NOT NULL,
	FOREIGN KEY (collection_id) REFERENCES collections(collection_id)
);

CREATE TABLE IF NOT EXISTS event_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	record_id  TEXT NOT NULL,
	actor      TEXT,
	details    TEXT,
	created_at TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store manages ledger records in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-open database and runs migrations. The
// caller keeps ownership of db's lifetime.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. event).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region registry
// InitRegistry creates the aggregate counter row, or re-points its authority
// if it already exists. The record count survives re-initialization.
func (s *Store) InitRegistry(authority string, now int64) (Registry, error) {
	_, err := s.db.Exec(
		`INSERT INTO registry (id, authority, total_records, last_update) VALUES (1, ?, 0, ?)
		 ON CONFLICT(id) DO UPDATE SET authority = excluded.authority, last_update = excluded.last_update`,
		authority, now,
	)
	if err != nil {
		return Registry{}, fmt.Errorf("init registry: %w", err)
	}
	return s.Registry()
}

// Registry reads the aggregate counter row.
func (s *Store) Registry() (Registry, error) {
	var reg Registry
	var total int64
	err := s.db.QueryRow(
		`SELECT authority, total_records, last_update FROM registry WHERE id = 1`,
	).Scan(&reg.Authority, &total, &reg.LastUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return Registry{}, fmt.Errorf("get registry: %w", ErrNotFound)
	}
	if err != nil {
		return Registry{}, fmt.Errorf("get registry: %w", err)
	}
	reg.TotalRecords = uint64(total)
	return reg, nil
}

// bumpRegistry counts one record insert. A missing registry row is not an
// error; counting starts once the registry is initialized.
func bumpRegistry(tx *sql.Tx, now int64) error {
	_, err := tx.Exec(
		`UPDATE registry SET total_records = total_records + 1, last_update = ? WHERE id = 1`, now,
	)
	if err != nil {
		return fmt.Errorf("bump registry: %w", err)
	}
	return nil
}

// #endregion registry

// #region create-session
// CreateSession inserts a session together with its empty trajectory.
func (s *Store) CreateSession(sess session.Session, tr trajectory.Trajectory) (session.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return session.Session{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (session_id, creator, start_time, vector, params, interaction_count,
		   compressed_state, bridge_chain, bridge_contract, bridge_status, bridge_time, bridge_hash,
		   reputation, complexity, creativity_index, community_engagement, last_updated, revision)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		sess.SessionID[:], sess.Creator, sess.StartTime, encodeVector(sess.Vector),
		encodeParams(sess.Params), sess.InteractionCount, sess.CompressedState[:],
		nullIfEmpty(sess.Bridge.TargetChain), nullIfEmpty(sess.Bridge.TargetContract),
		sess.Bridge.Status, sess.Bridge.BridgeTime, nullIfZero32(sess.Bridge.EmotionalHash),
		sess.Reputation, sess.Complexity, sess.CreativityIndex, sess.CommunityEngagement,
		sess.LastUpdated,
	)
	if err != nil {
		var n int
		if scanErr := tx.QueryRow(`SELECT COUNT(*) FROM sessions WHERE session_id = ?`,
			sess.SessionID[:]).Scan(&n); scanErr == nil && n > 0 {
			return session.Session{}, fmt.Errorf("session %x: %w", sess.SessionID[:4], ErrDuplicate)
		}
		return session.Session{}, fmt.Errorf("insert session: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO trajectories (session_id, history, predicted, complexity, update_count)
		 VALUES (?, ?, ?, ?, ?)`,
		tr.SessionID[:], encodeHistory(tr.History), encodeVector(tr.PredictedNext),
		tr.Complexity, tr.UpdateCount,
	)
	if err != nil {
		return session.Session{}, fmt.Errorf("insert trajectory: %w", err)
	}

	if err := bumpRegistry(tx, sess.LastUpdated); err != nil {
		return session.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return session.Session{}, fmt.Errorf("commit: %w", err)
	}

	sess.Revision = 1
	return sess, nil
}

// #endregion create-session

// #region session-scan
const sessionColumns = `session_id, creator, start_time, vector, params, interaction_count,
	compressed_state, bridge_chain, bridge_contract, bridge_status, bridge_time, bridge_hash,
	reputation, complexity, creativity_index, community_engagement, last_updated, revision`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (session.Session, error) {
	var sess session.Session
	var id, vecBlob, paramsBlob, stateBlob, bridgeHash []byte
	var bridgeChain, bridgeContract sql.NullString

	err := row.Scan(
		&id, &sess.Creator, &sess.StartTime, &vecBlob, &paramsBlob, &sess.InteractionCount,
		&stateBlob, &bridgeChain, &bridgeContract, &sess.Bridge.Status, &sess.Bridge.BridgeTime,
		&bridgeHash, &sess.Reputation, &sess.Complexity, &sess.CreativityIndex,
		&sess.CommunityEngagement, &sess.LastUpdated, &sess.Revision,
	)
	if err != nil {
		return session.Session{}, err
	}

	sess.SessionID = bytes32(id)
	sess.Vector, err = decodeVector(vecBlob)
	if err != nil {
		return session.Session{}, fmt.Errorf("decode vector: %w", err)
	}
	sess.Params = decodeParams(paramsBlob)
	sess.CompressedState = bytes32(stateBlob)
	if bridgeChain.Valid {
		sess.Bridge.TargetChain = bridgeChain.String
	}
	if bridgeContract.Valid {
		sess.Bridge.TargetContract = bridgeContract.String
	}
	sess.Bridge.EmotionalHash = bytes32(bridgeHash)
	return sess, nil
}

// #endregion session-scan

// #region get-session
// GetSession retrieves a session by ID.
func (s *Store) GetSession(id [32]byte) (session.Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`, id[:],
	)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, fmt.Errorf("get session %x: %w", id[:4], ErrNotFound)
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("get session %x: %w", id[:4], err)
	}
	return sess, nil
}

// #endregion get-session

// #region list-sessions
// ListSessions returns the most recently updated sessions.
func (s *Store) ListSessions(limit int) ([]session.Session, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY last_updated DESC, creator LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// #endregion list-sessions

// #region update-session
// updateSession runs the revision-guarded session UPDATE inside tx. Creator,
// session ID and start time are immutable and never rewritten.
func updateSession(tx *sql.Tx, sess session.Session) error {
	res, err := tx.Exec(
		`UPDATE sessions SET vector = ?, params = ?, interaction_count = ?, compressed_state = ?,
		   bridge_chain = ?, bridge_contract = ?, bridge_status = ?, bridge_time = ?, bridge_hash = ?,
		   reputation = ?, complexity = ?, creativity_index = ?, community_engagement = ?,
		   last_updated = ?, revision = revision + 1
		 WHERE session_id = ? AND revision = ?`,
		encodeVector(sess.Vector), encodeParams(sess.Params), sess.InteractionCount,
		sess.CompressedState[:], nullIfEmpty(sess.Bridge.TargetChain),
		nullIfEmpty(sess.Bridge.TargetContract), sess.Bridge.Status, sess.Bridge.BridgeTime,
		nullIfZero32(sess.Bridge.EmotionalHash), sess.Reputation, sess.Complexity,
		sess.CreativityIndex, sess.CommunityEngagement, sess.LastUpdated,
		sess.SessionID[:], sess.Revision,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return sessionGuardErr(tx, sess.SessionID)
	}
	return nil
}

// sessionGuardErr tells a missing session apart from a lost revision race.
func sessionGuardErr(tx *sql.Tx, id [32]byte) error {
	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM sessions WHERE session_id = ?`, id[:]).Scan(&n); err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %x: %w", id[:4], ErrNotFound)
	}
	return fmt.Errorf("session %x: %w", id[:4], ErrRevisionConflict)
}

// #endregion update-session

// #region save-session
// SaveSession writes an advanced session back, guarded by the revision it
// was loaded at.
func (s *Store) SaveSession(sess session.Session) (session.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return session.Session{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := updateSession(tx, sess); err != nil {
		return session.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return session.Session{}, fmt.Errorf("commit: %w", err)
	}

	sess.Revision++
	return sess, nil
}

// #endregion save-session

// #region save-observation
// SaveObservation persists one recorded observation: the advanced session
// and its performance row commit together or not at all.
func (s *Store) SaveObservation(sess session.Session, performanceID string, perf session.PerformanceRecord) (session.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return session.Session{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := updateSession(tx, sess); err != nil {
		return session.Session{}, err
	}

	_, err = tx.Exec(
		`INSERT INTO performance_log (performance_id, session_id, ts, vector, params, intensity, impact, boost, quality)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		performanceID, perf.SessionID[:], perf.Timestamp, encodeVector(perf.Vector),
		encodeParams(perf.Params), perf.Intensity, perf.Impact, perf.Boost, perf.Quality,
	)
	if err != nil {
		return session.Session{}, fmt.Errorf("insert performance: %w", err)
	}

	if err := bumpRegistry(tx, perf.Timestamp); err != nil {
		return session.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return session.Session{}, fmt.Errorf("commit: %w", err)
	}

	sess.Revision++
	return sess, nil
}

// #endregion save-observation

// #region list-performance
// ListPerformance returns a session's performance rows in recording order.
func (s *Store) ListPerformance(sessionID [32]byte, limit int) ([]session.PerformanceRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_id, ts, vector, params, intensity, impact, boost, quality
		 FROM performance_log WHERE session_id = ? ORDER BY ts, rowid LIMIT ?`,
		sessionID[:], limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list performance: %w", err)
	}
	defer rows.Close()

	var records []session.PerformanceRecord
	for rows.Next() {
		var perf session.PerformanceRecord
		var id, vecBlob, paramsBlob []byte
		if err := rows.Scan(&id, &perf.Timestamp, &vecBlob, &paramsBlob,
			&perf.Intensity, &perf.Impact, &perf.Boost, &perf.Quality); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		perf.SessionID = bytes32(id)
		perf.Vector, err = decodeVector(vecBlob)
		if err != nil {
			return nil, fmt.Errorf("decode performance vector: %w", err)
		}
		perf.Params = decodeParams(paramsBlob)
		records = append(records, perf)
	}
	return records, rows.Err()
}

// #endregion list-performance

// #region get-trajectory
// GetTrajectory retrieves a session's trajectory.
func (s *Store) GetTrajectory(sessionID [32]byte) (trajectory.Trajectory, error) {
	var tr trajectory.Trajectory
	var historyBlob, predictedBlob []byte

	err := s.db.QueryRow(
		`SELECT history, predicted, complexity, update_count FROM trajectories WHERE session_id = ?`,
		sessionID[:],
	).Scan(&historyBlob, &predictedBlob, &tr.Complexity, &tr.UpdateCount)
	if errors.Is(err, sql.ErrNoRows) {
		return trajectory.Trajectory{}, fmt.Errorf("get trajectory %x: %w", sessionID[:4], ErrNotFound)
	}
	if err != nil {
		return trajectory.Trajectory{}, fmt.Errorf("get trajectory %x: %w", sessionID[:4], err)
	}

	tr.SessionID = sessionID
	tr.History, err = decodeHistory(historyBlob)
	if err != nil {
		return trajectory.Trajectory{}, fmt.Errorf("decode history: %w", err)
	}
	tr.PredictedNext, err = decodeVector(predictedBlob)
	if err != nil {
		return trajectory.Trajectory{}, fmt.Errorf("decode prediction: %w", err)
	}
	return tr, nil
}

// #endregion get-trajectory

// #region save-trajectory-advance
// SaveTrajectoryAdvance persists one trajectory step: the advanced session
// and its trajectory commit together. The session's revision guard
// serializes writers; the trajectory row has no counter of its own.
func (s *Store) SaveTrajectoryAdvance(sess session.Session, tr trajectory.Trajectory) (session.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return session.Session{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := updateSession(tx, sess); err != nil {
		return session.Session{}, err
	}

	res, err := tx.Exec(
		`UPDATE trajectories SET history = ?, predicted = ?, complexity = ?, update_count = ?
		 WHERE session_id = ?`,
		encodeHistory(tr.History), encodeVector(tr.PredictedNext), tr.Complexity,
		tr.UpdateCount, tr.SessionID[:],
	)
	if err != nil {
		return session.Session{}, fmt.Errorf("update trajectory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return session.Session{}, fmt.Errorf("update trajectory: %w", err)
	}
	if n == 0 {
		return session.Session{}, fmt.Errorf("trajectory %x: %w", tr.SessionID[:4], ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return session.Session{}, fmt.Errorf("commit: %w", err)
	}

	sess.Revision++
	return sess, nil
}

// #endregion save-trajectory-advance

// #region get-reputation
// GetReputation retrieves a creator's reputation record.
func (s *Store) GetReputation(creator string) (reputation.Record, error) {
	var rec reputation.Record
	var interactions int64

	err := s.db.QueryRow(
		`SELECT creator, score, total_interactions, total_sessions, creativity_score,
		   consistency, community_rank, last_updated, revision
		 FROM reputations WHERE creator = ?`, creator,
	).Scan(&rec.Creator, &rec.Score, &interactions, &rec.TotalSessions, &rec.CreativityScore,
		&rec.Consistency, &rec.CommunityRank, &rec.LastUpdated, &rec.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return reputation.Record{}, fmt.Errorf("get reputation %s: %w", creator, ErrNotFound)
	}
	if err != nil {
		return reputation.Record{}, fmt.Errorf("get reputation %s: %w", creator, err)
	}

	rec.TotalInteractions = uint64(interactions)
	return rec, nil
}

// #endregion get-reputation

// #region list-reputations
// ListReputations returns reputation records ordered by score, best first.
func (s *Store) ListReputations(limit int) ([]reputation.Record, error) {
	rows, err := s.db.Query(
		`SELECT creator, score, total_interactions, total_sessions, creativity_score,
		   consistency, community_rank, last_updated, revision
		 FROM reputations ORDER BY score DESC, creator LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reputations: %w", err)
	}
	defer rows.Close()

	var records []reputation.Record
	for rows.Next() {
		var rec reputation.Record
		var interactions int64
		if err := rows.Scan(&rec.Creator, &rec.Score, &interactions, &rec.TotalSessions,
			&rec.CreativityScore, &rec.Consistency, &rec.CommunityRank, &rec.LastUpdated,
			&rec.Revision); err != nil {
			return nil, fmt.Errorf("scan reputation: %w", err)
		}
		rec.TotalInteractions = uint64(interactions)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-reputations

// #region save-reputation
// SaveReputation upserts a reputation record and refreshes every creator's
// community rank in the same transaction. Rank 1 is the highest score;
// equal scores share a rank. A record at revision zero inserts; anything
// else is a guarded update.
func (s *Store) SaveReputation(rec reputation.Record) (reputation.Record, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return reputation.Record{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if rec.Revision == 0 {
		_, err = tx.Exec(
			`INSERT INTO reputations (creator, score, total_interactions, total_sessions,
			   creativity_score, consistency, community_rank, last_updated, revision)
			 VALUES (?, ?, ?, ?, ?, ?, 0, ?, 1)`,
			rec.Creator, rec.Score, int64(rec.TotalInteractions), rec.TotalSessions,
			rec.CreativityScore, rec.Consistency, rec.LastUpdated,
		)
		if err != nil {
			var n int
			if scanErr := tx.QueryRow(`SELECT COUNT(*) FROM reputations WHERE creator = ?`,
				rec.Creator).Scan(&n); scanErr == nil && n > 0 {
				return reputation.Record{}, fmt.Errorf("reputation %s: %w", rec.Creator, ErrRevisionConflict)
			}
			return reputation.Record{}, fmt.Errorf("insert reputation: %w", err)
		}
		if err := bumpRegistry(tx, rec.LastUpdated); err != nil {
			return reputation.Record{}, err
		}
		rec.Revision = 1
	} else {
		res, err := tx.Exec(
			`UPDATE reputations SET score = ?, total_interactions = ?, total_sessions = ?,
			   creativity_score = ?, consistency = ?, last_updated = ?, revision = revision + 1
			 WHERE creator = ? AND revision = ?`,
			rec.Score, int64(rec.TotalInteractions), rec.TotalSessions, rec.CreativityScore,
			rec.Consistency, rec.LastUpdated, rec.Creator, rec.Revision,
		)
		if err != nil {
			return reputation.Record{}, fmt.Errorf("update reputation: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return reputation.Record{}, fmt.Errorf("update reputation: %w", err)
		}
		if n == 0 {
			var exists int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM reputations WHERE creator = ?`,
				rec.Creator).Scan(&exists); err != nil {
				return reputation.Record{}, fmt.Errorf("check reputation: %w", err)
			}
			if exists == 0 {
				return reputation.Record{}, fmt.Errorf("reputation %s: %w", rec.Creator, ErrNotFound)
			}
			return reputation.Record{}, fmt.Errorf("reputation %s: %w", rec.Creator, ErrRevisionConflict)
		}
		rec.Revision++
	}

	_, err = tx.Exec(
		`UPDATE reputations SET community_rank =
		   (SELECT COUNT(*) FROM reputations AS r2 WHERE r2.score > reputations.score) + 1`,
	)
	if err != nil {
		return reputation.Record{}, fmt.Errorf("refresh ranks: %w", err)
	}

	var rank uint32
	if err := tx.QueryRow(`SELECT community_rank FROM reputations WHERE creator = ?`,
		rec.Creator).Scan(&rank); err != nil {
		return reputation.Record{}, fmt.Errorf("read rank: %w", err)
	}
	rec.CommunityRank = rank

	if err := tx.Commit(); err != nil {
		return reputation.Record{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion save-reputation

// #region create-collection
// CreateCollection inserts a new asset collection.
func (s *Store) CreateCollection(col asset.Collection, now int64) (asset.Collection, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return asset.Collection{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO collections (collection_id, authority, name, symbol, uri, total_supply, revision)
		 VALUES (?, ?, ?, ?, ?, ?, 1)`,
		col.ID, col.Authority, col.Name, col.Symbol, col.URI, int64(col.TotalSupply),
	)
	if err != nil {
		var n int
		if scanErr := tx.QueryRow(`SELECT COUNT(*) FROM collections WHERE collection_id = ?`,
			col.ID).Scan(&n); scanErr == nil && n > 0 {
			return asset.Collection{}, fmt.Errorf("collection %s: %w", col.ID, ErrDuplicate)
		}
		return asset.Collection{}, fmt.Errorf("insert collection: %w", err)
	}

	if err := bumpRegistry(tx, now); err != nil {
		return asset.Collection{}, err
	}
	if err := tx.Commit(); err != nil {
		return asset.Collection{}, fmt.Errorf("commit: %w", err)
	}

	col.Revision = 1
	return col, nil
}

// #endregion create-collection

// #region get-collection
// GetCollection retrieves a collection by ID.
func (s *Store) GetCollection(id string) (asset.Collection, error) {
	var col asset.Collection
	var supply int64

	err := s.db.QueryRow(
		`SELECT collection_id, authority, name, symbol, uri, total_supply, revision
		 FROM collections WHERE collection_id = ?`, id,
	).Scan(&col.ID, &col.Authority, &col.Name, &col.Symbol, &col.URI, &supply, &col.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Collection{}, fmt.Errorf("get collection %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return asset.Collection{}, fmt.Errorf("get collection %s: %w", id, err)
	}

	col.TotalSupply = uint64(supply)
	return col, nil
}

// #endregion get-collection

// #region save-mint
// SaveMint persists one mint: the bumped collection and the new asset commit
// together. The collection update is guarded, so two mints racing from the
// same supply count cannot both land.
func (s *Store) SaveMint(col asset.Collection, a asset.Asset) (asset.Collection, asset.Asset, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return asset.Collection{}, asset.Asset{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE collections SET total_supply = ?, revision = revision + 1
		 WHERE collection_id = ? AND revision = ?`,
		int64(col.TotalSupply), col.ID, col.Revision,
	)
	if err != nil {
		return asset.Collection{}, asset.Asset{}, fmt.Errorf("update collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return asset.Collection{}, asset.Asset{}, fmt.Errorf("update collection: %w", err)
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM collections WHERE collection_id = ?`,
			col.ID).Scan(&exists); err != nil {
			return asset.Collection{}, asset.Asset{}, fmt.Errorf("check collection: %w", err)
		}
		if exists == 0 {
			return asset.Collection{}, asset.Asset{}, fmt.Errorf("collection %s: %w", col.ID, ErrNotFound)
		}
		return asset.Collection{}, asset.Asset{}, fmt.Errorf("collection %s: %w", col.ID, ErrRevisionConflict)
	}

	_, err = tx.Exec(
		`INSERT INTO assets (asset_id, collection_id, owner, fingerprint, signature, ai_confidence,
		   emotion, uri, generation, minted_at, last_updated, revision)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		a.ID, a.CollectionID, a.Owner, a.Fingerprint[:], a.Signature[:], a.AIConfidence,
		encodeVector(a.Emotion), a.URI, int64(a.Generation), a.MintedAt, a.LastUpdated,
	)
	if err != nil {
		return asset.Collection{}, asset.Asset{}, fmt.Errorf("insert asset: %w", err)
	}

	if err := bumpRegistry(tx, a.MintedAt); err != nil {
		return asset.Collection{}, asset.Asset{}, err
	}
	if err := tx.Commit(); err != nil {
		return asset.Collection{}, asset.Asset{}, fmt.Errorf("commit: %w", err)
	}

	col.Revision++
	a.Revision = 1
	return col, a, nil
}

// #endregion save-mint

// #region asset-scan
const assetColumns = `asset_id, collection_id, owner, fingerprint, signature, ai_confidence,
	emotion, uri, generation, minted_at, last_updated, revision`

func scanAsset(row rowScanner) (asset.Asset, error) {
	var a asset.Asset
	var fingerprint, signature, emotionBlob []byte
	var generation int64

	err := row.Scan(&a.ID, &a.CollectionID, &a.Owner, &fingerprint, &signature,
		&a.AIConfidence, &emotionBlob, &a.URI, &generation, &a.MintedAt, &a.LastUpdated,
		&a.Revision)
	if err != nil {
		return asset.Asset{}, err
	}

	a.Fingerprint = bytes32(fingerprint)
	a.Signature = bytes64(signature)
	a.Emotion, err = decodeVector(emotionBlob)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("decode emotion: %w", err)
	}
	a.Generation = uint64(generation)
	return a, nil
}

// #endregion asset-scan

// #region get-asset
// GetAsset retrieves an asset by ID.
func (s *Store) GetAsset(id string) (asset.Asset, error) {
	row := s.db.QueryRow(`SELECT `+assetColumns+` FROM assets WHERE asset_id = ?`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Asset{}, fmt.Errorf("get asset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return asset.Asset{}, fmt.Errorf("get asset %s: %w", id, err)
	}
	return a, nil
}

// #endregion get-asset

// #region save-asset
// SaveAsset writes an updated asset back, guarded by the revision it was
// loaded at. Fingerprint, generation and mint time are immutable.
func (s *Store) SaveAsset(a asset.Asset) (asset.Asset, error) {
	res, err := s.db.Exec(
		`UPDATE assets SET owner = ?, signature = ?, ai_confidence = ?, emotion = ?, uri = ?,
		   last_updated = ?, revision = revision + 1
		 WHERE asset_id = ? AND revision = ?`,
		a.Owner, a.Signature[:], a.AIConfidence, encodeVector(a.Emotion), a.URI,
		a.LastUpdated, a.ID, a.Revision,
	)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("update asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return asset.Asset{}, fmt.Errorf("update asset: %w", err)
	}
	if n == 0 {
		var exists int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM assets WHERE asset_id = ?`,
			a.ID).Scan(&exists); err != nil {
			return asset.Asset{}, fmt.Errorf("check asset: %w", err)
		}
		if exists == 0 {
			return asset.Asset{}, fmt.Errorf("asset %s: %w", a.ID, ErrNotFound)
		}
		return asset.Asset{}, fmt.Errorf("asset %s: %w", a.ID, ErrRevisionConflict)
	}

	a.Revision++
	return a, nil
}

// #endregion save-asset

// #region list-assets
// ListAssets returns a collection's assets in mint order.
func (s *Store) ListAssets(collectionID string, limit int) ([]asset.Asset, error) {
	rows, err := s.db.Query(
		`SELECT `+assetColumns+` FROM assets WHERE collection_id = ? ORDER BY generation LIMIT ?`,
		collectionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// #endregion list-assets

// #region asset-emotions
// AssetEmotions loads the emotional vectors for the given asset IDs,
// preserving input order. Any missing asset fails the whole read.
func (s *Store) AssetEmotions(ids []string) ([]emotion.Vector, error) {
	vectors := make([]emotion.Vector, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetAsset(id)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, a.Emotion)
	}
	return vectors, nil
}

// #endregion asset-emotions

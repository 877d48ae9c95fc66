// Command fixture-export turns a recorded session into a replay fixture.
// The first performance row becomes the fixture's start state and every
// later row becomes a turn, so the replayed impact and reputation trace
// line up with what the ledger stored.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/neuroemotive/emotive-core/internal/replay"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to emotive.db")
	sessionID := flag.String("session", "", "session to export (64 hex chars)")
	last := flag.Int("last", 0, "export only the N most recent turns (0 = all)")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *sessionID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --session <id> --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *sessionID, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath, idHex string, last int, outPath string) error {
	raw, err := hex.DecodeString(idHex)
	if err != nil {
		return fmt.Errorf("decode session id: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("session id must be 32 bytes, got %d", len(raw))
	}
	var id [32]byte
	copy(id[:], raw)

	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	sess, err := st.GetSession(id)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	rows, err := st.ListPerformance(id, int(sess.InteractionCount)+1)
	if err != nil {
		return fmt.Errorf("list performance: %w", err)
	}
	if last > 0 && len(rows) > last+1 {
		rows = rows[len(rows)-last-1:]
	}
	if len(rows) < 2 {
		return fmt.Errorf("need at least 2 performance rows to build a fixture, got %d", len(rows))
	}

	fixture := buildFixture(sess, idHex, rows)

	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

// buildFixture anchors the fixture at the first row's vector. The session's
// true initial vector is overwritten by the first observation, so the first
// recorded row is the earliest state a replay can reconstruct from.
func buildFixture(sess session.Session, idHex string, rows []session.PerformanceRecord) replay.Fixture {
	head := rows[0]
	turns := make([]replay.FixtureTurn, len(rows)-1)
	expected := make([]replay.FixtureExpected, len(rows)-1)

	for i, r := range rows[1:] {
		turns[i] = replay.FixtureTurn{
			Timestamp: r.Timestamp,
			Vector:    replay.FromVector(r.Vector),
			Params:    r.Params,
			Intensity: r.Intensity,
			Quality:   r.Quality,
		}
		// Every exported row was committed by the live engine.
		expected[i] = replay.FixtureExpected{Turn: i, Action: "commit"}
	}

	return replay.Fixture{
		Description: fmt.Sprintf("Session export: %d turns by %s", len(turns), sess.Creator),
		Session: replay.FixtureSession{
			Creator:   sess.Creator,
			SessionID: idHex,
			StartTime: head.Timestamp,
			Initial:   replay.FromVector(head.Vector),
			Params:    head.Params,
		},
		Turns:           turns,
		ExpectedResults: expected,
	}
}

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d turns)\n", outPath, len(data), len(fixture.Turns))
	return nil
}

// #endregion output

// Command inspect reads an emotive ledger database and prints sessions,
// trajectories, reputation standings, assets, and the event log. It never
// writes: all output comes straight from store reads.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/event"
	"github.com/neuroemotive/emotive-core/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to emotive.db")
	last := flag.Int("last", 20, "show N most recent rows")
	sessionID := flag.String("session", "", "show single session detail (64 hex chars)")
	creators := flag.Bool("creators", false, "show reputation standings")
	assets := flag.String("assets", "", "show assets in a collection")
	events := flag.Bool("events", false, "show recent event log entries")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/emotive.db [--last N] [--session id] [--creators] [--assets collection] [--events] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *sessionID != "":
		err = runSessionDetail(st, *sessionID, *last, *jsonOut)
	case *creators:
		err = runCreatorMode(st, *last, *jsonOut)
	case *assets != "":
		err = runAssetMode(st, *assets, *last, *jsonOut)
	case *events:
		err = runEventMode(st, *last, *jsonOut)
	default:
		err = runSessionList(st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region session-list

type sessionRow struct {
	SessionID    string  `json:"session_id"`
	Creator      string  `json:"creator"`
	Valence      float32 `json:"valence"`
	Arousal      float32 `json:"arousal"`
	Interactions uint32  `json:"interactions"`
	Reputation   float32 `json:"reputation"`
	Creativity   float32 `json:"creativity"`
	LastUpdated  string  `json:"last_updated"`
}

func runSessionList(st *store.Store, last int, jsonOut bool) error {
	sessions, err := st.ListSessions(last)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}

	rows := make([]sessionRow, len(sessions))
	for i, s := range sessions {
		rows[i] = sessionRow{
			SessionID:    hex.EncodeToString(s.SessionID[:]),
			Creator:      s.Creator,
			Valence:      s.Vector.Valence,
			Arousal:      s.Vector.Arousal,
			Interactions: s.InteractionCount,
			Reputation:   s.Reputation,
			Creativity:   s.CreativityIndex,
			LastUpdated:  fmtTime(s.LastUpdated),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-12s  %7s  %7s  %5s  %6s  %6s  %s\n",
		"Session", "Creator", "Valence", "Arousal", "Turns", "Rep", "Creat", "Updated")
	fmt.Printf("%-10s+-%-12s+-%7s+-%7s+-%5s+-%6s+-%6s+-%s\n",
		"----------", "------------", "-------", "-------", "-----", "------", "------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-10s  %-12s  %7.3f  %7.3f  %5d  %6.3f  %6.3f  %s\n",
			shortID(r.SessionID), r.Creator, r.Valence, r.Arousal,
			r.Interactions, r.Reputation, r.Creativity, r.LastUpdated)
	}
	return nil
}

// #endregion session-list

// #region session-detail

type sessionDetail struct {
	SessionID       string           `json:"session_id"`
	Creator         string           `json:"creator"`
	StartTime       string           `json:"start_time"`
	Vector          vectorOut        `json:"vector"`
	Params          []float32        `json:"params,omitempty"`
	Interactions    uint32           `json:"interactions"`
	CompressedState string           `json:"compressed_state"`
	Reputation      float32          `json:"reputation"`
	Complexity      float32          `json:"complexity"`
	Creativity      float32          `json:"creativity"`
	Engagement      uint32           `json:"community_engagement"`
	LastUpdated     string           `json:"last_updated"`
	Trajectory      *trajectoryOut   `json:"trajectory,omitempty"`
	Performance     []performanceOut `json:"performance,omitempty"`
	Events          []eventOut       `json:"events,omitempty"`
}

type vectorOut struct {
	Valence    float32 `json:"valence"`
	Arousal    float32 `json:"arousal"`
	Dominance  float32 `json:"dominance"`
	Confidence float32 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

type trajectoryOut struct {
	HistoryDepth int       `json:"history_depth"`
	UpdateCount  uint32    `json:"update_count"`
	Complexity   float32   `json:"complexity"`
	Predicted    vectorOut `json:"predicted_next"`
}

type performanceOut struct {
	Timestamp string  `json:"timestamp"`
	Valence   float32 `json:"valence"`
	Arousal   float32 `json:"arousal"`
	Intensity float32 `json:"intensity"`
	Impact    float32 `json:"impact"`
	Boost     float32 `json:"boost"`
	Quality   float32 `json:"quality"`
}

func runSessionDetail(st *store.Store, idHex string, last int, jsonOut bool) error {
	id, err := parseSessionID(idHex)
	if err != nil {
		return err
	}

	sess, err := st.GetSession(id)
	if err != nil {
		return err
	}

	out := sessionDetail{
		SessionID:       idHex,
		Creator:         sess.Creator,
		StartTime:       fmtTime(sess.StartTime),
		Vector:          toVectorOut(sess.Vector),
		Params:          sess.Params,
		Interactions:    sess.InteractionCount,
		CompressedState: hex.EncodeToString(sess.CompressedState[:]),
		Reputation:      sess.Reputation,
		Complexity:      sess.Complexity,
		Creativity:      sess.CreativityIndex,
		Engagement:      sess.CommunityEngagement,
		LastUpdated:     fmtTime(sess.LastUpdated),
	}

	if tr, err := st.GetTrajectory(id); err == nil {
		out.Trajectory = &trajectoryOut{
			HistoryDepth: len(tr.History),
			UpdateCount:  tr.UpdateCount,
			Complexity:   tr.Complexity,
			Predicted:    toVectorOut(tr.PredictedNext),
		}
	}

	perf, err := st.ListPerformance(id, last)
	if err != nil {
		return err
	}
	for _, p := range perf {
		out.Performance = append(out.Performance, performanceOut{
			Timestamp: fmtTime(p.Timestamp),
			Valence:   p.Vector.Valence,
			Arousal:   p.Vector.Arousal,
			Intensity: p.Intensity,
			Impact:    p.Impact,
			Boost:     p.Boost,
			Quality:   p.Quality,
		})
	}

	if entries, err := event.ListFor(st.DB(), idHex, last); err == nil {
		for _, e := range entries {
			out.Events = append(out.Events, toEventOut(e))
		}
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Session:     %s\n", out.SessionID)
	fmt.Printf("Creator:     %s\n", out.Creator)
	fmt.Printf("Started:     %s\n", out.StartTime)
	fmt.Printf("Vector:      v=%.3f a=%.3f d=%.3f c=%.3f @%d\n",
		out.Vector.Valence, out.Vector.Arousal, out.Vector.Dominance, out.Vector.Confidence, out.Vector.Timestamp)
	fmt.Printf("Turns:       %d\n", out.Interactions)
	fmt.Printf("Digest:      %s\n", shortID(out.CompressedState))
	fmt.Printf("Reputation:  %.4f\n", out.Reputation)
	fmt.Printf("Complexity:  %.4f\n", out.Complexity)
	fmt.Printf("Creativity:  %.4f\n", out.Creativity)
	fmt.Printf("Engagement:  %d\n", out.Engagement)
	fmt.Printf("Updated:     %s\n", out.LastUpdated)

	if out.Trajectory != nil {
		fmt.Printf("\nTrajectory:\n")
		fmt.Printf("  History:    %d entries (%d updates)\n", out.Trajectory.HistoryDepth, out.Trajectory.UpdateCount)
		fmt.Printf("  Complexity: %.4f\n", out.Trajectory.Complexity)
		fmt.Printf("  Predicted:  v=%.3f a=%.3f d=%.3f c=%.3f\n",
			out.Trajectory.Predicted.Valence, out.Trajectory.Predicted.Arousal,
			out.Trajectory.Predicted.Dominance, out.Trajectory.Predicted.Confidence)
	}

	if len(out.Performance) > 0 {
		fmt.Printf("\nPerformance (%d most recent):\n", len(out.Performance))
		fmt.Printf("  %-20s  %7s  %7s  %6s  %6s  %6s  %6s\n",
			"Time", "Valence", "Arousal", "Intens", "Impact", "Boost", "Qual")
		for _, p := range out.Performance {
			fmt.Printf("  %-20s  %7.3f  %7.3f  %6.3f  %6.3f  %6.3f  %6.3f\n",
				p.Timestamp, p.Valence, p.Arousal, p.Intensity, p.Impact, p.Boost, p.Quality)
		}
	}

	if len(out.Events) > 0 {
		fmt.Printf("\nEvents (%d most recent):\n", len(out.Events))
		for _, e := range out.Events {
			fmt.Printf("  %-20s  %-22s  %s\n", e.CreatedAt, e.Type, e.Actor)
		}
	}

	return nil
}

// #endregion session-detail

// #region creator-mode

type creatorRow struct {
	Creator      string  `json:"creator"`
	Score        float32 `json:"score"`
	Sessions     uint32  `json:"total_sessions"`
	Interactions uint64  `json:"total_interactions"`
	Creativity   float32 `json:"creativity_score"`
	Consistency  float32 `json:"consistency"`
	Rank         uint32  `json:"community_rank"`
	LastUpdated  string  `json:"last_updated"`
}

func runCreatorMode(st *store.Store, last int, jsonOut bool) error {
	records, err := st.ListReputations(last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no reputation records found")
		return nil
	}

	rows := make([]creatorRow, len(records))
	for i, r := range records {
		rows[i] = creatorRow{
			Creator:      r.Creator,
			Score:        r.Score,
			Sessions:     r.TotalSessions,
			Interactions: r.TotalInteractions,
			Creativity:   r.CreativityScore,
			Consistency:  r.Consistency,
			Rank:         r.CommunityRank,
			LastUpdated:  fmtTime(r.LastUpdated),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-4s  %-12s  %6s  %8s  %6s  %6s  %6s  %s\n",
		"Rank", "Creator", "Score", "Sessions", "Turns", "Creat", "Consis", "Updated")
	fmt.Printf("%-4s+-%-12s+-%6s+-%8s+-%6s+-%6s+-%6s+-%s\n",
		"----", "------------", "------", "--------", "------", "------", "------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-4d  %-12s  %6.3f  %8d  %6d  %6.3f  %6.3f  %s\n",
			r.Rank, r.Creator, r.Score, r.Sessions, r.Interactions, r.Creativity, r.Consistency, r.LastUpdated)
	}
	return nil
}

// #endregion creator-mode

// #region asset-mode

type assetRow struct {
	AssetID      string  `json:"asset_id"`
	Owner        string  `json:"owner"`
	Generation   uint64  `json:"generation"`
	Valence      float32 `json:"valence"`
	Arousal      float32 `json:"arousal"`
	AIConfidence float32 `json:"ai_confidence"`
	MintedAt     string  `json:"minted_at"`
}

func runAssetMode(st *store.Store, collectionID string, last int, jsonOut bool) error {
	col, err := st.GetCollection(collectionID)
	if err != nil {
		return err
	}

	assets, err := st.ListAssets(collectionID, last)
	if err != nil {
		return err
	}

	rows := make([]assetRow, len(assets))
	for i, a := range assets {
		rows[i] = assetRow{
			AssetID:      a.ID,
			Owner:        a.Owner,
			Generation:   a.Generation,
			Valence:      a.Emotion.Valence,
			Arousal:      a.Emotion.Arousal,
			AIConfidence: a.AIConfidence,
			MintedAt:     fmtTime(a.MintedAt),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("Collection %s (%s): %d minted, authority %s\n\n",
		col.Name, col.Symbol, col.TotalSupply, col.Authority)
	fmt.Printf("%-10s  %-12s  %4s  %7s  %7s  %6s  %s\n",
		"Asset", "Owner", "Gen", "Valence", "Arousal", "Conf", "Minted")
	fmt.Printf("%-10s+-%-12s+-%4s+-%7s+-%7s+-%6s+-%s\n",
		"----------", "------------", "----", "-------", "-------", "------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-10s  %-12s  %4d  %7.3f  %7.3f  %6.3f  %s\n",
			shortID(r.AssetID), r.Owner, r.Generation, r.Valence, r.Arousal, r.AIConfidence, r.MintedAt)
	}
	return nil
}

// #endregion asset-mode

// #region event-mode

type eventOut struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	RecordID  string `json:"record_id"`
	Actor     string `json:"actor,omitempty"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

func runEventMode(st *store.Store, last int, jsonOut bool) error {
	entries, err := event.List(st.DB(), last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no events found")
		return nil
	}

	rows := make([]eventOut, len(entries))
	for i, e := range entries {
		rows[i] = toEventOut(e)
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-6s  %-22s  %-10s  %-12s  %s\n", "ID", "Type", "Record", "Actor", "Time")
	fmt.Printf("%-6s+-%-22s+-%-10s+-%-12s+-%s\n",
		"------", "----------------------", "----------", "------------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-6d  %-22s  %-10s  %-12s  %s\n",
			r.ID, r.Type, shortID(r.RecordID), r.Actor, r.CreatedAt)
	}
	return nil
}

func toEventOut(e event.Entry) eventOut {
	return eventOut{
		ID:        e.ID,
		Type:      string(e.Type),
		RecordID:  e.RecordID,
		Actor:     e.Actor,
		Details:   e.Details,
		CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// #endregion event-mode

// #region output

func toVectorOut(v emotion.Vector) vectorOut {
	return vectorOut{
		Valence:    v.Valence,
		Arousal:    v.Arousal,
		Dominance:  v.Dominance,
		Confidence: v.Confidence,
		Timestamp:  v.Timestamp,
	}
}

func parseSessionID(idHex string) ([32]byte, error) {
	var id [32]byte
	raw, err := hex.DecodeString(idHex)
	if err != nil {
		return id, fmt.Errorf("decode session id: %w", err)
	}
	if len(raw) != 32 {
		return id, fmt.Errorf("session id must be 32 bytes, got %d", len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func fmtTime(unix int64) string {
	if unix == 0 {
		return "—"
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02T15:04:05Z")
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
